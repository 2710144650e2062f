package server

import (
	"net"

	"github.com/alxayo/go-udpxfer/internal/bufpool"
	rerrors "github.com/alxayo/go-udpxfer/internal/errors"
	"github.com/alxayo/go-udpxfer/internal/transfer/session"
	"github.com/alxayo/go-udpxfer/internal/transfer/wire"
)

// dispatchChunk reads the payload, installs the Timer Table entry for
// chunkID *before* the datagram is handed to the OS (spec.md §4.3:
// install-before-send avoids the race where an ACK for a chunk arrives
// before its record exists), then writes the wire-format datagram to the
// client's data address.
func dispatchChunk(conn *net.UDPConn, dst *net.UDPAddr, sess *session.Session, pool *bufpool.Pool, src *chunkSource, chunkID uint64, size int) error {
	buf := pool.Get(wire.HeaderSize + size)
	defer pool.Put(buf)

	payload := buf[wire.HeaderSize:]
	if err := src.read(chunkID, size, payload); err != nil {
		return rerrors.NewTransferError("chunksource.read", err)
	}

	sess.Timers.Install(chunkID, sess.Clock.Now(), size)

	n := wire.EncodeChunk(buf, chunkID, payload[:size])
	if _, err := conn.WriteToUDP(buf[:n], dst); err != nil {
		return rerrors.NewTransferError("dataconn.write", err)
	}
	return nil
}
