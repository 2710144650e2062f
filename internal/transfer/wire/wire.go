// Package wire implements the data-channel chunk datagram format: an
// 8-byte big-endian Chunk ID followed by payload bytes, with no length
// field (the datagram length supplies it) and no checksum beyond UDP's.
package wire

import (
	"encoding/binary"

	rerrors "github.com/alxayo/go-udpxfer/internal/errors"
)

// HeaderSize is the fixed 8-byte Chunk ID header every data datagram carries.
const HeaderSize = 8

// AckSize is the fixed size of a data-ACK datagram: an 8-byte Chunk ID.
const AckSize = 8

// EncodeChunk writes the Chunk ID header followed by payload into dst,
// which must be at least HeaderSize+len(payload) bytes. Returns the
// number of bytes written.
func EncodeChunk(dst []byte, chunkID uint64, payload []byte) int {
	binary.BigEndian.PutUint64(dst, chunkID)
	n := copy(dst[HeaderSize:], payload)
	return HeaderSize + n
}

// DecodeChunk parses a received data datagram into its Chunk ID and
// payload slice (a sub-slice of buf — callers that retain it beyond the
// current read must copy it). Datagrams shorter than HeaderSize are
// malformed.
func DecodeChunk(buf []byte) (chunkID uint64, payload []byte, err error) {
	if len(buf) < HeaderSize {
		return 0, nil, rerrors.NewTransferError("wire.decodeChunk", errShortDatagram)
	}
	chunkID = binary.BigEndian.Uint64(buf[:HeaderSize])
	return chunkID, buf[HeaderSize:], nil
}

// EncodeAck writes an 8-byte ACK datagram for chunkID into dst, which must
// be at least AckSize bytes.
func EncodeAck(dst []byte, chunkID uint64) int {
	binary.BigEndian.PutUint64(dst, chunkID)
	return AckSize
}

// DecodeAck parses a received ACK datagram. Datagrams shorter than AckSize
// are spurious per the spec and must be discarded by the caller, not
// treated as a fatal error.
func DecodeAck(buf []byte) (chunkID uint64, ok bool) {
	if len(buf) < AckSize {
		return 0, false
	}
	return binary.BigEndian.Uint64(buf[:AckSize]), true
}

var errShortDatagram = shortDatagramError{}

type shortDatagramError struct{}

func (shortDatagramError) Error() string { return "datagram shorter than chunk header" }
