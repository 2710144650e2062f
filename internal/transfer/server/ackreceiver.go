package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	rerrors "github.com/alxayo/go-udpxfer/internal/errors"
	"github.com/alxayo/go-udpxfer/internal/transfer/session"
	"github.com/alxayo/go-udpxfer/internal/transfer/wire"
)

// runAckReceiver blocks on the control socket for ACK datagrams, feeding
// round-trip samples to the Session's RTT Controller and clearing Timer
// Table entries (spec.md §4.4). Datagrams shorter than wire.AckSize are
// discarded as spurious; ACKs for an already-EMPTY entry are duplicates and
// are no-ops (no counter increment either way).
func runAckReceiver(ctx context.Context, conn *net.UDPConn, sess *session.Session, log *slog.Logger) {
	buf := make([]byte, wire.AckSize+64)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = conn.SetReadDeadline(sess.Clock.Now().Add(500 * time.Millisecond))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if rerrors.IsTimeout(err) {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
				log.Warn("ack read failed", "error", err)
				continue
			}
		}

		chunkID, ok := wire.DecodeAck(buf[:n])
		if !ok {
			continue // spurious: shorter than a valid ACK datagram
		}

		sendTime, _, cleared := sess.Timers.Clear(chunkID)
		if !cleared {
			continue // duplicate ACK or unknown chunk ID: no-op
		}

		sampleRTT := sess.Clock.Now().Sub(sendTime)
		if sess.RTT != nil {
			sess.RTT.Sample(sampleRTT)
		}
		sess.Counters.Acked.Add(1)
	}
}
