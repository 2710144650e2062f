package server

import (
	"context"
	"log/slog"
	"net"

	"github.com/alxayo/go-udpxfer/internal/bufpool"
	"github.com/alxayo/go-udpxfer/internal/logger"
	"github.com/alxayo/go-udpxfer/internal/transfer/partition"
	"github.com/alxayo/go-udpxfer/internal/transfer/session"
	"github.com/alxayo/go-udpxfer/internal/transfer/timertable"
)

// runSender streams one partitioned range as chunk datagrams, then falls
// into the retransmit loop rather than exiting (spec.md §4.3: "after
// emitting its range, a sender worker does NOT exit; it joins the
// Retransmit Pool"). It terminates only when ctx is cancelled.
func runSender(ctx context.Context, rng partition.Range, conn *net.UDPConn, dst *net.UDPAddr, sess *session.Session, pool *bufpool.Pool, src *chunkSource, queue chan timertable.Expired, log *slog.Logger) {
	log = log.With("thread", rng.ThreadID, "range_start", rng.Start, "range_size", rng.Size)
	log.Info("sender range starting")

	for _, chunk := range rng.Chunks {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := dispatchChunk(conn, dst, sess, pool, src, chunk.Offset, chunk.Size); err != nil {
			logger.WithChunk(log, chunk.Offset, chunk.Size).Warn("send failed", "error", err)
			continue
		}
		sess.Counters.Sent.Add(1)
	}

	log.Info("sender range complete, joining retransmit pool")
	runRetransmitWorker(ctx, conn, dst, sess, pool, src, queue, log)
}
