package server

import (
	"context"
	"log/slog"
	"net"

	"github.com/alxayo/go-udpxfer/internal/bufpool"
	"github.com/alxayo/go-udpxfer/internal/logger"
	"github.com/alxayo/go-udpxfer/internal/transfer/session"
	"github.com/alxayo/go-udpxfer/internal/transfer/timertable"
)

// runRetransmitWorker drains the shared Retransmit Queue: for each expired
// chunk it re-reads the payload, reinstalls a fresh Timer Table entry, and
// redispatches (spec.md §4.7). This loop is shared between dedicated
// retransmit workers and senders that have finished their initial range.
func runRetransmitWorker(ctx context.Context, conn *net.UDPConn, dst *net.UDPAddr, sess *session.Session, pool *bufpool.Pool, src *chunkSource, queue chan timertable.Expired, log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-queue:
			if !ok {
				return
			}
			if err := dispatchChunk(conn, dst, sess, pool, src, item.ChunkID, item.PayloadLen); err != nil {
				logger.WithChunk(log, item.ChunkID, item.PayloadLen).Warn("retransmit failed", "error", err)
				continue
			}
			sess.Counters.Resent.Add(1)
		}
	}
}
