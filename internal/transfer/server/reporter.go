package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/alxayo/go-udpxfer/internal/transfer/session"
	"github.com/alxayo/go-udpxfer/internal/transfer/stats"
)

// ReportFunc receives each periodic Counters snapshot alongside the plan's
// original planned-chunk count — implemented by the console progress bar,
// which does not mutate the snapshot. The Prometheus collector is not a
// hook: it reads its own snapshot on every scrape.
type ReportFunc func(snapshot stats.Snapshot, planned int)

// runReporter snapshots the Session's counters every interval, logs the
// sent/planned, resent, acked, timeouts, and loss-ratio line (spec.md
// §4.8), and forwards the same read-only snapshot to every registered hook.
func runReporter(ctx context.Context, sess *session.Session, interval time.Duration, log *slog.Logger, hooks ...ReportFunc) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := sess.Counters.Snapshot()
			log.Info("transfer statistics",
				"sent", snap.Sent,
				"planned", sess.Planned,
				"resent", snap.Resent,
				"acked", snap.Acked,
				"timeouts", snap.Timeouts,
				"loss_ratio", snap.LossRatio(),
			)
			for _, h := range hooks {
				h(snap, sess.Planned)
			}
		}
	}
}
