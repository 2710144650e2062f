package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/alxayo/go-udpxfer/internal/transfer/session"
	"github.com/alxayo/go-udpxfer/internal/transfer/timertable"
)

// runScanner is the single Timeout Scanner goroutine: sleep for the
// current RTT estimate, scan the Timer Table for entries past their
// deadline, and enqueue them for retransmission — clearing each entry in
// the same critical section as the scan so repeated passes cannot
// re-enqueue the same chunk before retransmission reinstalls it
// (spec.md §4.6).
func runScanner(ctx context.Context, sess *session.Session, queue chan timertable.Expired, log *slog.Logger) {
	for {
		sleepFor := sess.RTT.RTT()
		if sleepFor <= 0 {
			sleepFor = time.Millisecond
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleepFor):
		}

		expired := sess.Timers.ScanExpired(sess.Clock.Now(), sess.RTT.Deadline())
		for _, e := range expired {
			sess.Counters.Timeouts.Add(1)
			select {
			case queue <- e:
			case <-ctx.Done():
				return
			}
		}
	}
}
