// Package stats holds the Counters entity: monotonically increasing
// observability counters, incremented without a lock per the spec (torn
// reads are acceptable — these numbers are never used for correctness
// decisions, only logged/exported).
package stats

import "sync/atomic"

// Counters tracks the data-plane totals the Statistics Reporter,
// Prometheus collector, and console progress bar all read from.
type Counters struct {
	Sent     atomic.Int64
	Acked    atomic.Int64
	Resent   atomic.Int64
	Timeouts atomic.Int64
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	Sent     int64
	Acked    int64
	Resent   int64
	Timeouts int64
}

// Snapshot reads all counters. Individual fields may be torn relative to
// each other under concurrent writers — acceptable for observability.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Sent:     c.Sent.Load(),
		Acked:    c.Acked.Load(),
		Resent:   c.Resent.Load(),
		Timeouts: c.Timeouts.Load(),
	}
}

// LossRatio returns timeouts / (sent + resent), or 0 if nothing has been
// sent yet.
func (s Snapshot) LossRatio() float64 {
	total := s.Sent + s.Resent
	if total == 0 {
		return 0
	}
	return float64(s.Timeouts) / float64(total)
}
