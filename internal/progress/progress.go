// Package progress wraps a console progress bar over a transfer's
// sent/planned ratio, grounded on the teacher corpus's plain
// progressbar.Default usage (no custom theme or description).
package progress

import (
	"github.com/schollz/progressbar/v3"

	"github.com/alxayo/go-udpxfer/internal/transfer/stats"
)

// Bar tracks sent chunks against the plan's total, advancing by delta
// between snapshots rather than setting an absolute value, matching the
// teacher's pb.Add(1)-per-unit-of-work style.
type Bar struct {
	bar  *progressbar.ProgressBar
	last int64
}

// New creates a Bar sized to total planned chunks. total <= 0 renders an
// indeterminate spinner instead of a percentage bar.
func New(total int) *Bar {
	if total <= 0 {
		total = -1 // progressbar's "length unknown" value
	}
	return &Bar{bar: progressbar.Default(int64(total))}
}

// Update advances the bar to match snap.Sent, the cumulative number of
// chunks handed to the OS in the initial send pass. Retransmits are counted
// in snap.Resent and do not advance the bar.
func (b *Bar) Update(snap stats.Snapshot) {
	delta := snap.Sent - b.last
	if delta <= 0 {
		return
	}
	b.last = snap.Sent
	_ = b.bar.Add64(delta)
}

// Close finalizes bar rendering.
func (b *Bar) Close() error {
	return b.bar.Close()
}
