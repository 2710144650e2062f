package progress

import (
	"testing"

	"github.com/alxayo/go-udpxfer/internal/transfer/stats"
)

func TestUpdateAdvancesByDelta(t *testing.T) {
	b := New(10)
	defer b.Close()

	b.Update(stats.Snapshot{Sent: 3})
	if b.last != 3 {
		t.Fatalf("expected last=3 after first update, got %d", b.last)
	}
	b.Update(stats.Snapshot{Sent: 7})
	if b.last != 7 {
		t.Fatalf("expected last=7 after second update, got %d", b.last)
	}
}

func TestUpdateIgnoresNonIncreasingSnapshot(t *testing.T) {
	b := New(10)
	defer b.Close()

	b.Update(stats.Snapshot{Sent: 5})
	b.Update(stats.Snapshot{Sent: 5})
	if b.last != 5 {
		t.Fatalf("expected last to stay at 5, got %d", b.last)
	}
}
