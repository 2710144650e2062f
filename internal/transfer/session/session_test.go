package session

import (
	"net"
	"testing"
	"time"

	"github.com/alxayo/go-udpxfer/internal/clock"
	"github.com/alxayo/go-udpxfer/internal/transfer/rttctl"
)

func TestNewSessionStartsClosed(t *testing.T) {
	s := New("file.bin", 16, &net.UDPAddr{}, []uint64{0, 4, 8, 12}, 4, nil)
	if s.Status() != StatusClosed {
		t.Fatalf("expected new session to start CLOSED, got %v", s.Status())
	}
	if s.Timers.Len() != 4 {
		t.Fatalf("expected timer table sized to 4 planned chunks, got %d", s.Timers.Len())
	}
	if s.ID.IsNil() {
		t.Fatalf("expected session to be assigned a non-nil id")
	}
	if s.Clock == nil {
		t.Fatalf("expected a nil clk argument to default to the real clock")
	}
}

func TestNewSessionUsesProvidedClock(t *testing.T) {
	fake := clock.NewFake(time.Unix(1000, 0))
	s := New("file.bin", 16, &net.UDPAddr{}, []uint64{0}, 1, fake)
	if s.Clock.Now() != fake.Now() {
		t.Fatalf("expected session to use the injected clock")
	}
}

func TestStatusTransitions(t *testing.T) {
	s := New("file.bin", 16, &net.UDPAddr{}, []uint64{0}, 1, nil)
	s.SetStatus(StatusListen)
	s.SetStatus(StatusSynRcvd)
	s.SetRTT(rttctl.New(10*time.Millisecond, 4, 3))
	s.SetStatus(StatusEstablished)
	if s.Status() != StatusEstablished {
		t.Fatalf("expected ESTABLISHED, got %v", s.Status())
	}
	if s.RTT.RTT() != 10*time.Millisecond {
		t.Fatalf("expected installed rtt controller to be visible, got %v", s.RTT.RTT())
	}
}

// TestFakeClockDrivesTimerExpiry exercises the same Install-then-ScanExpired
// sequence the dispatch/scanner call sites run, but with a Fake clock so the
// expiry boundary is exact instead of racing real wall-clock sleeps.
func TestFakeClockDrivesTimerExpiry(t *testing.T) {
	fake := clock.NewFake(time.Unix(2000, 0))
	s := New("file.bin", 8, &net.UDPAddr{}, []uint64{0}, 1, fake)

	s.Timers.Install(0, s.Clock.Now(), 8)
	deadline := 50 * time.Millisecond

	fake.Advance(10 * time.Millisecond)
	if expired := s.Timers.ScanExpired(s.Clock.Now(), deadline); len(expired) != 0 {
		t.Fatalf("expected no expiry before the deadline, got %+v", expired)
	}

	fake.Advance(60 * time.Millisecond)
	expired := s.Timers.ScanExpired(s.Clock.Now(), deadline)
	if len(expired) != 1 || expired[0].ChunkID != 0 {
		t.Fatalf("expected chunk 0 to expire once past the deadline, got %+v", expired)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusClosed:      "CLOSED",
		StatusListen:      "LISTEN",
		StatusSynRcvd:     "SYN_RCVD",
		StatusEstablished: "ESTABLISHED",
		StatusClosing:     "CLOSING",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Fatalf("status %d: expected %q, got %q", status, want, got)
		}
	}
}
