package rttctl

import (
	"testing"
	"time"
)

func TestNoChangeWithinBand(t *testing.T) {
	c := New(100*time.Millisecond, 4, 3)
	c.Sample(150 * time.Millisecond) // within [rtt/4, rtt*4]
	if got := c.RTT(); got != 100*time.Millisecond {
		t.Fatalf("expected unchanged RTT, got %v", got)
	}
}

// Scenario 4 from the spec: 3 consecutive samples each > rtt*MAX_RTT_MULT
// (MAX_RTT_MULT=4, ADJUST_RTT_THRESHOLD=3) commits rtt *= floor(4/2) = 2 on
// the third sample, and resets up_counter.
func TestRTTInflationScenario4(t *testing.T) {
	c := New(10*time.Millisecond, 4, 3)
	for i := 0; i < 2; i++ {
		c.Sample(200 * time.Millisecond) // > 10ms*4
	}
	if got := c.RTT(); got != 10*time.Millisecond {
		t.Fatalf("expected no commit before threshold, got %v", got)
	}
	c.Sample(200 * time.Millisecond)
	if got := c.RTT(); got != 20*time.Millisecond {
		t.Fatalf("expected rtt to double (floor(4/2)=2) on third outlier, got %v", got)
	}
	up, _ := c.Counters()
	if up != 1 {
		t.Fatalf("expected 1 up event, got %d", up)
	}
}

func TestRTTDeflation(t *testing.T) {
	c := New(40*time.Millisecond, 4, 2)
	c.Sample(1 * time.Millisecond) // < 40/4=10ms
	if got := c.RTT(); got != 40*time.Millisecond {
		t.Fatalf("expected no commit before threshold, got %v", got)
	}
	c.Sample(1 * time.Millisecond)
	if got := c.RTT(); got != 20*time.Millisecond {
		t.Fatalf("expected rtt to halve (÷floor(4/2)=2) on second low sample, got %v", got)
	}
}

func TestHysteresisClampsAtZero(t *testing.T) {
	c := New(100*time.Millisecond, 4, 3)
	c.Sample(1 * time.Millisecond) // decrements up_counter, clamped at 0
	c.mu.Lock()
	up, down := c.upCounter, c.downCounter
	c.mu.Unlock()
	if up != 0 || down != 1 {
		t.Fatalf("expected up_counter clamped at 0 and down_counter=1, got up=%d down=%d", up, down)
	}
}

func TestOutlierDoesNotOscillate(t *testing.T) {
	c := New(100*time.Millisecond, 4, 3)
	c.Sample(1 * time.Second) // one outlier, high
	c.Sample(100 * time.Millisecond)
	c.Sample(1 * time.Millisecond) // one outlier, low
	if got := c.RTT(); got != 100*time.Millisecond {
		t.Fatalf("isolated outliers must not move rtt before threshold, got %v", got)
	}
}

func TestRTTNeverZeroOrNegative(t *testing.T) {
	c := New(1*time.Nanosecond, 4, 1)
	for i := 0; i < 10; i++ {
		c.Sample(1 * time.Nanosecond)
	}
	if got := c.RTT(); got <= 0 {
		t.Fatalf("expected strictly positive rtt, got %v", got)
	}
}

func TestDeadlineTracksRTT(t *testing.T) {
	c := New(10*time.Millisecond, 4, 3)
	if got := c.Deadline(); got != 40*time.Millisecond {
		t.Fatalf("expected deadline = rtt*maxRTTMult = 40ms, got %v", got)
	}
}
