package server

import (
	"time"

	"github.com/alxayo/go-udpxfer/internal/clock"
)

// Config holds the worker-pool and protocol tunables named in spec.md §6.
type Config struct {
	SendThreads       int
	AckThreads        int
	ResendThreads     int
	ChunkSize         int
	MaxUDPBufferSize  int
	StatisticInterval time.Duration
	Clock             clock.Clock // defaults to the real wall clock; tests inject a Fake
}

// applyDefaults fills zero values with the constants spec.md §4 uses in its
// worked examples.
func (c *Config) applyDefaults() {
	if c.SendThreads == 0 {
		c.SendThreads = 4
	}
	if c.AckThreads == 0 {
		c.AckThreads = 2
	}
	if c.ResendThreads == 0 {
		c.ResendThreads = 2
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 1024
	}
	if c.MaxUDPBufferSize == 0 {
		c.MaxUDPBufferSize = 65536
	}
	if c.StatisticInterval == 0 {
		c.StatisticInterval = 5 * time.Second
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
}
