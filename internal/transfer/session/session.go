// Package session holds the Session entity: the per-transfer state shared
// by reference across every sender, ACK-receiver, scanner, and retransmit
// worker.
package session

import (
	"net"
	"sync"

	"github.com/rs/xid"

	"github.com/alxayo/go-udpxfer/internal/clock"
	"github.com/alxayo/go-udpxfer/internal/transfer/rttctl"
	"github.com/alxayo/go-udpxfer/internal/transfer/stats"
	"github.com/alxayo/go-udpxfer/internal/transfer/timertable"
)

// Status is the connection phase. The Handshake Engine advances it to
// LISTEN and SYN_RCVD; the server sets ESTABLISHED once the handshake
// has succeeded.
type Status uint8

const (
	StatusClosed Status = iota
	StatusListen
	StatusSynRcvd
	StatusEstablished
	StatusClosing
)

func (s Status) String() string {
	switch s {
	case StatusClosed:
		return "CLOSED"
	case StatusListen:
		return "LISTEN"
	case StatusSynRcvd:
		return "SYN_RCVD"
	case StatusEstablished:
		return "ESTABLISHED"
	case StatusClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Session is one file transfer: the peer address, the file being sent,
// and the shared mutable bookkeeping (Timer Table, RTT Controller,
// Counters) every worker pool reads and writes through.
type Session struct {
	ID       xid.ID
	FilePath string
	FileSize uint64
	PeerAddr *net.UDPAddr
	RTT      *rttctl.Controller
	Timers   *timertable.Table
	Counters *stats.Counters
	Planned  int // original source's single-counted planned-chunk formula, for stats parity
	Clock    clock.Clock

	mu     sync.Mutex
	status Status
}

// New creates a Session in CLOSED status with no RTT Controller yet — the
// Handshake Engine advances status through LISTEN -> SYN_RCVD as it runs
// and returns the bootstrapped controller; the caller installs it via
// SetRTT and then sets ESTABLISHED. clk is nil-safe: a nil clk defaults to
// the real wall clock, so production callers can omit it.
func New(filePath string, fileSize uint64, peerAddr *net.UDPAddr, plannedChunkIDs []uint64, planned int, clk clock.Clock) *Session {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Session{
		ID:       xid.New(),
		FilePath: filePath,
		FileSize: fileSize,
		PeerAddr: peerAddr,
		Timers:   timertable.New(plannedChunkIDs),
		Counters: &stats.Counters{},
		Planned:  planned,
		Clock:    clk,
		status:   StatusClosed,
	}
}

// SetRTT installs the RTT Controller bootstrapped by the handshake. Must
// be called before any sender/ACK-receiver/scanner goroutine starts.
func (s *Session) SetRTT(c *rttctl.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RTT = c
}

// Status returns the current connection phase.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus advances (or sets) the connection phase.
func (s *Session) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}
