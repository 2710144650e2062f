// Package handshake implements the server side of the three-way
// SYN / SYN-ACK / ACK exchange that bootstraps a Session's RTT estimate
// and announces the file size to the client.
//
// The asymmetry in spec.md §4.2 is deliberate and preserved exactly: the
// SYN-ACK is sent on the data channel (the client expects its file-size
// announcement there) while the client's final ACK is awaited on the
// control channel.
package handshake

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/alxayo/go-udpxfer/internal/clock"
	rerrors "github.com/alxayo/go-udpxfer/internal/errors"
	"github.com/alxayo/go-udpxfer/internal/logger"
	"github.com/alxayo/go-udpxfer/internal/transfer/rttctl"
	"github.com/alxayo/go-udpxfer/internal/transfer/session"
)

// SynPattern matches the client's SYN datagram: ASCII text carrying a
// floating-point send timestamp in a named "time" capture group, e.g.
// "SYN 1712345678.123456".
var SynPattern = regexp.MustCompile(`SYN (?P<time>[0-9]+(?:\.[0-9]+)?)`)

const maxControlDatagram = 1024

// Config holds the tunables the handshake needs from spec.md §6/§4.2.
type Config struct {
	MaxRTTMult int         // MAX_RTT_MULTIPLIER
	Threshold  int         // ADJUST_RTT_THRESHOLD, seeded into the resulting Controller
	SynRetries int         // TCP_SYN_RETIRES
	Clock      clock.Clock // defaults to the real wall clock; tests inject a Fake
}

// Result is what a completed handshake hands back to the caller.
type Result struct {
	RTT         *rttctl.Controller
	ClientAddr  *net.UDPAddr // source address the SYN arrived from, for logging/diagnostics
	RetriesUsed int
}

// Run performs the server-side handshake on controlConn (read SYN, read
// final ACK) and dataConn (write SYN-ACK), announcing fileSize to the
// client at clientDataAddr. It advances sess through LISTEN -> SYN_RCVD as
// the exchange progresses; the caller installs the returned RTT Controller
// and advances sess to ESTABLISHED once Run returns successfully. Run
// blocks until the handshake completes or the retry budget in cfg is
// exhausted, in which case it returns a HandshakeError wrapping the last
// TimeoutError (fatal, per spec.md §7).
func Run(controlConn *net.UDPConn, dataConn *net.UDPConn, clientDataAddr *net.UDPAddr, fileSize uint64, cfg Config, sess *session.Session) (*Result, error) {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	log := logger.WithSession(logger.Logger().With("phase", "handshake"), sess.ID, sess.PeerAddr.String())

	// 1. Block for the client's SYN. No deadline: this is the initial
	// LISTEN wait and has no retry budget of its own.
	sess.SetStatus(session.StatusListen)
	buf := make([]byte, maxControlDatagram)
	n, clientAddr, err := controlConn.ReadFromUDP(buf)
	if err != nil {
		return nil, rerrors.NewHandshakeError("read SYN", err)
	}
	log.Info("received SYN", "peer", clientAddr.String())

	match := SynPattern.FindSubmatch(buf[:n])
	if match == nil {
		return nil, rerrors.NewHandshakeError("parse SYN", fmt.Errorf("datagram does not match SYN pattern: %q", buf[:n]))
	}
	clientSendTime, err := strconv.ParseFloat(string(match[1]), 64)
	if err != nil {
		return nil, rerrors.NewHandshakeError("parse SYN timestamp", err)
	}
	sess.SetStatus(session.StatusSynRcvd)

	startTime := clockSeconds(clk)
	initialRTT := time.Duration((startTime - clientSendTime) * 2 * float64(time.Second))
	if initialRTT <= 0 {
		initialRTT = time.Millisecond
	}
	log.Debug("bootstrap rtt", "rtt", initialRTT)

	// 2. Announce the file size on the DATA channel — not the control
	// channel the SYN arrived on. This asymmetry is intentional (spec.md §9).
	synAck := fmt.Sprintf("SYN ACK %d", fileSize)
	if _, err := dataConn.WriteToUDP([]byte(synAck), clientDataAddr); err != nil {
		return nil, rerrors.NewHandshakeError("send SYN ACK", err)
	}
	log.Info("sent SYN ACK", "file_size", fileSize)

	// 3/4/5. Await the final ACK with exponential backoff on both the
	// control-read timeout and the RTT estimate itself.
	timeout := initialRTT * time.Duration(cfg.MaxRTTMult)
	rtt := initialRTT
	ackBuf := make([]byte, maxControlDatagram)

	for retry := 0; retry < cfg.SynRetries; retry++ {
		if err := controlConn.SetReadDeadline(clk.Now().Add(timeout)); err != nil {
			return nil, rerrors.NewHandshakeError("set read deadline", err)
		}
		_, _, err := controlConn.ReadFromUDP(ackBuf)
		if err == nil {
			rtt = time.Duration(clockSeconds(clk)-startTime) * time.Second
			if rtt <= 0 {
				rtt = time.Millisecond
			}
			_ = controlConn.SetReadDeadline(time.Time{})
			log.Info("handshake established", "rtt", rtt, "retries", retry)
			return &Result{
				RTT:         rttctl.New(rtt, cfg.MaxRTTMult, cfg.Threshold),
				ClientAddr:  clientAddr,
				RetriesUsed: retry,
			}, nil
		}
		if !rerrors.IsTimeout(err) {
			return nil, rerrors.NewHandshakeError("read ACK", err)
		}
		timeout *= 4
		rtt *= 4
		log.Warn("ACK timeout, backing off", "retry", retry+1, "next_timeout", timeout)
	}

	_ = controlConn.SetReadDeadline(time.Time{})
	return nil, rerrors.NewHandshakeError("exhausted retries",
		rerrors.NewTimeoutError("read ACK", timeout, nil))
}

// nowSeconds simulates the sending side's wall clock when constructing a
// SYN datagram in tests; it is independent of the server's injected Clock.
func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// clockSeconds is nowSeconds computed against an injected Clock, so the
// server's own RTT bootstrap math can be driven deterministically in tests.
func clockSeconds(clk clock.Clock) float64 {
	return float64(clk.Now().UnixNano()) / float64(time.Second)
}
