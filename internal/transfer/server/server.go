// Package server implements the Sender Pool, ACK Receiver Pool, Timeout
// Scanner, Retransmit Pool, and Statistics Reporter that run for the
// lifetime of one established transfer Session.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/alxayo/go-udpxfer/internal/bufpool"
	"github.com/alxayo/go-udpxfer/internal/logger"
	"github.com/alxayo/go-udpxfer/internal/transfer/handshake"
	"github.com/alxayo/go-udpxfer/internal/transfer/partition"
	"github.com/alxayo/go-udpxfer/internal/transfer/session"
	"github.com/alxayo/go-udpxfer/internal/transfer/timertable"
)

// Server runs one file transfer from handshake through steady-state
// send/ACK/retransmit until Stop is called or its context is cancelled.
type Server struct {
	cfg Config
	log *slog.Logger

	controlConn *net.UDPConn
	dataConn    *net.UDPConn
	src         *chunkSource
	queue       chan timertable.Expired

	Session *session.Session
	Plan    partition.Plan

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an unstarted Server.
func New(cfg Config) *Server {
	cfg.applyDefaults()
	return &Server{
		cfg: cfg,
		log: logger.Logger().With("component", "transfer_server"),
	}
}

// Run blocks through the handshake, then launches the steady-state worker
// pools and blocks until ctx is cancelled or Stop is called. filePath must
// name a readable file; its size becomes the handshake's announced F.
func (s *Server) Run(ctx context.Context, controlConn, dataConn *net.UDPConn, clientDataAddr *net.UDPAddr, filePath string, hsCfg handshake.Config, hooks ...ReportFunc) error {
	s.controlConn = controlConn
	s.dataConn = dataConn

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat transfer file: %w", err)
	}
	fileSize := uint64(info.Size())

	plan := partition.New(fileSize, s.cfg.SendThreads, s.cfg.ChunkSize)
	s.Plan = plan

	chunkIDs := make([]uint64, 0, plan.TrueChunkCount())
	for _, c := range plan.AllChunks() {
		chunkIDs = append(chunkIDs, c.Offset)
	}

	sess := session.New(filePath, fileSize, clientDataAddr, chunkIDs, plan.PlannedCount(), s.cfg.Clock)
	s.Session = sess

	s.log.Info("awaiting handshake", "file", filePath, "file_size", fileSize)
	hsCfg.Clock = s.cfg.Clock
	result, err := handshake.Run(controlConn, dataConn, clientDataAddr, fileSize, hsCfg, sess)
	if err != nil {
		return err
	}
	sess.SetRTT(result.RTT)
	sess.SetStatus(session.StatusEstablished)

	sessLog := logger.WithSession(s.log, sess.ID, sess.PeerAddr.String())

	src, err := openChunkSource(filePath)
	if err != nil {
		return fmt.Errorf("open transfer file: %w", err)
	}
	s.src = src
	defer src.Close()

	s.queue = make(chan timertable.Expired, plan.TrueChunkCount()+1)
	pool := bufpool.NewWithClasses([]int{64, s.cfg.ChunkSize + 8, s.cfg.MaxUDPBufferSize})

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	for _, rng := range plan.Ranges {
		rng := rng
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			runSender(runCtx, rng, dataConn, clientDataAddr, sess, pool, src, s.queue, sessLog)
		}()
	}
	for i := 0; i < s.cfg.AckThreads; i++ {
		s.wg.Add(1)
		go func(id int) {
			defer s.wg.Done()
			runAckReceiver(runCtx, controlConn, sess, sessLog.With("ack_worker", id))
		}(i)
	}
	for i := 0; i < s.cfg.ResendThreads; i++ {
		s.wg.Add(1)
		go func(id int) {
			defer s.wg.Done()
			runRetransmitWorker(runCtx, dataConn, clientDataAddr, sess, pool, src, s.queue, sessLog.With("resend_worker", id))
		}(i)
	}
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		runScanner(runCtx, sess, s.queue, sessLog)
	}()
	go func() {
		defer s.wg.Done()
		runReporter(runCtx, sess, s.cfg.StatisticInterval, sessLog, hooks...)
	}()

	s.log.Info("transfer established",
		"session_id", sess.ID.String(),
		"control_peer_addr", result.ClientAddr.String(),
		"planned_chunks", plan.PlannedCount(),
		"true_chunks", plan.TrueChunkCount())

	<-runCtx.Done()
	s.wg.Wait()
	return nil
}

// Stop cancels the running worker pools and returns without waiting; Run
// waits for the workers to exit before it returns. Safe to call even if Run
// has not been called; a no-op in that case.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
