package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alxayo/go-udpxfer/internal/config"
	"github.com/alxayo/go-udpxfer/internal/digest"
	"github.com/alxayo/go-udpxfer/internal/logger"
	"github.com/alxayo/go-udpxfer/internal/metrics"
	"github.com/alxayo/go-udpxfer/internal/progress"
	"github.com/alxayo/go-udpxfer/internal/transfer/handshake"
	"github.com/alxayo/go-udpxfer/internal/transfer/server"
	"github.com/alxayo/go-udpxfer/internal/transfer/stats"
)

func main() {
	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cli.showVersion {
		fmt.Println(version)
		return
	}

	file, err := config.LoadFile(cli.configPath)
	if err != nil {
		fmt.Printf("config error: %v\n", err)
		os.Exit(2)
	}
	cfg := config.Merge(file)
	applyCLIOverrides(&cfg, cli)

	logger.Init()
	if err := logger.SetLevel(cfg.LogMode); err != nil {
		fmt.Printf("Warning: invalid log level %q, using default\n", cfg.LogMode)
	}
	log := logger.Logger().With("component", "cli")

	if cfg.FilePath == "" {
		log.Error("no -file given and no file_path configured")
		os.Exit(2)
	}

	controlConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP(cfg.ServerIP), Port: cfg.ServerControlPort})
	if err != nil {
		log.Error("failed to bind control socket", "error", err)
		os.Exit(1)
	}
	defer controlConn.Close()

	dataAddr := &net.UDPAddr{IP: net.ParseIP(cfg.ServerIP), Port: 0}
	if cli.listenData != "" {
		if host, port, ok := splitHostPort(cli.listenData); ok {
			dataAddr = &net.UDPAddr{IP: net.ParseIP(host), Port: port}
		}
	}
	dataConn, err := net.ListenUDP("udp", dataAddr)
	if err != nil {
		log.Error("failed to bind data socket", "error", err)
		os.Exit(1)
	}
	defer dataConn.Close()

	clientDataAddr := &net.UDPAddr{IP: net.ParseIP(cfg.ClientIP), Port: cfg.ClientDataPort}

	srv := server.New(server.Config{
		SendThreads:       cfg.SendThreads,
		AckThreads:        cfg.AckThreads,
		ResendThreads:     cfg.ResendThreads,
		ChunkSize:         cfg.ChunkSize,
		MaxUDPBufferSize:  cfg.MaxUDPBufferSize,
		StatisticInterval: cfg.StatisticInterval,
	})

	var hooks []server.ReportFunc
	if cli.progress {
		bar := progress.New(0) // the plan is not known before the handshake, so the bar has no total
		hooks = append(hooks, func(snap stats.Snapshot, _ int) { bar.Update(snap) })
	}

	if cli.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector := metrics.New(
			func() stats.Snapshot {
				if srv.Session == nil {
					return stats.Snapshot{}
				}
				return srv.Session.Counters.Snapshot()
			},
			func() int {
				if srv.Session == nil {
					return 0
				}
				return srv.Session.Planned
			},
			func() float64 {
				if srv.Session == nil || srv.Session.RTT == nil {
					return 0
				}
				return float64(srv.Session.RTT.RTT()) / float64(time.Millisecond)
			},
		)
		reg.MustRegister(collector)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cli.metricsAddr, mux); err != nil {
				log.Warn("metrics server stopped", "error", err)
			}
		}()
		log.Info("metrics endpoint listening", "addr", cli.metricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hsCfg := handshake.Config{
		MaxRTTMult: cfg.MaxRTTMultiplier,
		Threshold:  cfg.AdjustRTTThreshold,
		SynRetries: cfg.SynRetries,
	}

	log.Info("awaiting client handshake", "control_addr", controlConn.LocalAddr().String(), "client_data_addr", clientDataAddr.String())

	runErr := srv.Run(ctx, controlConn, dataConn, clientDataAddr, cfg.FilePath, hsCfg, hooks...)
	if runErr != nil {
		log.Error("transfer failed", "error", runErr)
		os.Exit(1)
	}

	sum, err := digest.File(cfg.FilePath)
	if err != nil {
		log.Warn("post-transfer digest failed", "error", err)
	} else {
		log.Info("transfer complete", "md5", sum)
	}
}

func applyCLIOverrides(cfg *config.Config, cli *cliConfig) {
	if cli.listenControl != "" {
		if host, port, ok := splitHostPort(cli.listenControl); ok {
			cfg.ServerIP = host
			cfg.ServerControlPort = port
		}
	}
	if cli.clientIP != "" {
		cfg.ClientIP = cli.clientIP
	}
	if cli.clientPort != 0 {
		cfg.ClientDataPort = cli.clientPort
	}
	if cli.filePath != "" {
		cfg.FilePath = cli.filePath
	}
	if cli.workersSend != 0 {
		cfg.SendThreads = cli.workersSend
	}
	if cli.workersAck != 0 {
		cfg.AckThreads = cli.workersAck
	}
	if cli.workersResend != 0 {
		cfg.ResendThreads = cli.workersResend
	}
	if cli.logLevel != "" {
		cfg.LogMode = cli.logLevel
	}
}

func splitHostPort(addr string) (string, int, bool) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, false
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return "", 0, false
	}
	return host, port, true
}
