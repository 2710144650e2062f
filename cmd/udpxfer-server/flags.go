package main

import (
	"flag"
	"fmt"
	"os"
)

// version is injected at build time with -ldflags "-X main.version=...". Defaults to dev.
var version = "dev"

// cliConfig holds user supplied flag values prior to merging over
// internal/config's file+default layers.
type cliConfig struct {
	configPath    string
	listenControl string
	listenData    string
	clientIP      string
	clientPort    int
	filePath      string
	workersSend   int
	workersAck    int
	workersResend int
	logLevel      string
	metricsAddr   string
	progress      bool
	showVersion   bool
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("udpxfer-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}
	fs.StringVar(&cfg.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&cfg.listenControl, "listen-control", "", "Control channel listen address (host:port)")
	fs.StringVar(&cfg.listenData, "listen-data", "", "Data channel listen address (host:port)")
	fs.StringVar(&cfg.clientIP, "client-ip", "", "Client IP to send data-channel datagrams to")
	fs.IntVar(&cfg.clientPort, "client-port", 0, "Client data-channel port")
	fs.StringVar(&cfg.filePath, "file", "", "Path to the file to transfer")
	fs.IntVar(&cfg.workersSend, "workers-send", 0, "Sender worker count (0 = use config)")
	fs.IntVar(&cfg.workersAck, "workers-ack", 0, "ACK receiver worker count (0 = use config)")
	fs.IntVar(&cfg.workersResend, "workers-resend", 0, "Retransmit worker count (0 = use config)")
	fs.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", "", "Address to serve /metrics on (empty disables)")
	fs.BoolVar(&cfg.progress, "progress", false, "Show a console progress bar")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.logLevel != "" {
		switch cfg.logLevel {
		case "debug", "info", "warn", "error":
		default:
			return nil, fmt.Errorf("invalid log-level %q", cfg.logLevel)
		}
	}

	return cfg, nil
}
