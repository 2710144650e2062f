// Package config loads the transfer engine's tunables from a YAML file,
// with flag and environment values taking precedence over it, grounded on
// the teacher corpus's gopkg.in/yaml.v3 file-then-override pattern.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a transfer config, naming every constant
// spec.md §6 lists.
type File struct {
	ServerIP              string `yaml:"server_ip"`
	ServerControlPort     int    `yaml:"server_control_port"`
	ClientIP              string `yaml:"client_ip"`
	ClientDataPort        int    `yaml:"client_data_port"`
	FilePath              string `yaml:"file_path"`
	ZipFilePath           string `yaml:"zip_file_path"`
	EnablePreZip          bool   `yaml:"enable_pre_zip"`
	ChunkSize             int    `yaml:"chunk_size"`
	MaxUDPBufferSize      int    `yaml:"max_udp_buffer_size"`
	SendThreadNumber      int    `yaml:"server_send_thread_number"`
	AckHandleThreadNumber int    `yaml:"server_ack_handle_thread_number"`
	ResendThreadNumber    int    `yaml:"server_timeout_resend_thread_number"`
	MaxRTTMultiplier      int    `yaml:"max_rtt_multiplier"`
	AdjustRTTThreshold    int    `yaml:"adjust_rtt_threshold"`
	SynRetries            int    `yaml:"tcp_syn_retires"`
	StatisticIntervalSecs int    `yaml:"statistic_interval"`
	LogMode               string `yaml:"log_mode"`
}

// Config is the resolved, typed configuration the rest of the process
// consumes, after file defaults and flag/env overrides are merged.
type Config struct {
	ServerIP           string
	ServerControlPort  int
	ClientIP           string
	ClientDataPort     int
	FilePath           string
	ZipFilePath        string
	EnablePreZip       bool
	ChunkSize          int
	MaxUDPBufferSize   int
	SendThreads        int
	AckThreads         int
	ResendThreads      int
	MaxRTTMultiplier   int
	AdjustRTTThreshold int
	SynRetries         int
	StatisticInterval  time.Duration
	LogMode            string
}

// defaults mirrors the worked example constants from spec.md §4.
func defaults() Config {
	return Config{
		ServerIP:           "0.0.0.0",
		ServerControlPort:  9000,
		ClientIP:           "127.0.0.1",
		ClientDataPort:     9001,
		ChunkSize:          1024,
		MaxUDPBufferSize:   65536,
		SendThreads:        4,
		AckThreads:         2,
		ResendThreads:      2,
		MaxRTTMultiplier:   4,
		AdjustRTTThreshold: 3,
		SynRetries:         5,
		StatisticInterval:  5 * time.Second,
		LogMode:            "info",
	}
}

// LoadFile reads and parses a YAML config file. A missing path is not an
// error — callers fall back to defaults and flags.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}

// Merge layers a File over the compiled-in defaults, then environment
// variables over that. Flag overrides are applied by the caller afterward
// (applyCLIOverrides in cmd/udpxfer-server/main.go), matching the teacher's flag > env > file >
// default precedence.
func Merge(f *File) Config {
	cfg := defaults()

	if f != nil {
		if f.ServerIP != "" {
			cfg.ServerIP = f.ServerIP
		}
		if f.ServerControlPort != 0 {
			cfg.ServerControlPort = f.ServerControlPort
		}
		if f.ClientIP != "" {
			cfg.ClientIP = f.ClientIP
		}
		if f.ClientDataPort != 0 {
			cfg.ClientDataPort = f.ClientDataPort
		}
		if f.FilePath != "" {
			cfg.FilePath = f.FilePath
		}
		if f.ZipFilePath != "" {
			cfg.ZipFilePath = f.ZipFilePath
		}
		cfg.EnablePreZip = f.EnablePreZip
		if f.ChunkSize != 0 {
			cfg.ChunkSize = f.ChunkSize
		}
		if f.MaxUDPBufferSize != 0 {
			cfg.MaxUDPBufferSize = f.MaxUDPBufferSize
		}
		if f.SendThreadNumber != 0 {
			cfg.SendThreads = f.SendThreadNumber
		}
		if f.AckHandleThreadNumber != 0 {
			cfg.AckThreads = f.AckHandleThreadNumber
		}
		if f.ResendThreadNumber != 0 {
			cfg.ResendThreads = f.ResendThreadNumber
		}
		if f.MaxRTTMultiplier != 0 {
			cfg.MaxRTTMultiplier = f.MaxRTTMultiplier
		}
		if f.AdjustRTTThreshold != 0 {
			cfg.AdjustRTTThreshold = f.AdjustRTTThreshold
		}
		if f.SynRetries != 0 {
			cfg.SynRetries = f.SynRetries
		}
		if f.StatisticIntervalSecs != 0 {
			cfg.StatisticInterval = time.Duration(f.StatisticIntervalSecs) * time.Second
		}
		if f.LogMode != "" {
			cfg.LogMode = f.LogMode
		}
	}

	applyEnvOverrides(&cfg)
	return cfg
}

// envPrefix namespaces every override so it can't collide with an
// unrelated variable in the process environment.
const envPrefix = "UDPXFER_"

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envPrefix + "SERVER_IP"); v != "" {
		cfg.ServerIP = v
	}
	if v := os.Getenv(envPrefix + "CLIENT_IP"); v != "" {
		cfg.ClientIP = v
	}
	if v := os.Getenv(envPrefix + "FILE_PATH"); v != "" {
		cfg.FilePath = v
	}
	if v := os.Getenv(envPrefix + "LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv(envPrefix + "SERVER_CONTROL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ServerControlPort = n
		}
	}
	if v := os.Getenv(envPrefix + "CLIENT_DATA_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ClientDataPort = n
		}
	}
}
