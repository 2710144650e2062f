package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissingPathReturnsEmpty(t *testing.T) {
	f, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ChunkSize != 0 {
		t.Fatalf("expected zero-value File, got %+v", f)
	}
}

func TestLoadFileNonexistentPathReturnsEmpty(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if f.ChunkSize != 0 {
		t.Fatalf("expected zero-value File, got %+v", f)
	}
}

func TestMergeAppliesFileOverDefaults(t *testing.T) {
	f := &File{ChunkSize: 2048, SendThreadNumber: 8, StatisticIntervalSecs: 10}
	cfg := Merge(f)
	if cfg.ChunkSize != 2048 {
		t.Fatalf("expected file chunk size to override default, got %d", cfg.ChunkSize)
	}
	if cfg.SendThreads != 8 {
		t.Fatalf("expected file send threads to override default, got %d", cfg.SendThreads)
	}
	if cfg.StatisticInterval != 10*time.Second {
		t.Fatalf("expected statistic interval 10s, got %v", cfg.StatisticInterval)
	}
	if cfg.AckThreads != defaults().AckThreads {
		t.Fatalf("expected unset fields to keep defaults, got ack threads %d", cfg.AckThreads)
	}
}

func TestMergeAppliesEnvOverFile(t *testing.T) {
	t.Setenv("UDPXFER_SERVER_IP", "10.0.0.5")
	t.Setenv("UDPXFER_SERVER_CONTROL_PORT", "9500")

	cfg := Merge(&File{ServerIP: "0.0.0.0", ServerControlPort: 9000})
	if cfg.ServerIP != "10.0.0.5" {
		t.Fatalf("expected env to override file server ip, got %s", cfg.ServerIP)
	}
	if cfg.ServerControlPort != 9500 {
		t.Fatalf("expected env to override file control port, got %d", cfg.ServerControlPort)
	}
}

func TestLoadFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	body := "chunk_size: 4096\nmax_rtt_multiplier: 8\nlog_mode: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if f.ChunkSize != 4096 || f.MaxRTTMultiplier != 8 || f.LogMode != "debug" {
		t.Fatalf("unexpected parsed file: %+v", f)
	}
}
