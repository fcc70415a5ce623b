package config

import (
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Version:    "1",
		Identity:   "alice",
		ListenAddr: "127.0.0.1:9999",
	}
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig() = %v, want nil", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() = %v, want nil", err)
	}
	if loaded.Identity != "alice" {
		t.Errorf("Identity = %q, want alice", loaded.Identity)
	}
	if loaded.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:9999", loaded.ListenAddr)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("LoadConfig() on empty dir = nil, want error")
	}
}
