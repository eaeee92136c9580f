package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RPCURL != defaultRPCURL {
		t.Fatalf("RPCURL = %q, want %q", cfg.RPCURL, defaultRPCURL)
	}

	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.PlayerLog != defaultPlayerLog {
		t.Fatalf("PlayerLog = %q, want %q", cfg.PlayerLog, defaultPlayerLog)
	}
	if cfg.PlayerVersion != "" {
		t.Fatalf("PlayerVersion = %q, want empty", cfg.PlayerVersion)
	}
	if !strings.HasPrefix(cfg.PrefsPath, home) || !strings.HasSuffix(cfg.PrefsPath, "prefs.toml") {
		t.Fatalf("PrefsPath = %q, want prefs.toml under HOME %q", cfg.PrefsPath, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
rpc_url = "  http://10.0.0.5:6800/xmlrpc  "
data_dir = "  ~/tcode  "
player_version = " 0.0.9 "
log_file = "~/logs/bridge.log"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RPCURL != "http://10.0.0.5:6800/xmlrpc" {
		t.Fatalf("RPCURL = %q", cfg.RPCURL)
	}
	if cfg.DataDir != filepath.Join(home, "tcode") {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, filepath.Join(home, "tcode"))
	}
	if cfg.PlayerVersion != "0.0.9" {
		t.Fatalf("PlayerVersion = %q, want %q", cfg.PlayerVersion, "0.0.9")
	}
	if cfg.LogFile != filepath.Join(home, "logs", "bridge.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
rpc_url = "   "
data_dir = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RPCURL != defaultRPCURL {
		t.Fatalf("RPCURL = %q, want %q", cfg.RPCURL, defaultRPCURL)
	}
	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()
	t.Setenv(EnvRPCURL, "http://127.0.0.1:7000/xmlrpc")
	t.Setenv(EnvDataDir, dataDir)
	t.Setenv(EnvPlayerVersion, "dev")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`rpc_url = "http://10.0.0.5:6800/xmlrpc"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RPCURL != "http://127.0.0.1:7000/xmlrpc" {
		t.Fatalf("RPCURL = %q", cfg.RPCURL)
	}
	if cfg.DataDir != dataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, dataDir)
	}
	if cfg.PlayerVersion != "dev" {
		t.Fatalf("PlayerVersion = %q, want dev", cfg.PlayerVersion)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TCODEBRIDGE_PLAYER_VERSION=0.2.0\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(EnvPlayerVersion, "")
	os.Unsetenv(EnvPlayerVersion)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv(EnvPlayerVersion); got != "0.2.0" {
		t.Fatalf("%s = %q, want 0.2.0", EnvPlayerVersion, got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`rpc_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
