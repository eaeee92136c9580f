package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/five82/tcodebridge/internal/config"
	"github.com/five82/tcodebridge/internal/tcode"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvRPCURL, config.EnvDataDir, config.EnvPlayerVersion} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestSetup_DevBuildEnablesDebug(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "tcode-player-dev"), nil, 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	logFile := filepath.Join(t.TempDir(), "bridge.log")
	cfgPath := writeConfig(t, "data_dir = \""+dataDir+"\"\nlog_file = \""+logFile+"\"\n")

	env, err := Setup(cfgPath, filepath.Join(t.TempDir(), "none.env"), false, nil)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer env.Close()

	if !env.Version.IsDev() {
		t.Fatalf("Version = %+v, want dev", env.Version)
	}
	if !env.Logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("logger should be at debug level for dev builds")
	}
}

func TestInstall_DownloadsPinnedVersion(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bin"))
	}))
	defer srv.Close()

	dataDir := t.TempDir()
	cfgPath := writeConfig(t, strings.Join([]string{
		`data_dir = "` + dataDir + `"`,
		`player_version = "0.1.0"`,
		`release_url = "` + srv.URL + `"`,
		`log_file = "` + filepath.Join(t.TempDir(), "bridge.log") + `"`,
	}, "\n"))

	env, err := Setup(cfgPath, "", false, nil)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer env.Close()

	v, path, err := Install(context.Background(), env)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if v.Tag != "0.1.0" || path != filepath.Join(dataDir, "tcode-player-0.1.0") {
		t.Fatalf("Install = %+v, %q", v, path)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "bin" {
		t.Fatalf("installed binary = %q, %v", data, err)
	}
}

func TestSend_ReturnsReply(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><methodResponse><params><param><value><string>1.0</string></value></param></params></methodResponse>`))
	}))
	defer srv.Close()

	cfgPath := writeConfig(t, strings.Join([]string{
		`rpc_url = "` + srv.URL + `/xmlrpc"`,
		`data_dir = "` + t.TempDir() + `"`,
		`log_file = "` + filepath.Join(t.TempDir(), "bridge.log") + `"`,
	}, "\n"))

	env, err := Setup(cfgPath, "", false, nil)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer env.Close()

	reply, err := Send(context.Background(), env, tcode.Version())
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if reply != "1.0" {
		t.Fatalf("reply = %q, want 1.0", reply)
	}
}

func TestNewHost_RejectsUnknown(t *testing.T) {
	if _, err := newHost(Options{Host: "vlc"}, nil, nil); err == nil {
		t.Fatalf("newHost returned nil error for unknown host")
	}
	h, err := newHost(Options{Host: HostTerm}, nil, nil)
	if err != nil || h == nil {
		t.Fatalf("newHost(term) = %v, %v", h, err)
	}
}
