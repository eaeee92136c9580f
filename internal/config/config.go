package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures where the bridge finds tcode-player and where it writes.
type Config struct {
	RPCURL        string
	DataDir       string
	PlayerLog     string
	PlayerVersion string
	ReleaseURL    string
	LogFile       string
	PrefsPath     string
}

// Environment variables that override the file.
const (
	EnvRPCURL        = "TCODEBRIDGE_RPC_URL"
	EnvDataDir       = "TCODEBRIDGE_DATA_DIR"
	EnvPlayerVersion = "TCODEBRIDGE_PLAYER_VERSION"
)

const (
	defaultConfigPath = "~/.config/tcodebridge/config.toml"
	defaultRPCURL     = "http://localhost:6800/xmlrpc"
	defaultDataDir    = "~/.local/share/tcodebridge"
	defaultPlayerLog  = "/tmp/tcode-player.log"
	defaultLogFile    = "~/.local/state/tcodebridge/tcodebridge.log"
	defaultPrefsPath  = "~/.config/tcodebridge/prefs.toml"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{RPCURL: defaultRPCURL}
	cfg.normalize()
	return cfg
}

// Load locates and parses the bridge config, falling back to defaults when
// missing. Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		RPCURL        string `toml:"rpc_url"`
		DataDir       string `toml:"data_dir"`
		PlayerLog     string `toml:"player_log"`
		PlayerVersion string `toml:"player_version"`
		ReleaseURL    string `toml:"release_url"`
		LogFile       string `toml:"log_file"`
		PrefsPath     string `toml:"prefs_path"`
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := Config{
		RPCURL:        raw.RPCURL,
		DataDir:       raw.DataDir,
		PlayerLog:     raw.PlayerLog,
		PlayerVersion: raw.PlayerVersion,
		ReleaseURL:    raw.ReleaseURL,
		LogFile:       raw.LogFile,
		PrefsPath:     raw.PrefsPath,
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvRPCURL); ok {
		c.RPCURL = v
	}
	if v, ok := os.LookupEnv(EnvDataDir); ok {
		c.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvPlayerVersion); ok {
		c.PlayerVersion = v
	}
}

func (c *Config) normalize() {
	c.RPCURL = orDefault(c.RPCURL, defaultRPCURL)
	c.DataDir = mustExpand(orDefault(c.DataDir, defaultDataDir))
	c.PlayerLog = mustExpand(orDefault(c.PlayerLog, defaultPlayerLog))
	c.PlayerVersion = strings.TrimSpace(c.PlayerVersion)
	c.ReleaseURL = strings.TrimSpace(c.ReleaseURL)
	c.LogFile = mustExpand(orDefault(c.LogFile, defaultLogFile))
	c.PrefsPath = mustExpand(orDefault(c.PrefsPath, defaultPrefsPath))
}

func orDefault(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
