package supervisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// EnsureInstalled downloads v into the data directory when it is missing.
// Older tcode-player-* binaries are removed first. Dev builds are never
// downloaded. Failures are not retried.
func (s *Supervisor) EnsureInstalled(ctx context.Context, v Version) error {
	if v.IsDev() {
		s.log.Debug("dev build present, skipping install")
		return nil
	}

	target := s.BinaryPath(v)
	if fileExists(target) {
		s.log.Info("tcode-player already exists", zap.String("path", target))
		return nil
	}

	s.log.Info("downloading tcode-player", zap.String("version", v.Tag), zap.String("url", s.releaseURL))
	if err := ensureDir(s.dataDir); err != nil {
		return &InstallError{Step: StepList, Path: s.dataDir, Err: err}
	}
	if err := s.removeStale(); err != nil {
		return err
	}

	size, err := s.download(ctx, target)
	if err != nil {
		return &InstallError{Step: StepDownload, Path: target, Err: err}
	}
	if err := os.Chmod(target, 0o755); err != nil {
		return &InstallError{Step: StepChmod, Path: target, Err: err}
	}

	s.log.Info("tcode-player installed", zap.String("path", target), zap.String("size", humanize.Bytes(uint64(size))))
	return nil
}

func (s *Supervisor) removeStale() error {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return &InstallError{Step: StepList, Path: s.dataDir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), binaryPrefix) {
			continue
		}
		path := filepath.Join(s.dataDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return &InstallError{Step: StepRemove, Path: path, Err: err}
		}
		s.log.Debug("removed stale binary", zap.String("path", path))
	}
	return nil
}

func (s *Supervisor) download(ctx context.Context, out string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.releaseURL, nil)
	if err != nil {
		return 0, err
	}
	res, err := s.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return 0, fmt.Errorf("http %d", res.StatusCode)
	}

	tmp := out + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, res.Body)
	if err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	return n, nil
}
