// Package inbox turns receipt images dropped into <dir>/<username>/ into hisaabs.
package inbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"khaata/models"
	"khaata/pkg/logger"
	"khaata/pkg/receipt"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/slog"
)

const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Appender is the part of the store the watcher writes to.
type Appender interface {
	AppendHisaab(ctx context.Context, username string, h *models.Hisaab) error
}

// Watcher scans receipts as they appear and appends one hisaab per image.
type Watcher struct {
	Dir     string
	Store   Appender
	Scanner receipt.Scanner
	Log     *slog.Logger
	// Settle is how long a file must stay quiet before it is scanned.
	Settle time.Duration
}

func New(dir string, store Appender, scanner receipt.Scanner, log *slog.Logger) *Watcher {
	return &Watcher{
		Dir:     dir,
		Store:   store,
		Scanner: scanner,
		Log:     log.With(slog.String("component", "inbox")),
		Settle:  300 * time.Millisecond,
	}
}

// Run sweeps files already present, then watches for new ones until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Settle <= 0 {
		w.Settle = 300 * time.Millisecond
	}
	for _, d := range []string{w.Dir, filepath.Join(w.Dir, processedDir), filepath.Join(w.Dir, failedDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	// Files found by a sweep wait out Settle like watched ones, since they
	// may still be being copied in.
	pending := map[string]time.Time{}
	userDirs, err := w.userDirs()
	if err != nil {
		return err
	}
	for _, d := range userDirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
		w.sweep(d, pending)
	}
	w.Log.Info("watching receipt inbox", slog.String("dir", w.Dir))

	ticker := time.NewTicker(w.Settle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if w.isUserDir(ev.Name) {
				if err := fw.Add(ev.Name); err != nil {
					w.Log.Warn("watch user dir failed", slog.String("dir", ev.Name), logger.Err(err))
					continue
				}
				w.sweep(ev.Name, pending)
				continue
			}
			if filepath.Dir(filepath.Dir(ev.Name)) == filepath.Clean(w.Dir) && isSupportedExt(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) < w.Settle {
					continue
				}
				delete(pending, path)
				if err := w.Process(ctx, path); err != nil {
					w.Log.Warn("receipt not recorded", slog.String("file", path), logger.Err(err))
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Log.Error("watch error", logger.Err(err))
		}
	}
}

// Process scans one receipt, appends the hisaab to the owning user and moves
// the file to processed/ or failed/.
func (w *Watcher) Process(ctx context.Context, path string) error {
	username := filepath.Base(filepath.Dir(path))
	name := filepath.Base(path)

	res, err := w.Scanner.Scan(ctx, path)
	if err != nil {
		w.moveTo(path, failedDir, username, name)
		return fmt.Errorf("scan %s: %w", name, err)
	}

	h := &models.Hisaab{
		Date:        time.Now().UTC(),
		Amount:      res.Amount.StringFixed(2),
		Description: "Receipt " + name,
		Passcode:    models.DefaultPasscode,
	}
	if err := w.Store.AppendHisaab(ctx, username, h); err != nil {
		w.moveTo(path, failedDir, username, name)
		return fmt.Errorf("append hisaab for %s: %w", username, err)
	}
	w.moveTo(path, processedDir, username, name)
	w.Log.Info("receipt recorded",
		slog.String("username", username),
		slog.String("file", name),
		slog.String("amount", h.Amount),
	)
	return nil
}

// sweep queues the receipts already present in dir.
func (w *Watcher) sweep(dir string, pending map[string]time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.Log.Warn("read inbox dir failed", slog.String("dir", dir), logger.Err(err))
		return
	}
	now := time.Now()
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		pending[filepath.Join(dir, e.Name())] = now
	}
}

func (w *Watcher) userDirs() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.Dir, err)
	}
	var out []string
	for _, e := range entries {
		p := filepath.Join(w.Dir, e.Name())
		if w.isUserDir(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (w *Watcher) isUserDir(path string) bool {
	if filepath.Dir(path) != filepath.Clean(w.Dir) {
		return false
	}
	base := filepath.Base(path)
	if base == processedDir || base == failedDir || strings.HasPrefix(base, ".") {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func (w *Watcher) moveTo(src, sub, username, name string) {
	dst := filepath.Join(w.Dir, sub, username+"-"+name)
	if err := moveFile(src, dst); err != nil {
		w.Log.Warn("move receipt failed", slog.String("file", src), logger.Err(err))
	}
}

// moveFile renames src to dst and falls back to copy+remove across devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func isSupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

