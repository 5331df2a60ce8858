package recognition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/transcribeia/transcribeia/internal/logger"
)

// implFileWatch delivers recognition events from fragment files dropped
// into a watched directory. It exists for scripted and offline capture:
// anything that can write a file can feed the session.
//
// File extensions map to events:
//
//	.txt      final fragment (file content)
//	.interim  interim fragment (file content, replaces the previous interim)
//	.error    recognition error (file content is the diagnostic code)
//	.end      session ended by the provider
type implFileWatch struct {
	logger       logger.Logger
	fragmentsDir string

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	handlers Handlers
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  bool
}

// NewFileWatch creates a Service fed by fragment files under fragmentsDir.
func NewFileWatch(fragmentsDir string, log logger.Logger) Service {
	return &implFileWatch{
		logger:       log,
		fragmentsDir: fragmentsDir,
	}
}

// RequestAccess verifies the fragments directory exists and is readable.
// An unreadable directory is this provider's permission denial.
func (w *implFileWatch) RequestAccess(ctx context.Context) error {
	info, err := os.Stat(w.fragmentsDir)
	if err != nil {
		return fmt.Errorf("fragments directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("fragments path %s is not a directory", w.fragmentsDir)
	}
	if _, err := os.ReadDir(w.fragmentsDir); err != nil {
		return fmt.Errorf("fragments directory not readable: %w", err)
	}
	return nil
}

func (w *implFileWatch) Open(ctx context.Context, opts Options, h Handlers) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("fragment watcher already open")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.fragmentsDir); err != nil {
		watcher.Close()
		w.mu.Unlock()
		return fmt.Errorf("add watch path: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.watcher = watcher
	w.handlers = h
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	if h.OnSessionStarted != nil {
		h.OnSessionStarted()
	}

	go w.loop(runCtx, watcher, h)
	return nil
}

func (w *implFileWatch) loop(ctx context.Context, watcher *fsnotify.Watcher, h Handlers) {
	defer w.wg.Done()
	w.logger.Info(ctx, "Fragment watcher started. Monitoring: %s", w.fragmentsDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Fragment watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			// Small delay so the file is fully written before reading.
			time.Sleep(100 * time.Millisecond)
			w.dispatch(ctx, event.Name, h)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(ctx, "Fragment watcher error: %v", err)
			if h.OnError != nil {
				h.OnError(CodeAudioCapture, err.Error())
			}
		}
	}
}

func (w *implFileWatch) dispatch(ctx context.Context, path string, h Handlers) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".interim", ".error", ".end":
	default:
		w.logger.Debug(ctx, "Ignoring non-fragment file: %s", path)
		return
	}

	var content string
	if ext != ".end" {
		data, err := os.ReadFile(path)
		if err != nil {
			w.logger.Error(ctx, "Failed to read fragment %s: %v", path, err)
			return
		}
		content = strings.TrimSpace(string(data))
	}

	switch ext {
	case ".txt":
		if h.OnFragment != nil {
			h.OnFragment(true, content)
		}
	case ".interim":
		if h.OnFragment != nil {
			h.OnFragment(false, content)
		}
	case ".error":
		if h.OnError != nil {
			h.OnError(Normalize(content), fmt.Sprintf("provider reported %q", content))
		}
	case ".end":
		w.teardown(false)
		if h.OnSessionEnded != nil {
			h.OnSessionEnded()
		}
	}
}

// Restart is a no-op: the watcher never times out on silence, but the
// controller may still ask after a provider-reported no-speech error.
func (w *implFileWatch) Restart(ctx context.Context) error {
	w.logger.Debug(ctx, "fragment watcher restart requested")
	return nil
}

func (w *implFileWatch) RequestStop() error {
	h, wasRunning := w.teardown(true)
	if wasRunning && h.OnSessionEnded != nil {
		h.OnSessionEnded()
	}
	return nil
}

func (w *implFileWatch) ForceTerminate() error {
	w.teardown(true)
	return nil
}

func (w *implFileWatch) teardown(wait bool) (Handlers, bool) {
	w.mu.Lock()
	h := w.handlers
	wasRunning := w.running
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}
	w.running = false
	w.mu.Unlock()

	if wait && wasRunning {
		w.wg.Wait()
	}
	return h, wasRunning
}
