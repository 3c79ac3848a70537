package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
)

// PollingWatcher watches for file changes by periodically scanning the directory.
// Used as a fallback when fsnotify is not available or fails.
type PollingWatcher struct {
	interval   time.Duration
	ignoreDirs []string
	fileState  map[string]fileSnapshot
	events     chan FileEvent
	errors     chan error
	stopCh     chan struct{}
	mu         sync.RWMutex
	stopped    bool
	rootPath   string
}

type fileSnapshot struct {
	modTime time.Time
	size    int64
	isDir   bool
}

// NewPollingWatcher creates a new polling watcher with the given interval.
func NewPollingWatcher(interval time.Duration) *PollingWatcher {
	return &PollingWatcher{
		interval:  interval,
		fileState: make(map[string]fileSnapshot),
		events:    make(chan FileEvent, 100),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}
}

// Start begins watching the given directory by polling.
func (p *PollingWatcher) Start(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return serrors.New(serrors.ErrCodeWatchFailed, "resolve absolute path", err)
	}
	p.rootPath = absPath

	// Initial scan to establish baseline
	if err := p.scan(); err != nil {
		return serrors.New(serrors.ErrCodeWatchFailed, "perform initial scan", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = p.Stop()
			return ctx.Err()
		case <-p.stopCh:
			return nil
		case <-ticker.C:
			if err := p.detectChanges(); err != nil {
				// Non-fatal error, send to error channel
				select {
				case p.errors <- err:
				default:
				}
			}
		}
	}
}

// Stop stops the polling watcher.
func (p *PollingWatcher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}

	p.stopped = true
	close(p.stopCh)
	close(p.events)
	close(p.errors)
	return nil
}

// Events returns the channel of file events.
func (p *PollingWatcher) Events() <-chan FileEvent {
	return p.events
}

// Errors returns the channel of errors.
func (p *PollingWatcher) Errors() <-chan error {
	return p.errors
}

// walk visits every entry under the root except ignored directories.
func (p *PollingWatcher) walk(visit func(path, relPath string, d fs.DirEntry, info fs.FileInfo)) error {
	return filepath.WalkDir(p.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The root itself must be readable; anything below is skipped.
			if path == p.rootPath {
				return err
			}
			return nil
		}
		if path == p.rootPath {
			return nil
		}
		if d.IsDir() && containsAny(path, p.ignoreDirs) {
			return filepath.SkipDir
		}

		relPath, err := filepath.Rel(p.rootPath, path)
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		visit(path, relPath, d, info)
		return nil
	})
}

// scan walks the directory and records file state.
func (p *PollingWatcher) scan() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.walk(func(path, _ string, d fs.DirEntry, info fs.FileInfo) {
		p.fileState[path] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
			isDir:   d.IsDir(),
		}
	})
}

// detectChanges compares current state with previous state and emits events.
func (p *PollingWatcher) detectChanges() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	currentFiles := make(map[string]fileSnapshot)

	err := p.walk(func(path, relPath string, d fs.DirEntry, info fs.FileInfo) {
		snapshot := fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
			isDir:   d.IsDir(),
		}
		currentFiles[path] = snapshot

		if prev, exists := p.fileState[path]; !exists {
			p.emitEvent(FileEvent{
				Path:      path,
				RelPath:   relPath,
				Operation: OpCreate,
				IsDir:     d.IsDir(),
				Timestamp: time.Now(),
			})
		} else if !d.IsDir() && (prev.modTime != snapshot.modTime || prev.size != snapshot.size) {
			p.emitEvent(FileEvent{
				Path:      path,
				RelPath:   relPath,
				Operation: OpModify,
				Timestamp: time.Now(),
			})
		}
	})
	if err != nil {
		return serrors.New(serrors.ErrCodeEventReceive, "walk directory for changes", err)
	}

	for path, snapshot := range p.fileState {
		if _, exists := currentFiles[path]; !exists {
			relPath, _ := filepath.Rel(p.rootPath, path)
			p.emitEvent(FileEvent{
				Path:      path,
				RelPath:   relPath,
				Operation: OpDelete,
				IsDir:     snapshot.isDir,
				Timestamp: time.Now(),
			})
		}
	}

	p.fileState = currentFiles
	return nil
}

// emitEvent sends an event to the events channel.
// Must be called with lock held.
func (p *PollingWatcher) emitEvent(event FileEvent) {
	if p.stopped {
		return
	}

	select {
	case p.events <- event:
	default:
		slog.Warn("polling watcher buffer full, dropping event",
			slog.String("path", event.Path),
			slog.String("op", event.Operation.String()),
		)
	}
}
