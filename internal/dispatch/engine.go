package dispatch

import (
	"context"
	"log/slog"
	"time"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
	"github.com/Aman-CERP/sniff/internal/rules"
	"github.com/Aman-CERP/sniff/internal/runner"
	"github.com/Aman-CERP/sniff/internal/watcher"
)

// Batch is one resolved (commands, working directory) pair.
type Batch = rules.Batch

// Runner starts shell commands without waiting for them.
type Runner interface {
	// Spawn starts command through the shell, in dir when it is non-empty.
	Spawn(command, dir string) (*runner.Process, error)
	// ReapFinished collects already-exited children. It never blocks.
	ReapFinished()
}

// Clearer clears the terminal.
type Clearer interface {
	Clear()
}

// Source supplies write notifications.
type Source interface {
	Events() <-chan watcher.FileEvent
	Errors() <-chan error
}

// Outcome summarizes what one notification did.
type Outcome struct {
	Accepted bool
	// Reason is set when the event was suppressed.
	Reason  string
	Batches []Batch
	Spawned int
	Failed  int
}

// Suppression reasons.
const (
	ReasonIgnoredFile = "ignored file"
	ReasonIgnoredDir  = "ignored directory"
	ReasonCooldown    = "cooldown"
)

// Engine is the event-to-command dispatcher.
// It is not safe for concurrent use; Run drives it from a single goroutine.
type Engine struct {
	rules    *rules.RuleSet
	settings rules.Settings
	runner   Runner
	clearer  Clearer
	now      func() time.Time

	lastAcceptedAt time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for the construction time and for events
// received by Run.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithClearer sets the terminal clearer used when ClearTerminal is on.
func WithClearer(c Clearer) Option {
	return func(e *Engine) {
		e.clearer = c
	}
}

// New creates an Engine. The cooldown window starts at construction time.
func New(rs *rules.RuleSet, settings rules.Settings, r Runner, opts ...Option) *Engine {
	e := &Engine{
		rules:    rs,
		settings: settings,
		runner:   r,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.lastAcceptedAt = e.now()
	return e
}

// LastAcceptedAt returns the time of the last accepted event.
func (e *Engine) LastAcceptedAt() time.Time {
	return e.lastAcceptedAt
}

// ShouldProcess applies the ignore lists and cooldown to path. On accept it
// records now as the last accepted time.
func (e *Engine) ShouldProcess(path string, now time.Time) bool {
	return e.filter(path, now) == ""
}

// filter returns the suppression reason, or "" when the event is accepted.
func (e *Engine) filter(path string, now time.Time) string {
	parent, base := rules.Split(path)

	if e.settings.IgnoresFile(base) {
		return ReasonIgnoredFile
	}
	if e.settings.IgnoresDir(parent) {
		return ReasonIgnoredDir
	}
	if now.Sub(e.lastAcceptedAt) < e.settings.Cooldown {
		return ReasonCooldown
	}

	e.lastAcceptedAt = now
	return ""
}

// Resolve returns the expanded batches of every rule matching path.
func (e *Engine) Resolve(path string) []Batch {
	return expandBatches(e.rules.Match(path), path)
}

// Dispatch hands every command of every batch to the runner, in order.
// A failed spawn is logged and does not stop the remaining commands.
func (e *Engine) Dispatch(batches []Batch) (spawned, failed int) {
	e.runner.ReapFinished()

	for _, b := range batches {
		for _, command := range b.Commands {
			if _, err := e.runner.Spawn(command, b.WorkingDir); err != nil {
				failed++
				slog.Error("failed to execute command",
					append([]any{
						slog.String("command", command),
						slog.String("dir", b.WorkingDir),
					}, serrors.LogAttrs(err)...)...)
				continue
			}
			spawned++
			slog.Info("ran command",
				slog.String("command", command),
				slog.String("dir", b.WorkingDir))
		}
	}
	return spawned, failed
}

// Handle runs one notification through filter, match and dispatch.
func (e *Engine) Handle(path string, now time.Time) Outcome {
	if reason := e.filter(path, now); reason != "" {
		slog.Debug("event suppressed",
			slog.String("path", path),
			slog.String("reason", reason))
		return Outcome{Reason: reason}
	}

	out := Outcome{Accepted: true}

	if e.settings.ClearTerminal && e.clearer != nil {
		e.clearer.Clear()
	}

	out.Batches = e.Resolve(path)
	if len(out.Batches) == 0 {
		slog.Debug("no rules matched", slog.String("path", path))
		return out
	}

	slog.Info("running commands", slog.String("path", path), slog.Int("batches", len(out.Batches)))
	out.Spawned, out.Failed = e.Dispatch(out.Batches)
	return out
}

// Run consumes src until ctx is cancelled or the event channel closes.
// Only file write notifications are handled. Receive errors are logged and
// the loop keeps going.
func (e *Engine) Run(ctx context.Context, src Source) error {
	events, errs := src.Events(), src.Errors()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Operation != watcher.OpModify || ev.IsDir {
				continue
			}
			slog.Debug("received write event", slog.String("path", ev.Path))
			e.Handle(ev.Path, e.now())

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Error("failed to receive event",
				serrors.LogAttrs(serrors.Wrap(serrors.ErrCodeEventReceive, err))...)
		}
	}
}
