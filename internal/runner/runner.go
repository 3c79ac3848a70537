// Package runner starts shell commands for sniff and collects them once they
// exit. Commands are never waited on by the caller: Spawn returns as soon as
// the process has started.
package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
)

// DefaultShell interprets every command string.
const DefaultShell = "sh"

// Process is a handle to a spawned command.
type Process struct {
	PID       int
	Command   string
	Dir       string
	StartedAt time.Time

	cmd *exec.Cmd
}

// Exit records a finished process.
type Exit struct {
	Process  *Process
	ExitCode int
	Err      error
	EndedAt  time.Time
}

// Runner spawns commands through a shell and tracks them until reaped.
type Runner struct {
	shell  string
	stdout io.Writer
	stderr io.Writer

	mu       sync.Mutex
	running  map[int]*Process
	finished []Exit
}

// Option configures a Runner.
type Option func(*Runner)

// WithShell sets the shell binary invoked as `<shell> -c <command>`.
func WithShell(shell string) Option {
	return func(r *Runner) {
		r.shell = shell
	}
}

// WithOutput sets where child stdout and stderr go. Defaults to the
// process's own stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		shell:   DefaultShell,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		running: make(map[int]*Process),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Spawn starts command through the shell and returns without waiting.
// dir, when non-empty, is the working directory of the child.
func (r *Runner) Spawn(command, dir string) (*Process, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, serrors.New(serrors.ErrCodeWorkdirInvalid,
				fmt.Sprintf("working directory %s", dir), err).
				WithDetail("command", command)
		}
		if !info.IsDir() {
			return nil, serrors.New(serrors.ErrCodeWorkdirInvalid,
				fmt.Sprintf("working directory %s is not a directory", dir), nil).
				WithDetail("command", command)
		}
	}

	cmd := exec.Command(r.shell, "-c", command)
	cmd.Dir = dir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Start(); err != nil {
		return nil, serrors.New(serrors.ErrCodeSpawnFailed,
			fmt.Sprintf("failed to execute %s", command), err).
			WithDetail("shell", r.shell)
	}

	p := &Process{
		PID:       cmd.Process.Pid,
		Command:   command,
		Dir:       dir,
		StartedAt: time.Now(),
		cmd:       cmd,
	}

	r.mu.Lock()
	r.running[p.PID] = p
	r.mu.Unlock()

	go r.wait(p)

	return p, nil
}

// wait blocks on the child in its own goroutine and queues its exit for
// ReapFinished.
func (r *Runner) wait(p *Process) {
	err := p.cmd.Wait()

	exit := Exit{Process: p, ExitCode: 0, Err: err, EndedAt: time.Now()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exit.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		exit.ExitCode = -1
	}

	r.mu.Lock()
	delete(r.running, p.PID)
	r.finished = append(r.finished, exit)
	r.mu.Unlock()
}

// ReapFinished collects processes that have exited since the last call and
// logs their status. It never blocks and is a no-op when nothing exited.
func (r *Runner) ReapFinished() {
	for _, exit := range r.Reap() {
		attrs := []any{
			slog.String("command", exit.Process.Command),
			slog.Int("pid", exit.Process.PID),
			slog.Int("exit_code", exit.ExitCode),
			slog.Duration("duration", exit.EndedAt.Sub(exit.Process.StartedAt)),
		}
		if exit.ExitCode != 0 {
			slog.Debug("command failed", attrs...)
		} else {
			slog.Debug("command finished", attrs...)
		}
	}
}

// Reap returns and forgets the exits collected since the last call.
func (r *Runner) Reap() []Exit {
	r.mu.Lock()
	defer r.mu.Unlock()

	done := r.finished
	r.finished = nil
	return done
}

// Running returns the number of spawned commands that have not exited.
func (r *Runner) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.running)
}
