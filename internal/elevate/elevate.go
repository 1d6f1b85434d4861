// Package elevate runs a command line through a shell interpreter with elevated
// privileges and reports whether it exited with status zero.
//
// On Windows the interpreter is started with the "runas" verb, which may show a
// consent prompt. Elsewhere it is started through "sudo -n" unless the current
// user is already root.
package elevate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Aj4x/jiyu/internal/logger"
)

var (
	// ErrElevationDeclined is returned when the user or the system refuses the elevation request.
	ErrElevationDeclined = errors.New("elevation request declined")
	// ErrNoHandle is returned when a launch succeeded without yielding a process to wait on.
	ErrNoHandle = errors.New("launch returned no process handle")
)

// Request describes a single elevated launch.
type Request struct {
	Shell      string
	Parameters string // passed to Shell as-is on Windows, split with shell quoting rules elsewhere
	Hidden     bool
}

// Handle is a launched process.
type Handle interface {
	// Wait blocks until the process exits and returns its exit code.
	Wait() (uint32, error)
	Close() error
}

// Launcher starts a process with elevated privileges.
type Launcher interface {
	Launch(ctx context.Context, req Request) (Handle, error)
}

// Runner executes command lines through an elevated shell.
type Runner struct {
	launcher Launcher
	shell    string
	logger   *slog.Logger
}

// NewRunner creates a Runner using launcher to start shell.
func NewRunner(launcher Launcher, shell string, log *slog.Logger) *Runner {
	if shell == "" {
		shell = DefaultShell
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{
		launcher: launcher,
		shell:    shell,
		logger:   log.With("component", "elevate"),
	}
}

// NewSystemRunner creates a Runner backed by the platform launcher.
func NewSystemRunner(shell string, log *slog.Logger) *Runner {
	return NewRunner(SystemLauncher(), shell, log)
}

// Shell returns the interpreter the Runner launches.
func (r *Runner) Shell() string {
	return r.shell
}

// RunElevated launches the shell with commandLine, waits for it without a timeout and
// reports whether it exited with code zero. A declined elevation request returns false
// immediately.
func (r *Runner) RunElevated(ctx context.Context, commandLine string) bool {
	log := r.logger.With("shell", r.shell, "command", commandLine)

	h, err := r.launcher.Launch(ctx, Request{
		Shell:      r.shell,
		Parameters: commandLine,
		Hidden:     true,
	})
	if err != nil {
		if errors.Is(err, ErrElevationDeclined) {
			log.Warn("elevation declined", "error", err)
		} else {
			log.Warn("failed to launch elevated command", "error", err)
		}
		return false
	}
	if h == nil {
		log.Warn("failed to launch elevated command", "error", ErrNoHandle)
		return false
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Debug("failed to release process handle", "error", err)
		}
	}()

	code, err := h.Wait()
	if err != nil {
		log.Warn("failed to collect exit status", "error", err)
		return false
	}

	log.Info("elevated command finished", "exit_code", code)
	return code == 0
}
