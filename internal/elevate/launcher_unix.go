//go:build !windows

package elevate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/google/shlex"
)

// DefaultShell is the interpreter command lines are handed to.
const DefaultShell = "/bin/sh"

// sudoDeclined is what "sudo -n" prints when it would have to ask for a password.
const sudoDeclined = "a password is required"

type execLauncher struct {
	prefix []string
}

// SystemLauncher returns a launcher that elevates through "sudo -n", or runs the
// shell directly when the process is already root.
func SystemLauncher() Launcher {
	if os.Geteuid() == 0 {
		return NewExecLauncher()
	}
	return NewExecLauncher("sudo", "-n")
}

// NewExecLauncher returns a launcher that runs the shell behind prefix.
func NewExecLauncher(prefix ...string) Launcher {
	return &execLauncher{prefix: prefix}
}

func (l *execLauncher) Launch(ctx context.Context, req Request) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args, err := shellArgs(req.Parameters)
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, len(l.prefix)+1+len(args))
	argv = append(argv, l.prefix...)
	argv = append(argv, req.Shell)
	argv = append(argv, args...)

	// Not CommandContext: once launched the command runs to completion.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if !req.Hidden {
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	return &execHandle{cmd: cmd, stderr: &stderr, elevated: len(l.prefix) > 0}, nil
}

// shellArgs splits a command line into shell arguments. A leading "/c" takes
// the rest of the line as one command, the way cmd.exe does, and becomes "-c".
func shellArgs(commandLine string) ([]string, error) {
	line := strings.TrimSpace(commandLine)
	if rest, ok := strings.CutPrefix(line, "/c"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		return []string{"-c", strings.TrimSpace(rest)}, nil
	}

	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command line: %w", err)
	}
	return args, nil
}

type execHandle struct {
	cmd      *exec.Cmd
	stderr   *bytes.Buffer
	elevated bool
}

func (h *execHandle) Wait() (uint32, error) {
	err := h.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, fmt.Errorf("failed to wait for command: %w", err)
	}
	code := exitErr.ExitCode()
	if code < 0 {
		return 0, fmt.Errorf("command terminated by signal: %w", err)
	}
	if h.elevated && strings.Contains(h.stderr.String(), sudoDeclined) {
		return uint32(code), ErrElevationDeclined
	}
	return uint32(code), nil
}

// Close is a no-op; Wait releases the process resources.
func (h *execHandle) Close() error {
	return nil
}
