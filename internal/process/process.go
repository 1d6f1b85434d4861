package process

import (
	"context"
	"log/slog"

	"github.com/Aj4x/jiyu/internal/logger"
)

// Process is one entry of a process table snapshot.
type Process struct {
	PID  int32
	Name string
}

// Table enumerates running processes and terminates them by PID.
type Table interface {
	// Snapshot lists every running process once. Processes started afterwards are not included.
	Snapshot(ctx context.Context) ([]Process, error)
	// Terminate opens the process with terminate rights and ends it immediately.
	Terminate(pid int32) error
}

// Terminator kills every running process that carries a given image name.
type Terminator struct {
	table  Table
	logger *slog.Logger
}

// NewTerminator creates a Terminator backed by table.
func NewTerminator(table Table, log *slog.Logger) *Terminator {
	if log == nil {
		log = logger.Discard()
	}
	return &Terminator{
		table:  table,
		logger: log.With("component", "terminator"),
	}
}

// NewSystemTerminator creates a Terminator backed by the operating system process table.
func NewSystemTerminator(log *slog.Logger) *Terminator {
	return NewTerminator(SystemTable(), log)
}

// TerminateAllByName terminates every process whose image name equals name exactly.
// It reports true if at least one matching process was terminated.
func (t *Terminator) TerminateAllByName(ctx context.Context, name string) bool {
	procs, err := t.table.Snapshot(ctx)
	if err != nil {
		t.logger.Warn("failed to enumerate processes", "name", name, "error", err)
		return false
	}

	matched, terminated := 0, 0
	for _, p := range procs {
		if p.Name != name {
			continue
		}
		matched++
		if err := t.table.Terminate(p.PID); err != nil {
			t.logger.Warn("failed to terminate process", "name", name, "pid", p.PID, "error", err)
			continue
		}
		terminated++
		t.logger.Debug("terminated process", "name", name, "pid", p.PID)
	}

	t.logger.Info("terminate by name finished",
		"name", name,
		"scanned", len(procs),
		"matched", matched,
		"terminated", terminated,
	)
	return terminated > 0
}
