//go:build !windows

package process

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/process"
)

// commLen is the longest name the kernel reports before cutting it short.
const commLen = 15

type systemTable struct{}

// SystemTable returns the gopsutil backed process table.
func SystemTable() Table {
	return systemTable{}
}

func (systemTable) Snapshot(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get processes: %w", err)
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		// Processes that exit mid-scan no longer report a name.
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		// A name at the length limit may be truncated; only the executable path is exact.
		if len(name) >= commLen {
			exe, err := p.ExeWithContext(ctx)
			if err != nil || exe == "" {
				continue
			}
			name = filepath.Base(exe)
		}
		out = append(out, Process{PID: p.Pid, Name: name})
	}
	return out, nil
}

func (systemTable) Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return fmt.Errorf("process %d not found: %w", pid, err)
	}
	if err := p.Kill(); err != nil {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	return nil
}
