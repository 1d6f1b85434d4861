//go:build windows

package process

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// exitCode is the status a terminated process reports.
const exitCode = 0

type systemTable struct{}

// SystemTable returns the Toolhelp32 backed process table.
func SystemTable() Table {
	return systemTable{}
}

func (systemTable) Snapshot(_ context.Context) ([]Process, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("create process snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, fmt.Errorf("read first process entry: %w", err)
	}

	var procs []Process
	for {
		procs = append(procs, Process{
			PID:  int32(entry.ProcessID),
			Name: windows.UTF16ToString(entry.ExeFile[:]),
		})
		if err := windows.Process32Next(snap, &entry); err != nil {
			if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				break
			}
			return nil, fmt.Errorf("read process entry: %w", err)
		}
	}
	return procs, nil
}

func (systemTable) Terminate(pid int32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	if err := windows.TerminateProcess(h, exitCode); err != nil {
		return fmt.Errorf("terminate process %d: %w", pid, err)
	}
	return nil
}
