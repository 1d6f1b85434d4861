//go:build windows

package elevate

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// DefaultShell is the interpreter command lines are handed to.
const DefaultShell = "cmd.exe"

const (
	seeMaskNoCloseProcess = 0x00000040
	seeMaskFlagNoUI       = 0x00000400

	swHide       = 0
	swShowNormal = 1
)

var (
	modshell32          = windows.NewLazySystemDLL("shell32.dll")
	procShellExecuteExW = modshell32.NewProc("ShellExecuteExW")
)

// shellExecuteInfo mirrors SHELLEXECUTEINFOW.
type shellExecuteInfo struct {
	cbSize         uint32
	fMask          uint32
	hwnd           windows.HWND
	lpVerb         *uint16
	lpFile         *uint16
	lpParameters   *uint16
	lpDirectory    *uint16
	nShow          int32
	hInstApp       windows.Handle
	lpIDList       uintptr
	lpClass        *uint16
	hkeyClass      windows.Handle
	dwHotKey       uint32
	hIconOrMonitor windows.Handle
	hProcess       windows.Handle
}

type shellLauncher struct{}

// SystemLauncher returns the ShellExecuteEx "runas" launcher.
func SystemLauncher() Launcher {
	return shellLauncher{}
}

func (shellLauncher) Launch(ctx context.Context, req Request) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return nil, err
	}
	file, err := windows.UTF16PtrFromString(req.Shell)
	if err != nil {
		return nil, fmt.Errorf("invalid shell %q: %w", req.Shell, err)
	}
	params, err := windows.UTF16PtrFromString(req.Parameters)
	if err != nil {
		return nil, fmt.Errorf("invalid command line: %w", err)
	}

	info := shellExecuteInfo{
		fMask:        seeMaskNoCloseProcess | seeMaskFlagNoUI,
		lpVerb:       verb,
		lpFile:       file,
		lpParameters: params,
		nShow:        swShowNormal,
	}
	if req.Hidden {
		info.nShow = swHide
	}
	info.cbSize = uint32(unsafe.Sizeof(info))

	r1, _, e1 := procShellExecuteExW.Call(uintptr(unsafe.Pointer(&info)))
	if r1 == 0 {
		if errors.Is(e1, windows.ERROR_CANCELLED) {
			return nil, fmt.Errorf("%w: %v", ErrElevationDeclined, e1)
		}
		return nil, fmt.Errorf("shell execute %s: %w", req.Shell, e1)
	}
	if info.hProcess == 0 {
		return nil, ErrNoHandle
	}
	return &processHandle{h: info.hProcess}, nil
}

type processHandle struct {
	h windows.Handle
}

func (p *processHandle) Wait() (uint32, error) {
	event, err := windows.WaitForSingleObject(p.h, windows.INFINITE)
	if err != nil {
		return 0, fmt.Errorf("wait for process: %w", err)
	}
	if event != windows.WAIT_OBJECT_0 {
		return 0, fmt.Errorf("wait for process: unexpected result %#x", event)
	}

	var code uint32
	if err := windows.GetExitCodeProcess(p.h, &code); err != nil {
		return 0, fmt.Errorf("get exit code: %w", err)
	}
	return code, nil
}

func (p *processHandle) Close() error {
	return windows.CloseHandle(p.h)
}
