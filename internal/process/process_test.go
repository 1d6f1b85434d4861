package process

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTable struct {
	procs       []Process
	snapshotErr error
	denied      map[int32]bool
	terminated  []int32
}

func (f *fakeTable) Snapshot(context.Context) ([]Process, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return append([]Process(nil), f.procs...), nil
}

func (f *fakeTable) Terminate(pid int32) error {
	if f.denied[pid] {
		return errors.New("access denied")
	}
	f.terminated = append(f.terminated, pid)
	kept := f.procs[:0]
	for _, p := range f.procs {
		if p.PID != pid {
			kept = append(kept, p)
		}
	}
	f.procs = kept
	return nil
}

func (f *fakeTable) running(name string) int {
	n := 0
	for _, p := range f.procs {
		if p.Name == name {
			n++
		}
	}
	return n
}

func TestTerminateAllByName(t *testing.T) {
	tests := []struct {
		name           string
		procs          []Process
		denied         map[int32]bool
		target         string
		expected       bool
		wantTerminated []int32
	}{
		{
			name:           "no matching process",
			procs:          []Process{{PID: 10, Name: "explorer.exe"}, {PID: 11, Name: "svchost.exe"}},
			target:         "StudentMain.exe",
			expected:       false,
			wantTerminated: nil,
		},
		{
			name:           "single match",
			procs:          []Process{{PID: 10, Name: "explorer.exe"}, {PID: 20, Name: "StudentMain.exe"}},
			target:         "StudentMain.exe",
			expected:       true,
			wantTerminated: []int32{20},
		},
		{
			name: "every instance is terminated",
			procs: []Process{
				{PID: 20, Name: "MasterHelper.exe"},
				{PID: 21, Name: "explorer.exe"},
				{PID: 22, Name: "MasterHelper.exe"},
				{PID: 23, Name: "MasterHelper.exe"},
			},
			target:         "MasterHelper.exe",
			expected:       true,
			wantTerminated: []int32{20, 22, 23},
		},
		{
			name: "exact name only",
			procs: []Process{
				{PID: 30, Name: "StudentMain.exe.bak"},
				{PID: 31, Name: "studentmain.exe"},
				{PID: 32, Name: "C:\\Program Files\\StudentMain.exe"},
				{PID: 33, Name: "StudentMain"},
			},
			target:         "StudentMain.exe",
			expected:       false,
			wantTerminated: nil,
		},
		{
			name:           "all attempts denied",
			procs:          []Process{{PID: 40, Name: "StudentMain.exe"}, {PID: 41, Name: "StudentMain.exe"}},
			denied:         map[int32]bool{40: true, 41: true},
			target:         "StudentMain.exe",
			expected:       false,
			wantTerminated: nil,
		},
		{
			name:           "partial success counts as success",
			procs:          []Process{{PID: 50, Name: "StudentMain.exe"}, {PID: 51, Name: "StudentMain.exe"}},
			denied:         map[int32]bool{50: true},
			target:         "StudentMain.exe",
			expected:       true,
			wantTerminated: []int32{51},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &fakeTable{procs: append([]Process(nil), tt.procs...), denied: tt.denied}
			term := NewTerminator(table, nil)

			got := term.TerminateAllByName(context.Background(), tt.target)

			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.wantTerminated, table.terminated)
		})
	}
}

func TestTerminateAllByName_NoneRemainAfterSuccess(t *testing.T) {
	table := &fakeTable{procs: []Process{
		{PID: 1, Name: "StudentMain.exe"},
		{PID: 2, Name: "StudentMain.exe"},
		{PID: 3, Name: "notepad.exe"},
	}}
	term := NewTerminator(table, nil)

	assert.True(t, term.TerminateAllByName(context.Background(), "StudentMain.exe"))
	assert.Zero(t, table.running("StudentMain.exe"))
	assert.Equal(t, 1, table.running("notepad.exe"))

	// A second call finds nothing left to terminate.
	assert.False(t, term.TerminateAllByName(context.Background(), "StudentMain.exe"))
}

func TestTerminateAllByName_SnapshotFailure(t *testing.T) {
	table := &fakeTable{snapshotErr: errors.New("snapshot unavailable")}
	term := NewTerminator(table, nil)

	assert.False(t, term.TerminateAllByName(context.Background(), "StudentMain.exe"))
	assert.Empty(t, table.terminated)
}
