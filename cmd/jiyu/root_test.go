package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aj4x/jiyu/internal/action"
	"github.com/Aj4x/jiyu/internal/ui"
)

type recorder struct {
	killOK   bool
	elevOK   bool
	killed   []string
	elevated []string
	shell    string
}

func (r *recorder) TerminateAllByName(_ context.Context, name string) bool {
	r.killed = append(r.killed, name)
	return r.killOK
}

func (r *recorder) RunElevated(_ context.Context, commandLine string) bool {
	r.elevated = append(r.elevated, commandLine)
	return r.elevOK
}

// testApp returns an app whose OS-facing components are replaced by rec. The
// working directory is an empty temp dir so no stray config is picked up.
func testApp(t *testing.T, rec *recorder) *app {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := newApp()
	a.newTerminator = func(*slog.Logger) action.Terminator { return rec }
	a.newElevator = func(shell string, _ *slog.Logger) action.Elevator {
		rec.shell = shell
		return rec
	}
	a.runProgram = func(tea.Model) error {
		t.Fatal("UI started unexpectedly")
		return nil
	}
	return a
}

func execute(a *app, args ...string) (string, error) {
	root := a.rootCmd("1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(testApp(t, &recorder{}), "list")
	require.NoError(t, err)

	assert.Contains(t, out, "close-student")
	assert.Contains(t, out, "StudentMain.exe")
	assert.Contains(t, out, "stop-netfilter")
	assert.Contains(t, out, "/c sc stop tdnetfilter")
	assert.Contains(t, out, "close-masterhelper")
	assert.Contains(t, out, "MasterHelper.exe")
}

func TestRun_Success(t *testing.T) {
	rec := &recorder{killOK: true}
	out, err := execute(testApp(t, rec), "run", "close-student")
	require.NoError(t, err)

	assert.Equal(t, []string{"StudentMain.exe"}, rec.killed)
	assert.Contains(t, out, "正在关闭极域...")
	assert.Contains(t, out, "极域已成功关闭")
}

func TestRun_Failure(t *testing.T) {
	rec := &recorder{killOK: false}
	out, err := execute(testApp(t, rec), "run", "close-masterhelper")

	assert.ErrorIs(t, err, errActionFailed)
	assert.Equal(t, []string{"MasterHelper.exe"}, rec.killed)
	assert.Contains(t, out, "无法关闭网络限制进程")
}

func TestRun_Elevated(t *testing.T) {
	rec := &recorder{elevOK: true}
	out, err := execute(testApp(t, rec), "run", "stop-netfilter")
	require.NoError(t, err)

	assert.Equal(t, []string{"/c sc stop tdnetfilter"}, rec.elevated)
	assert.Empty(t, rec.killed)
	assert.Empty(t, rec.shell, "empty shell selects the platform default")
	assert.Contains(t, out, "网络驱动已成功卸载")
}

func TestRun_UnknownAction(t *testing.T) {
	rec := &recorder{}
	_, err := execute(testApp(t, rec), "run", "format-disk")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown action "format-disk"`)
	assert.Empty(t, rec.killed)
	assert.Empty(t, rec.elevated)
}

func TestRun_RequiresOneArgument(t *testing.T) {
	_, err := execute(testApp(t, &recorder{}), "run")
	assert.Error(t, err)
}

func TestRun_ConfigAndLogFlags(t *testing.T) {
	rec := &recorder{killOK: true}
	a := testApp(t, rec)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
shell: /bin/bash
log_level: error
actions:
  - id: close-notepad
    kind: kill
    target: notepad.exe
    success: notepad closed
`), 0o600))
	logPath := filepath.Join(dir, "jiyu.log")

	out, err := execute(a, "--config", cfgPath, "--log-file", logPath, "--log-level", "debug", "run", "close-notepad")
	require.NoError(t, err)

	assert.Equal(t, []string{"notepad.exe"}, rec.killed)
	assert.Equal(t, "/bin/bash", rec.shell)
	assert.Contains(t, out, "notepad closed")

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "action started", "--log-level overrides the file")
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, err := execute(testApp(t, &recorder{}), "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestRoot_StartsUI(t *testing.T) {
	a := testApp(t, &recorder{})
	require.NoError(t, os.WriteFile("jiyu.yaml", []byte("ui:\n  scale: 2\n"), 0o600))

	var started tea.Model
	a.runProgram = func(m tea.Model) error {
		started = m
		return nil
	}

	_, err := execute(a)
	require.NoError(t, err)

	m, ok := started.(ui.Model)
	require.True(t, ok)
	assert.Len(t, m.Buttons, 4)
	assert.True(t, m.Buttons[3].IsExit())
	assert.Equal(t, 48, m.Styles.ButtonWidth)
}

func TestVersion(t *testing.T) {
	out, err := execute(testApp(t, &recorder{}), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "jiyu version 1.2.3")
}
