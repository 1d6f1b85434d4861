package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultActions(t *testing.T) {
	actions := DefaultActions()
	require.Len(t, actions, 3)

	assert.Equal(t, KindKill, actions[0].Kind)
	assert.Equal(t, "StudentMain.exe", actions[0].Target)

	assert.Equal(t, KindElevated, actions[1].Kind)
	assert.Equal(t, "/c sc stop tdnetfilter", actions[1].Target)

	assert.Equal(t, KindKill, actions[2].Kind)
	assert.Equal(t, "MasterHelper.exe", actions[2].Target)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultActions(), cfg.Actions)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1.0, cfg.UI.Scale)
	assert.Equal(t, "极域解除工具", cfg.UI.Title)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
shell: powershell.exe
log_level: debug
ui:
  title: Release
  scale: 1.5
actions:
  - id: close-notepad
    label: Close Notepad
    kind: kill
    target: notepad.exe
    pending: Closing...
    success: Closed
    failure: Not closed
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "powershell.exe", cfg.Shell)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Release", cfg.UI.Title)
	assert.Equal(t, "准备就绪", cfg.UI.Ready, "unset keys keep defaults")
	assert.Equal(t, 1.5, cfg.UI.Scale)
	require.Len(t, cfg.Actions, 1)
	assert.Equal(t, Action{
		ID:      "close-notepad",
		Label:   "Close Notepad",
		Kind:    KindKill,
		Target:  "notepad.exe",
		Pending: "Closing...",
		Success: "Closed",
		Failure: "Not closed",
	}, cfg.Actions[0])
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "jiyu.yaml", "ui:\n  scale: 2\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.UI.Scale)
}

func TestLoad_ScaleClamped(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jiyu.yaml", "ui:\n  scale: 0.5\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.UI.Scale)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JIYU_LOG_LEVEL", "warn")
	t.Setenv("JIYU_UI_SCALE", "1.25")
	t.Setenv("JIYU_SHELL", "/bin/bash")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 1.25, cfg.UI.Scale)
	assert.Equal(t, "/bin/bash", cfg.Shell)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "JIYU_LOG_FILE=from-dotenv.log\n")
	t.Cleanup(func() { os.Unsetenv("JIYU_LOG_FILE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.log", cfg.LogFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidActions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jiyu.yaml", `
actions:
  - id: bad
    kind: reboot
    target: now
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestValidate(t *testing.T) {
	valid := Action{ID: "a", Kind: KindKill, Target: "a.exe"}

	tests := []struct {
		name    string
		actions []Action
		wantErr string
	}{
		{"valid", []Action{valid}, ""},
		{"empty", nil, "at least one action"},
		{"missing id", []Action{{Kind: KindKill, Target: "a.exe"}}, "has no id"},
		{"duplicate id", []Action{valid, valid}, "duplicate action id"},
		{"unknown kind", []Action{{ID: "a", Kind: "x", Target: "a.exe"}}, "unknown kind"},
		{"missing target", []Action{{ID: "a", Kind: KindElevated}}, "has no target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Actions: tt.actions}
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigFind(t *testing.T) {
	cfg := Defaults()

	a, ok := cfg.Find("stop-netfilter")
	assert.True(t, ok)
	assert.Equal(t, KindElevated, a.Kind)

	_, ok = cfg.Find("nonexistent")
	assert.False(t, ok)
}

func TestClampScale(t *testing.T) {
	assert.Equal(t, 1.0, ClampScale(0))
	assert.Equal(t, 1.0, ClampScale(-3))
	assert.Equal(t, 1.0, ClampScale(0.99))
	assert.Equal(t, 1.75, ClampScale(1.75))
}
