package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/gcptoolkit/internal/config"
	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
	"github.com/systmms/gcptoolkit/internal/preferences"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestConfigSetPath(t *testing.T) {
	rt := newTestRuntime(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, configPath, "authentication: {}\n")

	out, err := execute(t, NewConfigCommand(rt), "set-path", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Config path set to: "+configPath)

	stored, ok := rt.Prefs.Get(preferences.KeyConfigPath)
	require.True(t, ok)
	assert.Equal(t, configPath, stored)
}

func TestConfigSetPathStoresAbsolute(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yml"), "x: 1\n")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = execute(t, NewConfigCommand(rt), "set-path", "config.yml")
	require.NoError(t, err)

	stored, ok := rt.Prefs.Get(preferences.KeyConfigPath)
	require.True(t, ok)
	assert.True(t, filepath.IsAbs(stored), "stored path should be absolute, got %s", stored)
}

func TestConfigSetPathMissingFile(t *testing.T) {
	rt := newTestRuntime(t)

	_, err := execute(t, NewConfigCommand(rt), "set-path", "/nonexistent/config.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.Equal(t, gcperrors.ExitRuntime, gcperrors.ExitCode(err))

	_, ok := rt.Prefs.Get(preferences.KeyConfigPath)
	assert.False(t, ok)
}

func TestConfigSetPathDirectory(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()

	_, err := execute(t, NewConfigCommand(rt), "set-path", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a file")
}

func TestConfigShowDefault(t *testing.T) {
	rt := newTestRuntime(t)

	out, err := execute(t, NewConfigCommand(rt), "show")
	require.NoError(t, err)
	assert.Contains(t, out, rt.Loader.DefaultPath())
	assert.Contains(t, out, "file not found")
	assert.Contains(t, out, "Source: default")
}

func TestConfigShowPreference(t *testing.T) {
	rt := newTestRuntime(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, configPath, "x: 1\n")
	require.NoError(t, rt.Prefs.Set(preferences.KeyConfigPath, configPath))

	out, err := execute(t, NewConfigCommand(rt), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path: "+configPath)
	assert.Contains(t, out, "Source: preference")
	assert.NotContains(t, out, "file not found")
}

func TestConfigShowEnvironmentOverride(t *testing.T) {
	rt := newTestRuntime(t)
	configPath := filepath.Join(t.TempDir(), "env.yml")
	writeFile(t, configPath, "x: 1\n")
	t.Setenv(config.EnvConfigPath, configPath)

	out, err := execute(t, NewConfigCommand(rt), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path: "+configPath)
	assert.Contains(t, out, "Source: environment")
}

func TestConfigClear(t *testing.T) {
	rt := newTestRuntime(t)
	require.NoError(t, rt.Prefs.Set(preferences.KeyConfigPath, "/some/path.yml"))

	out, err := execute(t, NewConfigCommand(rt), "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path preference cleared")
	assert.Contains(t, out, rt.Loader.DefaultPath())

	_, ok := rt.Prefs.Get(preferences.KeyConfigPath)
	assert.False(t, ok)
}

func TestConfigClearUnsetIsNoOp(t *testing.T) {
	rt := newTestRuntime(t)

	_, err := execute(t, NewConfigCommand(rt), "clear")
	assert.NoError(t, err)
}

func TestConfigInitNonInteractiveRefused(t *testing.T) {
	rt := newTestRuntime(t)
	rt.NonInteractive = true

	_, err := execute(t, NewConfigCommand(rt), "init")
	require.Error(t, err)
	assert.Equal(t, gcperrors.ExitUsage, gcperrors.ExitCode(err))
}

func TestConfigInitPointAtExistingFile(t *testing.T) {
	rt := newTestRuntime(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, configPath, "x: 1\n")

	cmd := NewConfigCommand(rt)
	cmd.SetIn(strings.NewReader("2\n" + configPath + "\n"))

	out, err := execute(t, cmd, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path set to: "+configPath)

	stored, ok := rt.Prefs.Get(preferences.KeyConfigPath)
	require.True(t, ok)
	assert.Equal(t, configPath, stored)
}

func TestConfigInitCopyToDefault(t *testing.T) {
	rt := newTestRuntime(t)
	sourcePath := filepath.Join(t.TempDir(), "source.yml")
	writeFile(t, sourcePath, "gcp:\n  project_id: proj-x\n")

	cmd := NewConfigCommand(rt)
	cmd.SetIn(strings.NewReader("1\n" + sourcePath + "\n"))

	out, err := execute(t, cmd, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Config copied to: "+rt.Loader.DefaultPath())

	data, err := os.ReadFile(rt.Loader.DefaultPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "proj-x")
}

func TestConfigInitCancel(t *testing.T) {
	rt := newTestRuntime(t)

	cmd := NewConfigCommand(rt)
	cmd.SetIn(strings.NewReader("3\n"))

	out, err := execute(t, cmd, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Setup cancelled")
}

func TestConfigInitInvalidChoice(t *testing.T) {
	rt := newTestRuntime(t)

	cmd := NewConfigCommand(rt)
	cmd.SetIn(strings.NewReader("7\n"))

	_, err := execute(t, cmd, "init")
	require.Error(t, err)
	assert.Equal(t, gcperrors.ExitUsage, gcperrors.ExitCode(err))
}

func TestConfigInitKeepExisting(t *testing.T) {
	rt := newTestRuntime(t)
	writeFile(t, rt.Loader.DefaultPath(), "x: 1\n")

	cmd := NewConfigCommand(rt)
	cmd.SetIn(strings.NewReader("n\n"))

	out, err := execute(t, cmd, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Using existing config at: "+rt.Loader.DefaultPath())
}

func TestConfigWithoutSubcommandShowsHelp(t *testing.T) {
	rt := newTestRuntime(t)

	var out bytes.Buffer
	cmd := NewConfigCommand(rt)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(nil)

	err := cmd.Execute()
	require.ErrorIs(t, err, ErrUsageShown)
	assert.Contains(t, out.String(), "set-path")
}
