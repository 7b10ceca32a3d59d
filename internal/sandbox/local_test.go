package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicscan/fleetdoctor/internal/contract"
)

func writeScript(t *testing.T, dir, body string) {
	t.Helper()
	path := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
}

func TestLocalSandbox_ExecuteSuccess(t *testing.T) {
	workDir := t.TempDir()
	writeScript(t, workDir, `echo "running $1"
echo '[{"title":"Board Meeting"},{"title":"Budget Hearing"}]' > "$2"
`)
	s := NewLocalSandbox(&contract.Config{RunCommand: "./run.sh {agent} {out}"})

	res, err := s.Execute(context.Background(), workDir, "chi_library", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, 2, res.ItemCount)
	assert.Contains(t, res.LogText, "running chi_library")
	assert.Greater(t, res.DurationSeconds, 0.0)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Board Meeting", res.Items[0]["title"])
}

func TestLocalSandbox_ExecuteNonzeroExit(t *testing.T) {
	workDir := t.TempDir()
	writeScript(t, workDir, `echo "ModuleNotFoundError: No module named 'city_scrapers_core'" >&2
exit 3
`)
	s := NewLocalSandbox(&contract.Config{RunCommand: "./run.sh {agent} {out}"})

	res, err := s.Execute(context.Background(), workDir, "chi_library", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, 0, res.ItemCount)
	assert.Contains(t, res.LogText, "ModuleNotFoundError")
}

func TestLocalSandbox_ExecuteTimeout(t *testing.T) {
	workDir := t.TempDir()
	writeScript(t, workDir, "sleep 5\n")
	s := NewLocalSandbox(&contract.Config{RunCommand: "./run.sh {agent} {out}"})

	res, err := s.Execute(context.Background(), workDir, "chi_library", 100*time.Millisecond)
	require.NoError(t, err)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Contains(t, res.LogText, "timed out")
}

func TestLocalSandbox_ExecuteBadOutputFile(t *testing.T) {
	workDir := t.TempDir()
	writeScript(t, workDir, `echo "not json" > "$2"
`)
	s := NewLocalSandbox(&contract.Config{RunCommand: "./run.sh {agent} {out}"})

	res, err := s.Execute(context.Background(), workDir, "chi_library", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, 0, res.ItemCount)
}

func TestLocalSandbox_ExecuteEmptyCommand(t *testing.T) {
	s := NewLocalSandbox(&contract.Config{})
	_, err := s.Execute(context.Background(), t.TempDir(), "chi_library", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run-command")
}

func TestLocalSandbox_ExecuteMissingBinary(t *testing.T) {
	s := NewLocalSandbox(&contract.Config{RunCommand: "./does-not-exist {agent}"})
	_, err := s.Execute(context.Background(), t.TempDir(), "chi_library", time.Minute)
	assert.Error(t, err)
}

func TestLocalSandbox_SetupInvalidLocator(t *testing.T) {
	s := NewLocalSandbox(&contract.Config{})
	_, err := s.Setup(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git clone")
}

func TestLocalSandbox_Teardown(t *testing.T) {
	s := NewLocalSandbox(&contract.Config{})
	dir := t.TempDir()
	sub := filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, s.Teardown(sub))
	_, err := os.Stat(sub)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Teardown(""))
}

func TestBoundLog(t *testing.T) {
	short := "all good"
	assert.Equal(t, short, boundLog(short))

	long := make([]byte, maxLogBytes+10)
	for i := range long {
		long[i] = 'a'
	}
	copy(long[len(long)-5:], "tail!")
	bounded := boundLog(string(long))
	assert.Len(t, bounded, maxLogBytes)
	assert.Contains(t, bounded, "tail!")
}
