package vcbuild

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunJob(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh syntax")
	}

	dir := filepath.Join(t.TempDir(), "work", "dir")
	stdout := new(strings.Builder)
	stderr := new(strings.Builder)
	require.NoError(t, runJob(&execJob{
		dir:    dir,
		line:   "echo $GREETING; pwd",
		env:    []string{"GREETING=hello", "PATH=/usr/bin:/bin"},
		stdout: stdout,
		stderr: stderr,
	}))
	require.Equal(t, "hello\n"+dir+"\n", stdout.String())
	require.Empty(t, stderr.String())
}

func TestRunJobFail(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh syntax")
	}

	stderr := new(strings.Builder)
	err := runJob(&execJob{
		dir:    t.TempDir(),
		line:   "exit 3",
		stdout: new(strings.Builder),
		stderr: stderr,
	})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	require.Equal(t, 3, toolErr.ExitCode)
	require.Equal(t, "exit 3", toolErr.Command)
	require.Contains(t, stderr.String(), "exit 3\n")
	require.Contains(t, stderr.String(), "returned with error 3")
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Command: "cc", ExitCode: 2}
	require.Equal(t, `"cc" exit with code: 2`, err.Error())

	spawn := &ToolError{
		Command: "cc", ExitCode: -1, Err: errors.New("not found"),
	}
	require.Equal(t, `run "cc": not found`, spawn.Error())
	require.True(t, errors.Is(spawn, spawn.Err))
}
