// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package vcbuild

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/gookit/color"
	"shanhu.io/misc/errcode"
)

// ToolError is returned when a tool command fails to start or exits with
// a non-zero status. It ends the whole run.
type ToolError struct {
	Command  string
	ExitCode int // -1 if the command could not be started
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("run %q: %s", e.Command, e.Err)
	}
	return fmt.Sprintf("%q exit with code: %d", e.Command, e.ExitCode)
}

func (e *ToolError) Unwrap() error { return e.Err }

type execJob struct {
	dir    string
	line   string // command line, run through the shell
	env    []string
	stdout io.Writer
	stderr io.Writer
}

func shellCommand(line string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", line)
	}
	return exec.Command("sh", "-c", line)
}

func (j *execJob) command() *exec.Cmd {
	cmd := shellCommand(j.line)
	cmd.Dir = j.dir
	cmd.Env = j.env
	if j.stdout == nil {
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stdout = j.stdout
	}
	if j.stderr == nil {
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stderr = j.stderr
	}
	return cmd
}

func (j *execJob) errOut() io.Writer {
	if j.stderr == nil {
		return os.Stderr
	}
	return j.stderr
}

func (j *execJob) fail(code int, err error) error {
	w := j.errOut()
	fmt.Fprintln(w, j.line)
	fmt.Fprintln(w, color.Danger.Sprintf("returned with error %d", code))
	return &ToolError{
		Command:  j.line,
		ExitCode: code,
		Err:      err,
	}
}

// runJob runs the job's command line and waits for it to exit.
func runJob(j *execJob) error {
	if j.dir != "" {
		if err := os.MkdirAll(j.dir, 0755); err != nil {
			return j.fail(-1, errcode.Annotate(err, "make work dir"))
		}
	}

	if err := j.command().Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return j.fail(exitErr.ExitCode(), err)
		}
		return j.fail(-1, err)
	}
	return nil
}
