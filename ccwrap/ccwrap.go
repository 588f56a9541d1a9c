// Package ccwrap wraps a gcc-style compiler for IDE driven builds. It
// skips the compile when the object is newer than the source and every
// header it includes, and rewrites the compiler's diagnostics into the
// "file(line) : severity :" shape IDEs parse.
package ccwrap

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"

	"shanhu.io/misc/errcode"
)

// Job is one wrapped compiler invocation.
type Job struct {
	Args []string // compiler and its arguments
	Out  string   // the object file, from -o

	depArgs []string // Args without the -o option
}

// Parse parses a compiler command line. The first element is the
// compiler.
func Parse(argv []string) (*Job, error) {
	if len(argv) == 0 {
		return nil, errcode.InvalidArgf("no compiler given")
	}

	j := &Job{Args: argv}
	j.depArgs = append(j.depArgs, argv[0])
	args := argv[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "-o" {
			if i+1 < len(args) {
				i++
				j.Out = args[i]
			}
			continue
		}
		if strings.HasPrefix(arg, "-o") {
			j.Out = strings.TrimPrefix(arg, "-o")
			continue
		}
		j.depArgs = append(j.depArgs, arg)
	}
	return j, nil
}

func modTime(p string) (int64, bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return info.ModTime().UnixNano(), true, nil
}

// Outdated checks if the object needs to be compiled. It asks the
// compiler for the list of headers (-E -M -MM) and compares each with the
// object. When the compiler fails to list them, the object is outdated.
func (j *Job) Outdated() (bool, error) {
	if j.Out == "" {
		return true, nil
	}
	outTime, ok, err := modTime(j.Out)
	if err != nil {
		return false, errcode.Annotate(err, "stat output")
	}
	if !ok {
		return true, nil
	}

	args := append([]string{}, j.depArgs[1:]...)
	args = append(args, "-E", "-M", "-MM")
	cmd := exec.Command(j.depArgs[0], args...)
	cmd.Stderr = new(bytes.Buffer)
	out, err := cmd.Output()
	if err != nil {
		// Compile again; it reports the same error, reformatted.
		if _, ok := err.(*exec.ExitError); ok {
			return true, nil
		}
		return false, errcode.Annotate(err, "list dependencies")
	}

	for _, dep := range parseDeps(string(out)) {
		t, ok, err := modTime(dep)
		if err != nil {
			return false, errcode.Annotatef(err, "stat %q", dep)
		}
		if ok && t >= outTime {
			return true, nil
		}
	}
	return false, nil
}

// Compile runs the compiler, relays its reformatted output, and returns
// its exit code.
func (j *Job) Compile(stdout, stderr io.Writer) (int, error) {
	cmd := exec.Command(j.Args[0], j.Args[1:]...)
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.Stdout = outBuf
	cmd.Stderr = errBuf

	runErr := cmd.Run()
	io.WriteString(stdout, Reformat(outBuf.String()))
	io.WriteString(stderr, Reformat(errBuf.String()))

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, errcode.Annotate(runErr, "run compiler")
	}
	return 0, nil
}

// Run wraps the compiler command line in argv and returns the exit code
// for the wrapper process.
func Run(argv []string, stdout, stderr io.Writer) int {
	j, err := Parse(argv)
	if err != nil {
		io.WriteString(stderr, err.Error()+"\n")
		return -1
	}
	outdated, err := j.Outdated()
	if err != nil {
		io.WriteString(stderr, err.Error()+"\n")
		return -1
	}
	if !outdated {
		return 0
	}
	code, err := j.Compile(stdout, stderr)
	if err != nil {
		io.WriteString(stderr, err.Error()+"\n")
	}
	return code
}
