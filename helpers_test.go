package vcbuild

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// baseTime is in the past, so that files touched by tests are ordered.
var baseTime = time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

func at(sec int) time.Time { return baseTime.Add(time.Duration(sec) * time.Second) }

func writeFile(t *testing.T, p string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(filepath.Base(p)), 0644))
	require.NoError(t, os.Chtimes(p, mtime, mtime))
}

func emptyHost() *hostEnv {
	return &hostEnv{
		overlay: make(map[string]string),
		lookup:  func(string) (string, bool) { return "", false },
		environ: func() []string { return nil },
	}
}

// recorder records jobs instead of running them. A job whose command line
// ends with "-o <file>" creates that file at the recorder's clock, which
// then ticks one second.
type recorder struct {
	jobs  []*execJob
	clock time.Time
	fail  map[string]int // command prefix => exit code
}

func newRecorder() *recorder {
	return &recorder{clock: at(3600)}
}

func (r *recorder) run(j *execJob) error {
	r.jobs = append(r.jobs, j)
	for prefix, code := range r.fail {
		if strings.HasPrefix(j.line, prefix) {
			return &ToolError{Command: j.line, ExitCode: code}
		}
	}

	fields := strings.Fields(j.line)
	n := len(fields)
	if n >= 2 && fields[n-2] == "-o" {
		out := absRelPath(fields[n-1], j.dir)
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(out, nil, 0644); err != nil {
			return err
		}
		if err := os.Chtimes(out, r.clock, r.clock); err != nil {
			return err
		}
		r.clock = r.clock.Add(time.Second)
	}
	return nil
}

func (r *recorder) lines() []string {
	var lines []string
	for _, j := range r.jobs {
		lines = append(lines, j.line)
	}
	return lines
}

type testEnv struct {
	dir  string
	run  *runScope
	rec  *recorder
	opts *buildOpts
	out  *strings.Builder
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()
	rec := newRecorder()
	out := new(strings.Builder)
	return &testEnv{
		dir: dir,
		run: &runScope{
			project: newFileVars(filepath.Join(dir, "hello.proj"), "."),
			host:    emptyHost(),
		},
		rec: rec,
		opts: &buildOpts{
			stdout: out,
			stderr: io.Discard,
			run:    rec.run,
		},
		out: out,
	}
}

func (e *testEnv) path(rel string) string {
	return filepath.Join(e.dir, filepath.FromSlash(rel))
}

func (e *testEnv) context(t *testing.T, c *Configuration, files *fileSet) *buildContext {
	t.Helper()
	run, err := c.prepare(e.run)
	require.NoError(t, err)
	return &buildContext{run: run, files: files, opts: e.opts}
}

func (e *testEnv) fileSet(rels ...string) *fileSet {
	s := newFileSet()
	for _, rel := range rels {
		s.add(e.path(rel))
	}
	return s
}

func testConfig() *Configuration {
	c := newConfiguration("Debug", "ARM")
	c.IntermediateDirectory = "obj"
	c.OutputDirectory = "bin"
	return c
}

func mustRule(t *testing.T, r *Rule) *Rule {
	t.Helper()
	require.NoError(t, r.compile())
	return r
}

func mustTool(t *testing.T, r *Rule, bucket int, attrs ...*attr) *ToolConfig {
	t.Helper()
	tool, err := newToolConfig(r, attrs, bucket)
	require.NoError(t, err)
	return tool
}

func ccRule(t *testing.T) *Rule {
	return mustRule(t, &Rule{
		Name:                 "cc",
		FileExtensions:       "*.c;*.cpp",
		CommandLine:          "cc[AllOptions] -c [Inputs] -o $(IntDir)/$(InputName).o",
		Outputs:              "$(IntDir)/$(InputName).o",
		ExecutionDescription: "Compiling $(InputFileName)",
		Properties: []Property{
			&BooleanProperty{Name: "Warnings", Switch: "-Wall"},
			&EnumProperty{
				Name:    "Debug",
				Default: "0",
				Values:  map[string]string{"0": "", "1": "-g"},
			},
		},
	})
}

func ldRule(t *testing.T) *Rule {
	return mustRule(t, &Rule{
		Name:                 "ld",
		FileExtensions:       "*.o",
		CommandLine:          "ld [Inputs] -o $(OutDir)/$(ProjectName).elf",
		Outputs:              "$(OutDir)/$(ProjectName).elf",
		SupportsFileBatching: true,
	})
}
