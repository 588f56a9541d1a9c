package vcbuild

import (
	"io"
	"os"
	"strings"

	"shanhu.io/misc/errcode"
)

type buildOpts struct {
	stdout io.Writer
	stderr io.Writer
	dryRun bool

	// run executes a job. It is runJob unless replaced in tests.
	run func(j *execJob) error
}

// Invocation records one action taken for a tool binding: either a
// command run (or that would run, in a dry run), or an output removed by
// clean.
type Invocation struct {
	Tool    string
	Bucket  int
	Dir     string   `json:",omitempty"`
	Command string   `json:",omitempty"`
	Inputs  []string `json:",omitempty"`
	Remove  string   `json:",omitempty"`
}

// buildContext is the state shared by the buckets of one build or clean.
// Buckets run one after another; nothing here is safe for concurrent use.
type buildContext struct {
	run   *runScope
	files *fileSet
	opts  *buildOpts

	invocations []*Invocation
}

func (c *buildContext) scope() *scope { return newScope(c.run) }

func (c *buildContext) record(inv *Invocation) {
	c.invocations = append(c.invocations, inv)
}

// invocation is one command to run for a tool.
type invocation struct {
	tool  *ToolConfig
	scope *scope
	args  argTable
	all   []string // all candidate files
	stale []string // files that are out of date
}

func writeBatchList(b *batchList, files []string, projDir string) error {
	var lines []string
	for _, f := range files {
		lines = append(lines, `"`+relPath(f, projDir)+`"`)
	}
	content := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(b.path, []byte(content), 0644)
}

func (c *buildContext) invoke(inv *invocation) error {
	rule := inv.tool.rule
	batch := &batchList{dryRun: c.opts.dryRun}
	s := inv.scope.withBatch(batch)
	line, err := expandArgs(s, inv.args, rule.CommandLine)
	if err != nil {
		return errcode.Annotatef(err, "command line of %q", rule.Name)
	}

	projDir := c.run.projectDir()
	if batch.used && !c.opts.dryRun {
		files := inv.stale
		if batch.full {
			files = inv.all
		}
		if err := writeBatchList(batch, files, projDir); err != nil {
			return errcode.Annotate(err, "write batch list")
		}
	}

	var inputs []string
	for _, f := range inv.all {
		inputs = append(inputs, relPath(f, projDir))
	}
	c.record(&Invocation{
		Tool:    inv.tool.Name,
		Bucket:  inv.tool.Bucket,
		Dir:     projDir,
		Command: line,
		Inputs:  inputs,
	})
	if c.opts.dryRun {
		return nil
	}

	return c.opts.run(&execJob{
		dir:    projDir,
		line:   line,
		env:    c.run.host.vars(),
		stdout: c.opts.stdout,
		stderr: c.opts.stderr,
	})
}
