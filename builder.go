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
	"io"
	"os"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Config provides the configuration to start a builder.
type Config struct {
	Project  string // Project file
	Settings string // Settings file, optional

	Stdout io.Writer // Tool output; defaults to os.Stdout
	Stderr io.Writer // Tool errors; defaults to os.Stderr

	// DryRun resolves every command and records it without running it.
	// Clean in a dry run records the files it would remove.
	DryRun bool
}

// Builder builds or cleans the configurations of a project.
type Builder struct {
	proj  *Project
	run   *runScope
	files *fileSet
	opts  *buildOpts

	invocations []*Invocation
}

// NewBuilder loads the project and creates a builder for it.
func NewBuilder(config *Config) (*Builder, []*lexing.Error) {
	proj, errs := LoadProject(config.Project)
	if errs != nil {
		return nil, errs
	}

	host, err := loadHostEnv(proj.Dir(), config.Settings)
	if err != nil {
		return nil, lexing.SingleErr(err)
	}

	opts := &buildOpts{
		stdout: config.Stdout,
		stderr: config.Stderr,
		dryRun: config.DryRun,
		run:    runJob,
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	files := newFileSet()
	for _, f := range proj.files {
		files.add(f)
	}

	return &Builder{
		proj:  proj,
		run:   &runScope{project: proj.info, host: host},
		files: files,
		opts:  opts,
	}, nil
}

// Project returns the loaded project.
func (b *Builder) Project() *Project { return b.proj }

// Config selects a configuration by "Name" or "Name|Platform". An empty
// name selects the first configuration.
func (b *Builder) Config(name string) (*Configuration, error) {
	configs := b.proj.configs
	if len(configs) == 0 {
		return nil, errcode.NotFoundf("project has no configuration")
	}
	if name == "" {
		return configs[0], nil
	}
	for _, c := range configs {
		if c.Name == name || c.FullName() == name {
			return c, nil
		}
	}
	return nil, errcode.NotFoundf("configuration %q not found", name)
}

func (b *Builder) context(c *Configuration) (*buildContext, error) {
	run, err := c.prepare(b.run)
	if err != nil {
		return nil, errcode.Annotatef(err, "prepare %s", c.FullName())
	}
	return &buildContext{
		run:   run,
		files: b.files,
		opts:  b.opts,
	}, nil
}

func (b *Builder) finish(ctx *buildContext) {
	b.invocations = append(b.invocations, ctx.invocations...)
}

// Build builds the configuration. It stops at the first failure; a
// failing tool is reported as a *ToolError.
func (b *Builder) Build(c *Configuration) error {
	ctx, err := b.context(c)
	if err != nil {
		return err
	}
	defer b.finish(ctx)
	return c.build(ctx)
}

// Clean removes the outputs of the configuration's tools.
func (b *Builder) Clean(c *Configuration) error {
	ctx, err := b.context(c)
	if err != nil {
		return err
	}
	defer b.finish(ctx)
	return c.clean(ctx)
}

// Files returns all files known to the builder, sorted.
func (b *Builder) Files() []string { return b.files.sorted() }

// Invocations returns what the builder has run or removed so far.
func (b *Builder) Invocations() []*Invocation { return b.invocations }
