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
	"log"
	"sort"

	"github.com/gookit/color"
	"shanhu.io/misc/errcode"
)

// Configuration is a build pipeline: a named (configuration, platform)
// pair with its directories and the tools to run, in bucket order.
type Configuration struct {
	Name                  string
	Platform              string
	OutputDirectory       string
	IntermediateDirectory string

	tools []*ToolConfig // sorted by bucket
}

func newConfiguration(name, platform string) *Configuration {
	return &Configuration{Name: name, Platform: platform}
}

// FullName returns "Name|Platform".
func (c *Configuration) FullName() string {
	return c.Name + "|" + c.Platform
}

// addTool adds a tool binding. Buckets must be unique in a configuration.
func (c *Configuration) addTool(t *ToolConfig) error {
	for _, other := range c.tools {
		if other.Bucket == t.Bucket {
			return errcode.InvalidArgf(
				"tool %q and %q both in execution bucket %d",
				other.Name, t.Name, t.Bucket,
			)
		}
	}
	c.tools = append(c.tools, t)
	sort.SliceStable(c.tools, func(i, j int) bool {
		return c.tools[i].Bucket < c.tools[j].Bucket
	})
	return nil
}

// Tools returns the tool bindings in execution order.
func (c *Configuration) Tools() []*ToolConfig { return c.tools }

// prepare resolves the configuration's directories on top of the project
// scope. It does not change base, so it can be called any number of
// times.
func (c *Configuration) prepare(base *runScope) (*runScope, error) {
	run := *base
	run.configName = c.Name
	run.platformName = c.Platform
	run.intDir = ""
	run.outDir = ""
	run.intDirRel = ""
	run.outDirRel = ""

	s := newScope(&run)
	projDir := run.projectDir()

	intDir, err := s.expand(c.IntermediateDirectory)
	if err != nil {
		return nil, errcode.Annotate(err, "intermediate directory")
	}
	run.intDir = dirPath(absRelPath(intDir, projDir))
	run.intDirRel = relPath(run.intDir, projDir)

	outDir, err := s.expand(c.OutputDirectory)
	if err != nil {
		return nil, errcode.Annotate(err, "output directory")
	}
	run.outDir = dirPath(absRelPath(outDir, projDir))
	run.outDirRel = relPath(run.outDir, projDir)

	return &run, nil
}

func (c *Configuration) banner(ctx *buildContext, what string) {
	msg := fmt.Sprintf(
		"------ %s started: Project: %s, Configuration: %s ------",
		what, ctx.run.project.name, c.FullName(),
	)
	fmt.Fprintln(ctx.opts.stdout, color.Info.Sprint(msg))
}

// build runs every tool on the files matching its rule, bucket by bucket.
// A bucket selects its files only after the previous bucket returned, so
// it sees the outputs the previous buckets registered.
func (c *Configuration) build(ctx *buildContext) error {
	c.banner(ctx, "Build")
	for _, t := range c.tools {
		files := ctx.files.match(t.rule)
		log.Printf("bucket %d: %s on %d files", t.Bucket, t.Name, len(files))
		if err := t.build(ctx, files); err != nil {
			return err
		}
	}
	return nil
}

// clean removes the outputs of every tool, bucket by bucket.
func (c *Configuration) clean(ctx *buildContext) error {
	c.banner(ctx, "Clean")
	for _, t := range c.tools {
		files := ctx.files.match(t.rule)
		if err := t.clean(ctx, files); err != nil {
			return errcode.Annotatef(err, "clean %s", t.Name)
		}
	}
	return nil
}
