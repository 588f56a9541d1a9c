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
	"os"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
)

// staleSet keeps the stale input files of a rule in the order they are
// found.
type staleSet struct {
	list []string
	m    map[string]bool
}

func newStaleSet() *staleSet {
	return &staleSet{m: make(map[string]bool)}
}

func (s *staleSet) add(f string) {
	if s.m[f] {
		return
	}
	s.m[f] = true
	s.list = append(s.list, f)
}

func (s *staleSet) has(f string) bool { return s.m[f] }

// checkStale resolves the outputs of every file, registers them into the
// file set, and returns the files that need to be rebuilt.
func (r *Rule) checkStale(
	ctx *buildContext, t *ToolConfig, args argTable, files []string,
) (*staleSet, error) {
	stale := newStaleSet()
	projDir := ctx.run.projectDir()
	for _, f := range files {
		s := ctx.scope().withInput(newFileVars(f, projDir))

		in, err := newFileStat(f)
		if err != nil {
			// In a dry run, inputs made by earlier buckets do not exist.
			if !ctx.opts.dryRun || !errcode.IsNotFound(err) {
				return nil, errcode.Annotatef(err, "stat input %q", f)
			}
			stale.add(f)
		}

		outs, err := r.outputs(s, args, t.Attrs)
		if err != nil {
			return nil, errcode.Annotatef(err, "outputs of %q", f)
		}
		for _, out := range outs {
			if !stale.has(f) {
				old, err := outdated(in, out)
				if err != nil {
					return nil, err
				}
				if old {
					stale.add(f)
				}
			}
			ctx.files.add(out)
		}
	}
	return stale, nil
}

// build runs the rule on the matched files of a tool binding.
func (r *Rule) build(ctx *buildContext, t *ToolConfig, files []string) error {
	if len(files) == 0 {
		return nil
	}

	args, err := r.compileArgs(t.Attrs, t.AdditionalOptions)
	if err != nil {
		return errcode.Annotatef(err, "compile options of %q", r.Name)
	}

	stale, err := r.checkStale(ctx, t, args, files)
	if err != nil {
		return err
	}

	if r.SupportsFileBatching {
		return r.runBatch(ctx, t, args, files, stale)
	}
	return r.runEach(ctx, t, args, files, stale)
}

// runBatch invokes the command once for all files when any of them is
// stale. The command gets every file, not only the stale ones.
func (r *Rule) runBatch(
	ctx *buildContext, t *ToolConfig, args argTable,
	files []string, stale *staleSet,
) error {
	if len(stale.list) == 0 {
		return nil
	}

	projDir := ctx.run.projectDir()
	var quoted []string
	for _, f := range files {
		quoted = append(quoted, `"`+relPath(f, projDir)+`"`)
	}
	sep := r.BatchingSeparator
	if sep == "" {
		sep = " "
	}

	// The last file stays the active input, as it is the last one
	// whose outputs were resolved.
	last := files[len(files)-1]
	return ctx.invoke(&invocation{
		tool:  t,
		scope: ctx.scope().withInput(newFileVars(last, projDir)),
		args:  args.with("Inputs", strings.Join(quoted, sep)),
		all:   files,
		stale: stale.list,
	})
}

// runEach invokes the command once for every stale file.
func (r *Rule) runEach(
	ctx *buildContext, t *ToolConfig, args argTable,
	files []string, stale *staleSet,
) error {
	projDir := ctx.run.projectDir()
	for _, f := range files {
		if !stale.has(f) {
			continue
		}

		s := ctx.scope().withInput(newFileVars(f, projDir))
		a := args.with("Inputs", relPath(f, projDir))

		// Descriptions take [Name] arguments like the command line does.
		// An empty one prints nothing, not a blank line.
		desc, err := expandArgs(s, a, r.ExecutionDescription)
		if err != nil {
			return errcode.Annotatef(err, "description for %q", f)
		}
		if desc != "" {
			fmt.Fprintln(ctx.opts.stdout, desc)
		}

		if err := ctx.invoke(&invocation{
			tool:  t,
			scope: s,
			args:  a,
			all:   []string{f},
			stale: []string{f},
		}); err != nil {
			return err
		}
	}
	return nil
}

// clean removes the outputs of the files. The tool is never invoked.
func (r *Rule) clean(ctx *buildContext, t *ToolConfig, files []string) error {
	if len(files) == 0 {
		return nil
	}

	// Nothing runs, so properties are not applied; output templates see
	// the raw values only.
	args := r.rawArgs(t.Attrs, t.AdditionalOptions)

	projDir := ctx.run.projectDir()
	for _, f := range files {
		s := ctx.scope().withInput(newFileVars(f, projDir))
		outs, err := r.outputs(s, args, t.Attrs)
		if err != nil {
			return errcode.Annotatef(err, "outputs of %q", f)
		}
		for _, out := range outs {
			ctx.files.add(out)

			exists, err := osutil.IsRegular(out)
			if err != nil {
				return errcode.Annotatef(err, "check %q", out)
			}
			if !exists {
				continue
			}
			if !ctx.opts.dryRun {
				if err := os.Remove(out); err != nil {
					return errcode.Annotatef(err, "remove %q", out)
				}
			}
			ctx.record(&Invocation{
				Tool:   t.Name,
				Bucket: t.Bucket,
				Remove: out,
			})
		}
	}
	return nil
}
