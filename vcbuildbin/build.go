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

package vcbuildbin

import (
	"errors"
	"os"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonutil"
	"shanhu.io/text/lexing"
	"shanhu.io/vcbuild"
)

func newBuilder(f *projectFlags) (*vcbuild.Builder, error) {
	p, err := projectFile(f.config.Project)
	if err != nil {
		return nil, err
	}
	f.config.Project = p

	wd, err := os.Getwd()
	if err != nil {
		return nil, errcode.Annotate(err, "get work dir")
	}

	b, errs := vcbuild.NewBuilder(f.config)
	if errs != nil {
		lexing.FprintErrs(os.Stderr, errs, wd)
		return nil, errcode.InvalidArgf("load project got %d errors", len(errs))
	}
	return b, nil
}

// exitOnToolError exits with the tool's status if err is a tool failure.
func exitOnToolError(err error) error {
	toolErr := new(vcbuild.ToolError)
	if errors.As(err, &toolErr) {
		os.Exit(toolErr.ExitCode)
	}
	return err
}

func cmdBuild(args []string) error {
	f := &projectFlags{config: new(vcbuild.Config)}
	flags := cmdFlags.New()
	declareProjectFlags(flags, f)
	flags.BoolVar(
		&f.config.DryRun, "dry", false,
		"print the commands without running them",
	)
	var report string
	flags.StringVar(&report, "report", "", "write the commands run as JSON")
	flags.ParseArgs(args)

	b, err := newBuilder(f)
	if err != nil {
		return err
	}
	c, err := b.Config(f.name)
	if err != nil {
		return err
	}

	buildErr := b.Build(c)
	if report != "" {
		if err := jsonutil.WriteFile(report, b.Invocations()); err != nil {
			return errcode.Annotate(err, "write report")
		}
	}
	if buildErr != nil {
		return exitOnToolError(buildErr)
	}
	return nil
}

func cmdClean(args []string) error {
	f := &projectFlags{config: new(vcbuild.Config)}
	flags := cmdFlags.New()
	declareProjectFlags(flags, f)
	flags.BoolVar(
		&f.config.DryRun, "dry", false,
		"print the files to remove without removing them",
	)
	flags.ParseArgs(args)

	b, err := newBuilder(f)
	if err != nil {
		return err
	}
	c, err := b.Config(f.name)
	if err != nil {
		return err
	}
	if err := b.Clean(c); err != nil {
		return exitOnToolError(err)
	}
	return nil
}
