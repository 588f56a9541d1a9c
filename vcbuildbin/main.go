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
	"os"
	"strings"

	"shanhu.io/misc/subcmd"
)

func cmd() *subcmd.List {
	c := subcmd.New()
	c.Add("build", "builds a configuration (default)", cmdBuild)
	c.Add("clean", "removes the outputs of a configuration", cmdClean)
	c.Add("files", "lists the files of a project", cmdFiles)
	c.Add("cc", "runs a compiler through the wrapper", cmdCC)
	return c
}

// defaultArgs makes "build" the command when none is given.
func defaultArgs(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		ret := []string{args[0], "build"}
		return append(ret, args[1:]...)
	}
	return args
}

// Main is the entrance for the vcbuild binary.
func Main() {
	os.Args = defaultArgs(os.Args)
	cmd().Main()
}
