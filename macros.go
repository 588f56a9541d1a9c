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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"shanhu.io/misc/errcode"
)

// batchListName is the response file handed out by $(BatchList).
const batchListName = "batchlist.rsp"

// batchList is the dynamic macro state of a single tool invocation.
type batchList struct {
	path   string
	used   bool
	full   bool
	dryRun bool // resolve the path only, touch nothing
}

type dynamicMacro func(s *scope) (string, error)

// dynamicMacros is the closed set of macros that have side effects.
var dynamicMacros = map[string]dynamicMacro{
	"BatchList":     func(s *scope) (string, error) { return s.batchList(false) },
	"BatchListFull": func(s *scope) (string, error) { return s.batchList(true) },
}

func (s *scope) batchList(full bool) (string, error) {
	dir := s.run.intDir
	if dir == "" {
		return "", errcode.InvalidArgf("no intermediate directory for batch list")
	}
	b := s.batch
	if b == nil || !b.dryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errcode.Annotate(err, "make intermediate directory")
		}
	}
	p := filepath.Join(dir, batchListName)
	if b != nil {
		b.path = p
		b.used = true
		if full {
			b.full = true
		}
	}
	return p, nil
}

func (s *scope) resolve(name string) (string, error) {
	if m, ok := dynamicMacros[name]; ok {
		return m(s)
	}
	if v, ok := s.value(name); ok {
		return v, nil
	}
	if h := s.run.host; h != nil {
		if v, ok := h.get(name); ok {
			return v, nil
		}
	}
	return "", errcode.NotFoundf("macro $(%s) not defined", name)
}

var macroPattern = regexp.MustCompile(`\$\((.*?)\)`)

// expand replaces every $(Name) in str. It fails on the first name that
// cannot be resolved.
func (s *scope) expand(str string) (string, error) {
	if !strings.Contains(str, "$(") {
		return str, nil
	}

	var err error
	ret := macroPattern.ReplaceAllStringFunc(str, func(m string) string {
		if err != nil {
			return m
		}
		name := m[2 : len(m)-1]
		v, e := s.resolve(name)
		if e != nil {
			err = e
			return m
		}
		return v
	})
	if err != nil {
		return "", err
	}
	return ret, nil
}

// argTable holds the [Name] arguments of one tool invocation.
type argTable map[string]string

var argPattern = regexp.MustCompile(`\[(.*?)\]`)

// with returns a copy of the table with one more entry.
func (t argTable) with(k, v string) argTable {
	cp := make(argTable, len(t)+1)
	for name, value := range t {
		cp[name] = value
	}
	cp[k] = v
	return cp
}

// expand replaces every known [Name] in s. Unknown names are left as
// they are.
func (t argTable) expand(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}
	return argPattern.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := t[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// expandArgs expands the [Name] arguments first, then the $(Name) macros
// of the result.
func expandArgs(s *scope, args argTable, str string) (string, error) {
	return s.expand(args.expand(str))
}
