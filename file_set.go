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
	"path/filepath"

	"shanhu.io/misc/strutil"
)

// fileSet is the set of all files known to a run: the project's input
// files plus every output resolved by a tool so far. It keeps insertion
// order and only grows.
type fileSet struct {
	list []string
	m    map[string]bool
}

func newFileSet() *fileSet {
	return &fileSet{m: make(map[string]bool)}
}

func fileSetKey(p string) string {
	return normCase(filepath.Clean(p))
}

// add registers an absolute path. It returns false if the file is already
// in the set.
func (s *fileSet) add(p string) bool {
	k := fileSetKey(p)
	if s.m[k] {
		return false
	}
	s.m[k] = true
	s.list = append(s.list, k)
	return true
}

func (s *fileSet) has(p string) bool { return s.m[fileSetKey(p)] }

func (s *fileSet) len() int { return len(s.list) }

// files returns a snapshot of the set in insertion order.
func (s *fileSet) files() []string {
	ret := make([]string, len(s.list))
	copy(ret, s.list)
	return ret
}

func (s *fileSet) sorted() []string { return strutil.SortedList(s.m) }

// match selects the files whose names match the rule's extensions. The
// selection is taken from the set as it is now; files added later are
// not included.
func (s *fileSet) match(r *Rule) []string {
	var matched []string
	for _, f := range s.list {
		if r.Match(f) {
			matched = append(matched, f)
		}
	}
	return matched
}
