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
	"time"

	"shanhu.io/misc/errcode"
)

type fileStat struct {
	name    string
	modTime time.Time
}

func newFileStat(p string) (*fileStat, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errcode.NotFoundf("%s not found", p)
		}
		return nil, err
	}
	return &fileStat{
		name:    p,
		modTime: info.ModTime(),
	}, nil
}

// outdated checks if output out needs to be regenerated from the input
// in. A missing output is outdated. An output is only up to date when it
// is modified strictly after the input; equal timestamps count as
// outdated.
func outdated(in *fileStat, out string) (bool, error) {
	stat, err := newFileStat(out)
	if err != nil {
		if errcode.IsNotFound(err) {
			return true, nil
		}
		return false, errcode.Annotatef(err, "stat output %q", out)
	}
	return !stat.modTime.After(in.modTime), nil
}
