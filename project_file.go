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
	"encoding/xml"
)

type projectFile struct {
	XMLName        xml.Name        `xml:"VisualStudioProject"`
	Name           string          `xml:"Name,attr"`
	ToolFiles      []*toolFileRef  `xml:"ToolFiles>ToolFile"`
	Configurations []*configEntry  `xml:"Configurations>Configuration"`
	Files          *fileGroupEntry `xml:"Files"`
}

type toolFileRef struct {
	RelativePath string `xml:"RelativePath,attr"`
}

type configEntry struct {
	Name                  string       `xml:"Name,attr"`
	OutputDirectory       string       `xml:"OutputDirectory,attr"`
	IntermediateDirectory string       `xml:"IntermediateDirectory,attr"`
	Tools                 []*toolEntry `xml:"Tool"`

	line, col int
}

func (c *configEntry) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	c.line, c.col = d.InputPos()
	type plain configEntry
	return d.DecodeElement((*plain)(c), &start)
}

// toolEntry keeps all attributes of a Tool element in document order.
type toolEntry struct {
	attrs     []*attr
	line, col int
}

func (t *toolEntry) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	t.line, t.col = d.InputPos()
	for _, a := range start.Attr {
		t.attrs = append(t.attrs, &attr{name: a.Name.Local, value: a.Value})
	}
	return d.Skip()
}

func (t *toolEntry) name() string {
	for _, a := range t.attrs {
		if a.name == attrName {
			return a.value
		}
	}
	return ""
}

// fileGroupEntry is the Files element or a nested Filter element.
type fileGroupEntry struct {
	Filters []*fileGroupEntry `xml:"Filter"`
	Files   []*fileEntry      `xml:"File"`
}

type fileEntry struct {
	RelativePath string `xml:"RelativePath,attr"`
}

// walk visits the files in nested filters first, then the group's own
// files.
func (g *fileGroupEntry) walk(f func(rel string)) {
	if g == nil {
		return
	}
	for _, sub := range g.Filters {
		sub.walk(f)
	}
	for _, file := range g.Files {
		f(file.RelativePath)
	}
}
