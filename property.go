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
	"strings"

	"shanhu.io/misc/errcode"
)

// valuePlaceholder is replaced by the property value in a switch.
const valuePlaceholder = "[value]"

// Property is a typed attribute of a rule. It is one of *StringProperty,
// *EnumProperty or *BooleanProperty.
type Property interface {
	// Apply compiles a raw attribute value into a command line fragment.
	// An empty value means the attribute is not set.
	Apply(v string) (string, error)

	propName() string
	defaultValue() string
}

// StringProperty is a free form string switch, optionally a delimited
// list where each item gets its own switch.
type StringProperty struct {
	Name       string
	Switch     string
	Default    string
	Delimited  bool
	Delimiters string
}

func (p *StringProperty) propName() string     { return p.Name }
func (p *StringProperty) defaultValue() string { return p.Default }

// Apply implements Property.
func (p *StringProperty) Apply(v string) (string, error) {
	if v == "" {
		v = p.Default
	}
	if v == "" {
		return "", nil
	}

	sw := " " + p.Switch
	if !p.Delimited {
		return strings.ReplaceAll(sw, valuePlaceholder, v), nil
	}

	delims := p.Delimiters
	if delims == "" {
		delims = defaultDelimiters
	}
	var b strings.Builder
	for _, arg := range splitArgs(v, delims) {
		b.WriteString(strings.ReplaceAll(sw, valuePlaceholder, arg))
	}
	return b.String(), nil
}

const (
	defaultDelimiters = ";,"
	defaultEnumValue  = "0"
	defaultBoolValue  = "false"
)

// EnumProperty maps a symbolic value to a switch.
type EnumProperty struct {
	Name    string
	Default string
	Values  map[string]string // value => switch
}

func (p *EnumProperty) propName() string { return p.Name }

func (p *EnumProperty) defaultValue() string {
	if p.Default == "" {
		return defaultEnumValue
	}
	return p.Default
}

// Apply implements Property.
func (p *EnumProperty) Apply(v string) (string, error) {
	if v == "" {
		v = p.defaultValue()
	}
	sw, ok := p.Values[v]
	if !ok {
		return "", errcode.InvalidArgf(
			"enum property %q has no value %q", p.Name, v,
		)
	}
	if sw == "" {
		return "", nil
	}
	return " " + sw, nil
}

// BooleanProperty is a switch that is either on or off.
type BooleanProperty struct {
	Name    string
	Switch  string
	Default string
}

func (p *BooleanProperty) propName() string { return p.Name }

func (p *BooleanProperty) defaultValue() string {
	if p.Default == "" {
		return defaultBoolValue
	}
	return p.Default
}

// Apply implements Property. Only an explicit "true" turns the switch on;
// the declared default is not consulted.
func (p *BooleanProperty) Apply(v string) (string, error) {
	if v == "true" {
		return " " + p.Switch, nil
	}
	return "", nil
}

// splitArgs splits s on any of the separator characters. A double quote
// toggles a quoted run in which separators do not split; quotes are kept.
// Empty items are dropped.
func splitArgs(s, seps string) []string {
	var args []string
	quoted := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			quoted = !quoted
			continue
		}
		if quoted || strings.IndexByte(seps, c) < 0 {
			continue
		}
		if i > start {
			args = append(args, s[start:i])
		}
		start = i + 1
	}
	if start < len(s) {
		args = append(args, s[start:])
	}
	return args
}
