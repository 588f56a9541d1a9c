package vcbuild

import (
	"encoding/xml"
	"io"
	"os"

	"golang.org/x/text/encoding/htmlindex"
	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

type ruleFile struct {
	XMLName xml.Name     `xml:"VisualStudioToolFile"`
	Name    string       `xml:"Name,attr"`
	Rules   []*ruleEntry `xml:"Rules>CustomBuildRule"`
}

type ruleEntry struct {
	Name                 string       `xml:"Name,attr"`
	FileExtensions       string       `xml:"FileExtensions,attr"`
	CommandLine          string       `xml:"CommandLine,attr"`
	Outputs              string       `xml:"Outputs,attr"`
	ExecutionDescription string       `xml:"ExecutionDescription,attr"`
	SupportsFileBatching string       `xml:"SupportsFileBatching,attr"`
	BatchingSeparator    string       `xml:"BatchingSeparator,attr"`
	Properties           propertyList `xml:"Properties"`

	line, col int
}

func (r *ruleEntry) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.line, r.col = d.InputPos()
	type plain ruleEntry
	return d.DecodeElement((*plain)(r), &start)
}

func (r *ruleEntry) rule() *Rule {
	return &Rule{
		Name:                 r.Name,
		FileExtensions:       r.FileExtensions,
		CommandLine:          r.CommandLine,
		Outputs:              r.Outputs,
		ExecutionDescription: r.ExecutionDescription,
		SupportsFileBatching: r.SupportsFileBatching == "true",
		BatchingSeparator:    r.BatchingSeparator,
		Properties:           r.Properties,
	}
}

// propertyList decodes the children of a Properties element. The element
// name selects the kind of the property.
type propertyList []Property

func (l *propertyList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p, err := decodeProperty(d, &t)
			if err != nil {
				return err
			}
			*l = append(*l, p)
		case xml.EndElement:
			return nil
		}
	}
}

type stringPropertyEntry struct {
	Name         string `xml:"Name,attr"`
	Switch       string `xml:"Switch,attr"`
	DefaultValue string `xml:"DefaultValue,attr"`
	Delimited    string `xml:"Delimited,attr"`
	Delimiters   string `xml:"Delimiters,attr"`
}

type enumValueEntry struct {
	Value  string `xml:"Value,attr"`
	Switch string `xml:"Switch,attr"`
}

type enumPropertyEntry struct {
	Name         string            `xml:"Name,attr"`
	DefaultValue string            `xml:"DefaultValue,attr"`
	Values       []*enumValueEntry `xml:"Values>EnumValue"`
}

type booleanPropertyEntry struct {
	Name         string `xml:"Name,attr"`
	Switch       string `xml:"Switch,attr"`
	DefaultValue string `xml:"DefaultValue,attr"`
}

func decodeProperty(d *xml.Decoder, start *xml.StartElement) (
	Property, error,
) {
	switch kind := start.Name.Local; kind {
	case "StringProperty":
		e := new(stringPropertyEntry)
		if err := d.DecodeElement(e, start); err != nil {
			return nil, err
		}
		delims := e.Delimiters
		if delims == "" {
			delims = defaultDelimiters
		}
		return &StringProperty{
			Name:       e.Name,
			Switch:     e.Switch,
			Default:    e.DefaultValue,
			Delimited:  e.Delimited == "true",
			Delimiters: delims,
		}, nil
	case "EnumProperty":
		e := new(enumPropertyEntry)
		if err := d.DecodeElement(e, start); err != nil {
			return nil, err
		}
		values := make(map[string]string)
		for _, v := range e.Values {
			value := v.Value
			if value == "" {
				value = defaultEnumValue
			}
			values[value] = v.Switch
		}
		def := e.DefaultValue
		if def == "" {
			def = defaultEnumValue
		}
		return &EnumProperty{
			Name:    e.Name,
			Default: def,
			Values:  values,
		}, nil
	case "BooleanProperty":
		e := new(booleanPropertyEntry)
		if err := d.DecodeElement(e, start); err != nil {
			return nil, err
		}
		def := e.DefaultValue
		if def == "" {
			def = defaultBoolValue
		}
		return &BooleanProperty{
			Name:    e.Name,
			Switch:  e.Switch,
			Default: def,
		}, nil
	default:
		return nil, errcode.InvalidArgf("unknown property kind %q", kind)
	}
}

// charsetReader decodes the legacy code pages project files are saved
// in, usually Windows-1252.
func charsetReader(label string, r io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errcode.InvalidArgf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(r), nil
}

func decodeXMLFile(f string, v interface{}) error {
	r, err := os.Open(f)
	if err != nil {
		return err
	}
	defer r.Close()

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return dec.Decode(v)
}

// readRuleFile reads the rules of a rule file and compiles them.
func readRuleFile(f string) ([]*Rule, []*lexing.Error) {
	rf := new(ruleFile)
	if err := decodeXMLFile(f, rf); err != nil {
		err = errcode.Annotatef(err, "read rule file %q", f)
		return nil, []*lexing.Error{{Pos: &lexing.Pos{File: f}, Err: err}}
	}

	errList := lexing.NewErrorList()
	var rules []*Rule
	for _, entry := range rf.Rules {
		pos := &lexing.Pos{File: f, Line: entry.line, Col: entry.col}
		r := entry.rule()
		if err := r.compile(); err != nil {
			errList.Add(&lexing.Error{Pos: pos, Err: err})
			continue
		}
		rules = append(rules, r)
	}
	if errs := errList.Errs(); errs != nil {
		return nil, errs
	}
	return rules, nil
}
