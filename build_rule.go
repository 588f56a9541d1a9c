package vcbuild

import (
	"regexp"
	"runtime"
	"strings"

	"shanhu.io/misc/errcode"
)

// outputFileProp is the property that, when set, overrides a rule's
// output template.
const outputFileProp = "OutputFile"

// Rule is a custom build rule. It maps input files with matching
// extensions to a command line and the outputs the command produces.
// A rule is immutable once compiled.
type Rule struct {
	Name                 string
	FileExtensions       string // glob list separated by ';'
	CommandLine          string
	Outputs              string
	ExecutionDescription string
	SupportsFileBatching bool
	BatchingSeparator    string
	Properties           []Property

	exts  *regexp.Regexp
	props map[string]Property
}

func compileExtensions(globs string) (*regexp.Regexp, error) {
	var alts []string
	for _, g := range strings.Split(globs, ";") {
		q := regexp.QuoteMeta(strings.TrimSpace(g))
		q = strings.ReplaceAll(q, `\?`, ".")
		q = strings.ReplaceAll(q, `\*`, ".*")
		alts = append(alts, q)
	}
	pat := "^(?:" + strings.Join(alts, "|") + ")$"
	if runtime.GOOS == "windows" {
		pat = "(?i)" + pat
	}
	return regexp.Compile(pat)
}

// compile prepares the rule for use. It must be called once after the
// rule is decoded.
func (r *Rule) compile() error {
	if r.Name == "" {
		return errcode.InvalidArgf("rule has no name")
	}
	exts, err := compileExtensions(r.FileExtensions)
	if err != nil {
		return errcode.Annotatef(err, "file extensions of %q", r.Name)
	}
	r.exts = exts

	r.props = make(map[string]Property)
	for _, p := range r.Properties {
		name := p.propName()
		if name == "" {
			return errcode.InvalidArgf("rule %q has unnamed property", r.Name)
		}
		r.props[name] = p
	}
	return nil
}

// Match checks if the file name of p matches the rule's extensions.
func (r *Rule) Match(p string) bool {
	return r.exts.MatchString(baseName(p))
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

func (r *Rule) property(name string) Property { return r.props[name] }

// rawArgs builds the argument table with only the raw attribute values,
// $Name, and the additional options. No property is applied.
func (r *Rule) rawArgs(attrs map[string]string, extra string) argTable {
	args := make(argTable)
	for _, p := range r.Properties {
		name := p.propName()
		if v := attrs[name]; v != "" {
			args["$"+name] = v
		} else {
			args["$"+name] = p.defaultValue()
		}
	}
	args["AdditionalOptions"] = extra
	return args
}

// compileArgs builds the argument table for an invocation from the
// tool's attribute values. Inputs is set per invocation.
func (r *Rule) compileArgs(attrs map[string]string, extra string) (
	argTable, error,
) {
	args := r.rawArgs(attrs, extra)
	var all strings.Builder
	for _, p := range r.Properties {
		name := p.propName()
		frag, err := p.Apply(attrs[name])
		if err != nil {
			return nil, err
		}
		args[name] = frag
		all.WriteString(frag)
	}
	args["AllOptions"] = all.String()
	return args, nil
}

// outputTemplate returns the template of the output paths. An OutputFile
// value, or the OutputFile property's default, overrides the rule's
// Outputs.
func (r *Rule) outputTemplate(attrs map[string]string) string {
	if p := r.property(outputFileProp); p != nil {
		v := attrs[outputFileProp]
		if v == "" {
			v = p.defaultValue()
		}
		if v != "" {
			return v
		}
	}
	return r.Outputs
}

// outputs resolves the absolute output paths for the input file of the
// scope.
func (r *Rule) outputs(s *scope, args argTable, attrs map[string]string) (
	[]string, error,
) {
	outs, err := expandArgs(s, args, r.outputTemplate(attrs))
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, seg := range splitArgs(outs, ";") {
		seg = strings.TrimSpace(strings.ReplaceAll(seg, `"`, ""))
		if seg == "" {
			continue
		}
		ret = append(ret, absRelPath(seg, s.run.projectDir()))
	}
	return ret, nil
}
