package vcbuild

import (
	"log"
	"path/filepath"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Project is a loaded project file: its rules, configurations and input
// files.
type Project struct {
	info    *fileVars
	rules   map[string]*Rule
	configs []*Configuration
	files   []string // absolute input files, in declaration order
}

// Dir returns the project directory, with a trailing separator.
func (p *Project) Dir() string { return p.info.dir }

// Name returns the project name, which is the project file name without
// its extension.
func (p *Project) Name() string { return p.info.name }

// Configs returns the configurations in declaration order.
func (p *Project) Configs() []*Configuration { return p.configs }

// Rule returns the rule of the given name, or nil if not loaded.
func (p *Project) Rule(name string) *Rule { return p.rules[name] }

type loader struct {
	file string
	proj *Project

	errList *lexing.ErrorList
}

func newLoader(file string) *loader {
	return &loader{
		file: file,
		proj: &Project{
			info:  newFileVars(file, "."),
			rules: make(map[string]*Rule),
		},
		errList: lexing.NewErrorList(),
	}
}

func (l *loader) pos(line, col int) *lexing.Pos {
	return &lexing.Pos{File: l.file, Line: line, Col: col}
}

func (l *loader) registerRule(f string, r *Rule) {
	if _, ok := l.proj.rules[r.Name]; ok {
		l.errList.Errorf(
			&lexing.Pos{File: f}, "rule %q redeclared", r.Name,
		)
		return
	}
	l.proj.rules[r.Name] = r
}

func (l *loader) loadRuleFile(rel string) {
	f := absRelPath(projectPath(rel), l.proj.Dir())
	log.Printf("loading tool file %s", f)
	rules, errs := readRuleFile(f)
	if errs != nil {
		l.errList.AddAll(errs)
		return
	}
	for _, r := range rules {
		l.registerRule(f, r)
	}
}

func (l *loader) loadConfig(entry *configEntry) {
	name, platform, ok := strings.Cut(entry.Name, "|")
	if !ok {
		l.errList.Errorf(
			l.pos(entry.line, entry.col),
			"configuration name %q is not Name|Platform", entry.Name,
		)
		return
	}

	c := newConfiguration(name, platform)
	c.OutputDirectory = entry.OutputDirectory
	c.IntermediateDirectory = entry.IntermediateDirectory

	for i, tool := range entry.Tools {
		pos := l.pos(tool.line, tool.col)
		name := tool.name()
		rule, ok := l.proj.rules[name]
		if !ok {
			l.errList.Errorf(pos, "tool %q not known", name)
			continue
		}
		t, err := newToolConfig(rule, tool.attrs, i+1)
		if err != nil {
			l.errList.Add(&lexing.Error{Pos: pos, Err: err})
			continue
		}
		if err := c.addTool(t); err != nil {
			l.errList.Add(&lexing.Error{Pos: pos, Err: err})
		}
	}
	l.proj.configs = append(l.proj.configs, c)
}

func (l *loader) load() {
	pf := new(projectFile)
	if err := decodeXMLFile(l.file, pf); err != nil {
		err = errcode.Annotate(err, "read project file")
		l.errList.Add(&lexing.Error{Pos: l.pos(0, 0), Err: err})
		return
	}

	for _, ref := range pf.ToolFiles {
		l.loadRuleFile(ref.RelativePath)
	}
	if l.errList.Errs() != nil {
		return
	}

	for _, c := range pf.Configurations {
		l.loadConfig(c)
	}

	dir := l.proj.Dir()
	pf.Files.walk(func(rel string) {
		f := absRelPath(projectPath(rel), dir)
		l.proj.files = append(l.proj.files, f)
	})
}

// LoadProject loads a project file and the rule files it references.
func LoadProject(file string) (*Project, []*lexing.Error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, lexing.SingleErr(errcode.Annotate(err, "project path"))
	}
	l := newLoader(abs)
	l.load()
	if errs := l.errList.Errs(); errs != nil {
		return nil, errs
	}
	return l.proj, nil
}
