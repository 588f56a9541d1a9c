package vcbuild

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fileVars decomposes a file path into the macros a rule can reference.
// The directory keeps its trailing separator.
type fileVars struct {
	dir      string
	ext      string
	name     string
	fileName string
	path     string
}

func newFileVars(p, rel string) *fileVars {
	abs := absRelPath(p, rel)
	dir, fileName := filepath.Split(abs)
	ext := filepath.Ext(fileName)
	return &fileVars{
		dir:      dir,
		ext:      ext,
		name:     strings.TrimSuffix(fileName, ext),
		fileName: fileName,
		path:     abs,
	}
}

// hostEnv is the process environment, overlaid with values from the
// settings file and the project's .env file.
type hostEnv struct {
	overlay map[string]string
	lookup  func(string) (string, bool)
	environ func() []string
}

func newHostEnv(overlay map[string]string) *hostEnv {
	if overlay == nil {
		overlay = make(map[string]string)
	}
	return &hostEnv{
		overlay: overlay,
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

func (h *hostEnv) get(name string) (string, bool) {
	if v, ok := h.overlay[name]; ok {
		return v, true
	}
	if h.lookup == nil {
		return "", false
	}
	return h.lookup(name)
}

// vars returns the environment for child processes, or nil if the child
// can simply inherit the process environment.
func (h *hostEnv) vars() []string {
	if len(h.overlay) == 0 {
		return nil
	}

	var ret []string
	for _, kv := range h.environ() {
		k := kv
		if i := strings.Index(kv, "="); i > 0 {
			k = kv[:i]
		}
		if _, ok := h.overlay[k]; ok {
			continue
		}
		ret = append(ret, kv)
	}

	var keys []string
	for k := range h.overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ret = append(ret, k+"="+h.overlay[k])
	}
	return ret
}

// runScope holds the run-wide macro values: the project, and after a
// configuration is prepared, its names and directories.
type runScope struct {
	project *fileVars
	host    *hostEnv

	configName   string
	platformName string

	intDir    string // absolute, with trailing separator
	outDir    string // absolute, with trailing separator
	intDirRel string
	outDirRel string
}

func (r *runScope) projectDir() string { return r.project.dir }

// scope is the macro scope for one resolution: the run scope plus at most
// one active input file. Scopes are values; withInput returns a copy.
type scope struct {
	run   *runScope
	input *fileVars
	batch *batchList
}

func newScope(run *runScope) *scope { return &scope{run: run} }

func (s *scope) withInput(f *fileVars) *scope {
	cp := *s
	cp.input = f
	return &cp
}

func (s *scope) withBatch(b *batchList) *scope {
	cp := *s
	cp.batch = b
	return &cp
}

func (s *scope) value(name string) (string, bool) {
	if in := s.input; in != nil {
		switch name {
		case "InputDir":
			return in.dir, true
		case "InputExt":
			return in.ext, true
		case "InputName":
			return in.name, true
		case "InputFileName":
			return in.fileName, true
		case "InputPath":
			return in.path, true
		}
	}

	run := s.run
	if p := run.project; p != nil {
		switch name {
		case "ProjectDir":
			return p.dir, true
		case "ProjectExt":
			return p.ext, true
		case "ProjectName":
			return p.name, true
		case "ProjectFileName":
			return p.fileName, true
		case "ProjectPath":
			return p.path, true
		}
	}

	if run.configName != "" {
		switch name {
		case "ConfigurationName":
			return run.configName, true
		case "PlatformName":
			return run.platformName, true
		}
	}
	if run.intDir != "" {
		switch name {
		case "IntermediateDirectory":
			return run.intDir, true
		case "IntDir":
			return run.intDirRel, true
		}
	}
	if run.outDir != "" {
		switch name {
		case "OutputDirectory":
			return run.outDir, true
		case "OutDir":
			return run.outDirRel, true
		}
	}
	return "", false
}
