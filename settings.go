package vcbuild

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonx"
	"shanhu.io/misc/osutil"
)

// Settings is the structure of the vcbuild.jsonx file. It sets up the
// host environment the tools run in.
type Settings struct {
	// Environment variables to set or override.
	Env map[string]string `json:",omitempty"`

	// Directories appended to PATH.
	Path []string `json:",omitempty"`
}

// Default names of the optional files read from the project directory.
const (
	settingsFile = "vcbuild.jsonx"
	dotEnvFile   = ".env"
)

// ReadSettings reads in a settings file.
func ReadSettings(f string) (*Settings, error) {
	s := new(Settings)
	if err := jsonx.ReadFile(f, s); err != nil {
		return nil, err
	}
	return s, nil
}

func readOptionalSettings(f string) (*Settings, error) {
	ok, err := osutil.IsRegular(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return ReadSettings(f)
}

func readDotEnv(f string) (map[string]string, error) {
	ok, err := osutil.IsRegular(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return godotenv.Read(f)
}

// hostOverlay merges the settings over the .env values. lookup reads the
// process environment, for extending PATH.
func hostOverlay(
	s *Settings, dotEnv map[string]string,
	lookup func(string) (string, bool),
) map[string]string {
	m := make(map[string]string)
	for k, v := range dotEnv {
		m[k] = v
	}
	if s == nil {
		return m
	}
	for k, v := range s.Env {
		m[k] = v
	}
	if len(s.Path) > 0 {
		p, ok := m["PATH"]
		if !ok {
			p, _ = lookup("PATH")
		}
		parts := []string{}
		if p != "" {
			parts = append(parts, p)
		}
		parts = append(parts, s.Path...)
		m["PATH"] = strings.Join(parts, string(os.PathListSeparator))
	}
	return m
}

// loadHostEnv builds the host environment of a project. settings is the
// settings file to use; when empty, vcbuild.jsonx in the project
// directory is used if it exists.
func loadHostEnv(projDir, settings string) (*hostEnv, error) {
	var s *Settings
	if settings != "" {
		read, err := ReadSettings(settings)
		if err != nil {
			return nil, errcode.Annotate(err, "read settings")
		}
		s = read
	} else {
		read, err := readOptionalSettings(filepath.Join(projDir, settingsFile))
		if err != nil {
			return nil, errcode.Annotate(err, "read settings")
		}
		s = read
	}

	dotEnv, err := readDotEnv(filepath.Join(projDir, dotEnvFile))
	if err != nil {
		return nil, errcode.Annotate(err, "read .env")
	}

	h := newHostEnv(nil)
	h.overlay = hostOverlay(s, dotEnv, h.lookup)
	return h, nil
}
