package vcbuildbin

import (
	"path/filepath"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/flagutil"
	"shanhu.io/misc/osutil"
	"shanhu.io/vcbuild"
)

var cmdFlags = flagutil.NewFactory("vcbuild")

type projectFlags struct {
	config *vcbuild.Config
	name   string // configuration name
}

func declareProjectFlags(flags *flagutil.FlagSet, f *projectFlags) {
	flags.StringVar(
		&f.config.Project, "proj", "",
		"project file or directory; defaults to the work dir",
	)
	flags.StringVar(
		&f.config.Settings, "settings", "",
		"settings file; defaults to vcbuild.jsonx next to the project",
	)
	flags.StringVar(
		&f.name, "config", "",
		"configuration, as Name or Name|Platform; defaults to the first one",
	)
}

var projectPatterns = []string{"*.vcproj", "*.proj"}

// findProject finds the only project file in dir.
func findProject(dir string) (string, error) {
	var found []string
	for _, pat := range projectPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return "", errcode.Annotatef(err, "glob %q", pat)
		}
		found = append(found, matches...)
	}
	if len(found) == 0 {
		return "", errcode.NotFoundf("no project file found in %q", dir)
	}
	if len(found) > 1 {
		return "", errcode.InvalidArgf(
			"%d project files found, use -proj to pick one", len(found),
		)
	}
	return found[0], nil
}

// projectFile resolves the -proj flag, which can also be a directory.
func projectFile(p string) (string, error) {
	if p == "" {
		return findProject(".")
	}
	isDir, err := osutil.IsDir(p)
	if err != nil {
		return "", errcode.Annotatef(err, "check %q", p)
	}
	if isDir {
		return findProject(p)
	}
	return p, nil
}
