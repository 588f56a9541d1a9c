package vcbuild

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// normCase folds the case of p on case-insensitive filesystems.
func normCase(p string) string {
	if runtime.GOOS == "windows" {
		return strings.ToLower(p)
	}
	return p
}

// absRelPath makes p an absolute, cleaned path. Relative paths are taken
// relative to dir.
func absRelPath(p, dir string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// projectPath converts a path written in a project file, which uses
// backslashes, to the host form.
func projectPath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

// relPath returns p relative to dir, or p itself if it cannot be made
// relative.
func relPath(p, dir string) string {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return p
	}
	return rel
}

// dirPath appends a trailing separator to a directory path.
func dirPath(d string) string {
	if strings.HasSuffix(d, string(os.PathSeparator)) {
		return d
	}
	return d + string(os.PathSeparator)
}
