package ccwrap

import (
	"regexp"
	"strings"
)

var diagPattern = regexp.MustCompile(`(.*?):(\d+):(?:(\d+):)?\s*(.*?):`)

// Reformat rewrites gcc style diagnostics "file:line[:col]: severity:"
// into "file(line[,col]) : severity :".
func Reformat(s string) string {
	return diagPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := diagPattern.FindStringSubmatch(m)
		file, line, col := sub[1], sub[2], sub[3]
		severity := strings.TrimSpace(sub[4])

		loc := line
		if col != "" {
			loc += "," + col
		}
		return file + "(" + loc + ") : " + severity + " :"
	})
}
