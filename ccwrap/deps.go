package ccwrap

import (
	"strings"
)

// splitMakeWords splits a make rule line on white space. A backslash
// escapes the space that follows it.
func splitMakeWords(line string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == ' ':
			cur.WriteByte(' ')
			i++
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return words
}

// parseDeps returns the prerequisites of the make rules printed by the
// compiler's -M option. Targets are dropped.
func parseDeps(out string) []string {
	out = strings.ReplaceAll(out, "\\\r\n", " ")
	out = strings.ReplaceAll(out, "\\\n", " ")

	var deps []string
	for _, line := range strings.Split(out, "\n") {
		words := splitMakeWords(strings.TrimSpace(line))
		for i, w := range words {
			if strings.HasSuffix(w, ":") {
				words = words[i+1:]
				break
			}
		}
		deps = append(deps, words...)
	}
	return deps
}
