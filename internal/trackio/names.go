package trackio

import "strings"

// maxNameLen bounds names embedded in output file names.
const maxNameLen = 128

// SafeName turns a cell label into a file-name fragment. Anything other
// than ASCII letters, digits, dot, underscore or dash becomes a single
// underscore; leading and trailing dots and underscores are trimmed.
func SafeName(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	if out := strings.Trim(b.String(), "._"); out != "" {
		return out
	}
	return "cell"
}
