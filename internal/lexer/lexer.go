// Package lexer normalizes a raw source line and splits it into
// whitespace- or comma-delimited columns. It performs no semantic
// checks; that's internal/asmtab's job.
package lexer

import "strings"

// CleanLine strips leading whitespace, any comment (from the first
// ';' at or after the second character to end of line) removed,
// interior tabs converted to single spaces, runs of spaces collapsed
// to one, the space immediately following a comma or a decimal digit
// dropped, and trailing whitespace stripped.
//
// The first character of the trimmed line is always kept verbatim,
// even if it is ';' — a whole-line comment therefore comes back as
// ";..." rather than "". Callers detect that case by checking
// CleanLine(raw)[0] == ';', matching the source surface in spec.md
// §4.1 ("starts with ';' (comment; skip)").
//
// Because the drop check looks at the last character actually
// written rather than the input position, several spaces in a row
// following a comma or digit are all dropped, not just the first.
func CleanLine(raw string) string {
	trimmed := strings.TrimLeft(raw, " \t")
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	b.WriteByte(trimmed[0])
	last := trimmed[0]

	for i := 1; i < len(trimmed); i++ {
		ch := trimmed[i]

		if ch == ';' {
			break
		}
		if ch == '\t' {
			ch = ' '
		}

		if ch == ' ' && (last == ' ' || last == ',' || (last >= '0' && last <= '9')) {
			continue
		}

		b.WriteByte(ch)
		last = ch
	}

	return strings.TrimRight(b.String(), " \t\r\n")
}

// Column returns the i-th space-delimited token of line, or "" if i is
// out of range.
func Column(line string, i int) string {
	return nth(strings.Fields(line), i)
}

// Subcolumn returns the j-th token of s when split on delim, or "" if
// j is out of range.
func Subcolumn(s string, delim byte, j int) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, string(delim))
	return nth(parts, j)
}

func nth(parts []string, i int) string {
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}
