package snippet

import "strings"

// Dedent removes the smallest leading whitespace run found on any non-blank
// line from every line. Spaces and tabs are counted as one character each and
// never converted into one another. Whitespace-only lines come back empty.
func Dedent(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		if n := indentWidth(line); minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent < 0 {
		minIndent = 0
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		out[i] = line[minIndent:]
	}
	return out
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
