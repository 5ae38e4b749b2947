package snippet

import (
	"iter"
	"regexp"
)

// Kind distinguishes the two marker forms.
type Kind int

const (
	Start Kind = iota
	End
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Marker is a single line delimiting the start or end of a named snippet.
type Marker struct {
	Name string
	Kind Kind
	Lang string // only set for Start markers
	Line int    // zero-based index into the scanned lines
}

// markerPattern matches "<anything> code_snippet <name> start <lang>" and
// "<anything> code_snippet <name> end". The comment token in front is not
// interpreted, and trailing text after a whitespace (comment closers like
// "-->" or "*/") is tolerated.
var markerPattern = regexp.MustCompile(`(?:^|[^\w-])code_snippet\s+(\S+)\s+(start|end)(?:\s+(\S+))?(?:\s.*)?$`)

// ParseMarker reports whether line is a marker line and returns it.
// idx is recorded as the marker's line index.
func ParseMarker(line string, idx int) (Marker, bool) {
	m := markerPattern.FindStringSubmatch(line)
	if m == nil {
		return Marker{}, false
	}

	marker := Marker{Name: m[1], Line: idx}
	if m[2] == "start" {
		marker.Kind = Start
		marker.Lang = m[3]
	} else {
		marker.Kind = End
	}
	return marker, true
}

// IsMarker reports whether line matches the marker grammar for any name.
func IsMarker(line string) bool {
	return markerPattern.MatchString(line)
}

// Scan yields the markers found in lines, in line order. Lines that are not
// markers are skipped, so an unrelated file yields nothing.
func Scan(lines []string) iter.Seq[Marker] {
	return func(yield func(Marker) bool) {
		for i, line := range lines {
			m, ok := ParseMarker(line, i)
			if !ok {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}
