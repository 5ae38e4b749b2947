package snippet

import (
	"fmt"
	"sort"
	"strings"
)

// Extract returns the snippet called name from lines.
//
// The region runs from the line after the first start marker for name to
// the line before its matching end marker. Open regions are tracked per name,
// so a same-named region nested inside is skipped over. Markers of any name
// inside the region are removed and the remaining lines are dedented.
//
// Returns ErrSnippetNotFound if lines hold no start marker for name, and
// ErrUnterminatedSnippet if the region never closes or overlaps another
// region instead of nesting inside it.
func Extract(lines []string, name string) (Block, error) {
	start, end, err := locate(lines, name)
	if err != nil {
		return Block{}, err
	}

	body := Strip(lines[start.Line+1 : end])
	return Block{
		Name:      name,
		Lang:      start.Lang,
		Lines:     Dedent(body),
		StartLine: start.Line + 1,
		EndLine:   end + 1,
	}, nil
}

// locate finds the start marker for name and the index of its end marker.
func locate(lines []string, name string) (Marker, int, error) {
	var (
		start Marker
		open  bool
		depth = make(map[string]int)
	)

	for m := range Scan(lines) {
		if !open {
			if m.Kind == Start && m.Name == name {
				start = m
				open = true
				depth[name] = 1
			}
			continue
		}

		switch m.Kind {
		case Start:
			depth[m.Name]++
		case End:
			if depth[m.Name] == 0 {
				return Marker{}, 0, fmt.Errorf("%w: %q ends on line %d inside %q but starts outside it",
					ErrUnterminatedSnippet, m.Name, m.Line+1, name)
			}
			depth[m.Name]--
			if m.Name != name || depth[name] > 0 {
				continue
			}
			if pending := stillOpen(depth); len(pending) > 0 {
				return Marker{}, 0, fmt.Errorf("%w: %q ends on line %d while %s still open",
					ErrUnterminatedSnippet, name, m.Line+1, strings.Join(pending, ", "))
			}
			return start, m.Line, nil
		}
	}

	if !open {
		return Marker{}, 0, fmt.Errorf("%w: %q", ErrSnippetNotFound, name)
	}
	return Marker{}, 0, fmt.Errorf("%w: %q starts on line %d and never ends", ErrUnterminatedSnippet, name, start.Line+1)
}

func stillOpen(depth map[string]int) []string {
	var names []string
	for name, d := range depth {
		if d > 0 {
			names = append(names, fmt.Sprintf("%q", name))
		}
	}
	sort.Strings(names)
	return names
}

// Strip drops every marker line, whatever name it carries, and keeps all
// other lines in order.
func Strip(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if IsMarker(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}
