package page

import (
	"strings"

	"github.com/mvp-joe/docsnip/internal/snippet"
	"github.com/mvp-joe/docsnip/internal/tabs"
)

// FormatUnit renders a unit as markdown. A standalone block becomes a fenced
// code block; a tab group becomes consecutive fences carrying tab="<label>",
// which superfences turns into one tabbed widget.
func FormatUnit(u tabs.Unit) string {
	if !u.Tabbed {
		return "\n\n" + fence(u.Tabs[0].Block, "") + "\n\n"
	}

	parts := make([]string, len(u.Tabs))
	for i, t := range u.Tabs {
		parts[i] = fence(t.Block, ` tab="`+strings.ReplaceAll(t.Label, `"`, `\"`)+`"`)
	}
	return "\n\n" + strings.Join(parts, "\n\n") + "\n\n"
}

// FormatIndented renders a block as a fenced code block whose every line,
// fences included, starts with indent. The result has no trailing newline.
func FormatIndented(b snippet.Block, indent string) string {
	marks := fenceMarks(b)
	lines := make([]string, 0, len(b.Lines)+2)
	lines = append(lines, indent+marks+b.Lang)
	for _, line := range b.Lines {
		lines = append(lines, indent+line)
	}
	lines = append(lines, indent+marks)
	return strings.Join(lines, "\n")
}

func fence(b snippet.Block, attrs string) string {
	marks := fenceMarks(b)
	return marks + b.Lang + attrs + "\n" + b.Content() + marks
}

// fenceMarks returns a backtick run longer than any run inside the block.
func fenceMarks(b snippet.Block) string {
	marks := "```"
	for _, line := range b.Lines {
		for strings.Contains(line, marks) {
			marks += "`"
		}
	}
	return marks
}
