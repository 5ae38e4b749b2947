// Package snippet finds named code_snippet regions in text and normalizes
// them for embedding into documentation.
//
// A region is delimited by marker lines:
//
//	# code_snippet install start yaml
//	...
//	# code_snippet install end
//
// Regions may nest. Extracting an outer region flattens the inner ones into
// it: their content stays, their marker lines are dropped. The result is
// dedented so the least indented line sits on the left margin.
package snippet

import "strings"

// Request is one code_snippet directive occurrence in a document.
type Request struct {
	RepoAlias string
	Name      string
	TabLabel  string // empty when the directive has no tab label
}

// Tabbed reports whether the request carries a tab label.
func (r Request) Tabbed() bool {
	return r.TabLabel != ""
}

// Block is an extracted snippet, marker-free and dedented.
type Block struct {
	Name      string
	Lang      string
	Lines     []string
	Source    string // path of the file the snippet came from
	StartLine int    // 1-based line of the start marker
	EndLine   int    // 1-based line of the end marker
}

// Content joins the block's lines with newlines and a trailing newline.
// An empty block yields an empty string.
func (b Block) Content() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return strings.Join(b.Lines, "\n") + "\n"
}

// SplitLines splits file content into lines, dropping line terminators.
// A trailing newline does not produce an extra empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
