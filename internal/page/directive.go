package page

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMalformedDirective indicates a directive whose arguments cannot be parsed
	ErrMalformedDirective = errors.New("malformed directive")

	// ErrIncludeCycle indicates a document includes itself, directly or not
	ErrIncludeCycle = errors.New("include cycle")
)

// DirectiveError ties a failure to the document and directive that caused it.
type DirectiveError struct {
	Doc       string
	Directive string
	Err       error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Doc, e.Directive, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

type directiveKind int

const (
	kindInclude directiveKind = iota
	kindSnippet
	kindExcerpt
)

// directive is one parsed occurrence in a document.
type directive struct {
	kind   directiveKind
	text   string
	args   []string
	indent string // excerpt lines only
}

// directivePattern matches, in one pass:
//
//	{% include 'path' %}
//	{% code_snippet 'repo', 'name'[, 'label'] %}
//	<indent>--excerpt-- "repo/name"
var directivePattern = regexp.MustCompile(
	`(?m)\{%-?\s*(include|code_snippet)\s+((?:[^%]|%[^}])*?)\s*-?%\}` +
		`|^([ \t]*)-{2,}excerpt-{2,}[ \t]+(?:"([^"\r\n]+)"|'([^'\r\n]+)')[ \t]*\r?$`)

// tabLength is the column width a tab in an excerpt indent expands to.
const tabLength = 4

var argPattern = regexp.MustCompile(`^\s*(?:'([^']*)'|"([^"]*)")\s*(?:,|$)`)

// parseDirective builds a directive from a directivePattern submatch index
// slice over content.
func parseDirective(content string, m []int) (directive, error) {
	d := directive{text: content[m[0]:m[1]]}

	if m[2] < 0 {
		d.kind = kindExcerpt
		d.indent = expandTabs(content[m[6]:m[7]])
		value := ""
		if m[8] >= 0 {
			value = content[m[8]:m[9]]
		} else {
			value = content[m[10]:m[11]]
		}
		repo, name, ok := strings.Cut(value, "/")
		if !ok || repo == "" || name == "" {
			return d, fmt.Errorf("%w: excerpt %q must look like \"repo/name\"", ErrMalformedDirective, value)
		}
		d.args = []string{repo, name}
		d.text = strings.TrimLeft(d.text, " \t")
		return d, nil
	}

	args, err := parseArgs(content[m[4]:m[5]])
	if err != nil {
		return d, err
	}
	d.args = args

	switch content[m[2]:m[3]] {
	case "include":
		d.kind = kindInclude
		if len(args) != 1 {
			return d, fmt.Errorf("%w: include takes one path, got %d arguments", ErrMalformedDirective, len(args))
		}
	case "code_snippet":
		d.kind = kindSnippet
		if len(args) < 2 || len(args) > 3 {
			return d, fmt.Errorf("%w: code_snippet takes a repo, a name and an optional tab label, got %d arguments",
				ErrMalformedDirective, len(args))
		}
		if len(args) == 3 && strings.TrimSpace(args[2]) == "" {
			return d, fmt.Errorf("%w: code_snippet tab label is empty", ErrMalformedDirective)
		}
	}
	return d, nil
}

// parseArgs splits a comma separated list of quoted strings.
func parseArgs(s string) ([]string, error) {
	var args []string
	rest := s
	for strings.TrimSpace(rest) != "" {
		m := argPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			return nil, fmt.Errorf("%w: cannot parse arguments %q", ErrMalformedDirective, s)
		}
		if m[2] >= 0 {
			args = append(args, rest[m[2]:m[3]])
		} else {
			args = append(args, rest[m[4]:m[5]])
		}
		rest = rest[m[1]:]
	}
	return args, nil
}

// expandTabs replaces each tab in indent with spaces up to the next
// tabLength column.
func expandTabs(indent string) string {
	if !strings.Contains(indent, "\t") {
		return indent
	}
	var b strings.Builder
	col := 0
	for _, r := range indent {
		if r == '\t' {
			n := tabLength - col%tabLength
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
