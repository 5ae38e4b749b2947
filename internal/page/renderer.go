// Package page expands include and code_snippet directives in documentation
// pages. Each Render call is one render pass with its own tab aggregator and
// include graph, so concurrent renders of different pages never share state.
package page

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/docsnip/internal/include"
	"github.com/mvp-joe/docsnip/internal/snippet"
	"github.com/mvp-joe/docsnip/internal/tabs"
)

// SnippetSource supplies extracted snippets for code_snippet directives.
type SnippetSource interface {
	Snippet(req snippet.Request) (snippet.Block, error)
}

// Renderer renders pages. It holds no per-page state.
type Renderer struct {
	includes *include.Resolver
	snippets SnippetSource
	logger   *log.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(includes *include.Resolver, snippets SnippetSource, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		includes: includes,
		snippets: snippets,
		logger:   logger,
	}
}

// Result is a rendered page.
type Result struct {
	Content  string
	Snippets int         // code_snippet and excerpt directives expanded
	Includes int         // include directives expanded
	Units    []tabs.Unit // finalized units in document order
}

type segmentKind int

const (
	textSegment segmentKind = iota
	unitSegment
	excerptSegment
)

type segment struct {
	kind   segmentKind
	text   string
	slot   int
	indent string
}

// pass is the state of rendering one document.
type pass struct {
	r        *Renderer
	doc      string
	agg      *tabs.Aggregator
	graph    graph.Graph[string, string]
	segments []segment
	snippets int
	includes int
}

// Render expands every directive in content. docPath is the document's file
// path; it names the document in errors and roots the include graph.
func (r *Renderer) Render(docPath, content string) (Result, error) {
	p := &pass{
		r:     r,
		doc:   docPath,
		agg:   tabs.NewAggregator(),
		graph: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
	if err := p.graph.AddVertex(filepath.Clean(docPath)); err != nil {
		return Result{}, err
	}

	if err := p.expand(filepath.Clean(docPath), content); err != nil {
		return Result{}, err
	}

	units := p.agg.Units()
	var b strings.Builder
	for _, s := range p.segments {
		switch s.kind {
		case textSegment:
			b.WriteString(s.text)
		case unitSegment:
			b.WriteString(FormatUnit(units[s.slot]))
		case excerptSegment:
			b.WriteString(FormatIndented(units[s.slot].Tabs[0].Block, s.indent))
		}
	}

	r.logger.Debug("rendered page", "path", docPath, "snippets", p.snippets, "includes", p.includes, "units", len(units))

	return Result{
		Content:  b.String(),
		Snippets: p.snippets,
		Includes: p.includes,
		Units:    units,
	}, nil
}

// expand appends the segments of content, which was read from path.
func (p *pass) expand(path, content string) error {
	last := 0
	for _, m := range directivePattern.FindAllStringSubmatchIndex(content, -1) {
		p.text(content[last:m[0]])
		last = m[1]

		d, err := parseDirective(content, m)
		if err != nil {
			return p.fail(path, d, err)
		}

		switch d.kind {
		case kindInclude:
			err = p.include(path, d)
		case kindSnippet:
			err = p.snippet(d, "")
		case kindExcerpt:
			err = p.snippet(d, d.indent)
		}
		if err != nil {
			var de *DirectiveError
			if errors.As(err, &de) {
				return err
			}
			return p.fail(path, d, err)
		}
	}
	p.text(content[last:])
	return nil
}

func (p *pass) text(s string) {
	if s == "" {
		return
	}
	p.segments = append(p.segments, segment{kind: textSegment, text: s})
}

func (p *pass) include(from string, d directive) error {
	target := d.args[0]
	path, err := p.r.includes.Locate(from, target)
	if err != nil {
		return err
	}

	if err := p.graph.AddVertex(path); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return err
	}
	if err := p.graph.AddEdge(from, path); err != nil {
		switch {
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return fmt.Errorf("%w: %s includes %s", ErrIncludeCycle, from, path)
		case !errors.Is(err, graph.ErrEdgeAlreadyExists):
			return err
		}
	}

	content, err := p.r.includes.Resolve(from, target)
	if err != nil {
		return err
	}
	p.includes++
	return p.expand(path, content)
}

func (p *pass) snippet(d directive, indent string) error {
	req := snippet.Request{RepoAlias: d.args[0], Name: d.args[1]}
	if len(d.args) == 3 {
		req.TabLabel = d.args[2]
	}

	block, err := p.r.snippets.Snippet(req)
	if err != nil {
		return err
	}
	p.snippets++

	slot, fresh := p.agg.Add(req, block)
	if !fresh {
		return nil
	}
	if d.kind == kindExcerpt {
		p.segments = append(p.segments, segment{kind: excerptSegment, slot: slot, indent: indent})
		return nil
	}
	p.segments = append(p.segments, segment{kind: unitSegment, slot: slot})
	return nil
}

func (p *pass) fail(path string, d directive, err error) error {
	return &DirectiveError{Doc: path, Directive: strings.TrimSpace(d.text), Err: err}
}
