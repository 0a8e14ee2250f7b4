package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Markdown extracts lines from markdown documents by walking the goldmark
// AST. Each top-level block (heading, paragraph, list, ...) gets a 0-based
// block ordinal used as the locator for every line it contributes.
type Markdown struct {
	parser goldmark.Markdown
}

// NewMarkdown creates a markdown extractor with table support.
func NewMarkdown() *Markdown {
	return &Markdown{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extract parses the document and flattens it into locator-tagged lines.
func (m *Markdown) Extract(r io.Reader) ([]Line, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown document: %w", err)
	}

	doc := m.parser.Parser().Parse(text.NewReader(source))

	var lines []Line
	ordinal := 0
	for block := doc.FirstChild(); block != nil; block = block.NextSibling() {
		for _, line := range strings.Split(blockText(block, source), "\n") {
			lines = append(lines, Line{Text: line, Locator: ordinal})
		}
		ordinal++
	}

	return lines, nil
}

// blockText collects the plain text of a block node, preserving soft and
// hard line breaks so the segmenter sees the author's line structure.
func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			// Code block content lives in the node's line segments, not in
			// Text children.
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
