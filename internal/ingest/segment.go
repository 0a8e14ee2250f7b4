package ingest

import (
	"strings"

	"docqa/internal/extract"
)

// GeneralHeading labels content that appears before any detected heading.
const GeneralHeading = "GENERAL"

// Section is one semantically coherent slice of a document: a heading and
// the body text that follows it, bounded by the source locators of its
// first and last contributing lines.
type Section struct {
	Heading  string
	Content  string
	StartLoc int
	EndLoc   int
}

// Segment splits extracted lines into sections in a single pass. Every line
// that clears the heading threshold starts a new section, unconditionally.
// An earlier variant only started a section when the new heading outscored
// the previous one, which silently swallowed valid lower-scoring headings
// into the running content; relative scores are deliberately ignored here.
//
// Content lines before the first heading open a GENERAL section. Body text
// is space-joined across lines and the end locator tracks the last content
// line. Empty lines are skipped. Segment never fails: the worst case is
// mis-segmentation, which downstream retrieval tolerates.
func Segment(lines []extract.Line) []Section {
	var sections []Section
	var open *Section
	var body []string

	flush := func() {
		if open == nil {
			return
		}
		open.Content = strings.Join(body, " ")
		sections = append(sections, *open)
		open = nil
		body = body[:0]
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		if _, ok := HeadingScore(text); ok {
			flush()
			open = &Section{Heading: text, StartLoc: line.Locator, EndLoc: line.Locator}
			continue
		}

		if open == nil {
			open = &Section{Heading: GeneralHeading, StartLoc: line.Locator, EndLoc: line.Locator}
		}
		body = append(body, text)
		open.EndLoc = line.Locator
	}
	flush()

	return sections
}
