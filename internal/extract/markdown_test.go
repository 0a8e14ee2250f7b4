package extract

import (
	"strings"
	"testing"
)

func TestMarkdownExtract(t *testing.T) {
	input := "# SETUP\n\nInstall the binary somewhere on your path.\n\nRun it once to create the config.\n"

	lines, err := NewMarkdown().Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	var nonEmpty []Line
	for _, line := range lines {
		if strings.TrimSpace(line.Text) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	if len(nonEmpty) != 3 {
		t.Fatalf("Extract() produced %d non-empty lines, want 3: %v", len(nonEmpty), nonEmpty)
	}
	if nonEmpty[0].Text != "SETUP" || nonEmpty[0].Locator != 0 {
		t.Errorf("heading line = %+v, want SETUP at block 0", nonEmpty[0])
	}
	if nonEmpty[1].Locator != 1 || nonEmpty[2].Locator != 2 {
		t.Errorf("paragraph locators = %d, %d, want 1, 2", nonEmpty[1].Locator, nonEmpty[2].Locator)
	}
}

func TestMarkdownExtractSoftBreaks(t *testing.T) {
	// One paragraph, two source lines: both carry the same block ordinal.
	input := "line one of the paragraph\nline two of the paragraph\n"

	lines, err := NewMarkdown().Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Extract() produced %d lines, want 2: %v", len(lines), lines)
	}
	if lines[0].Locator != lines[1].Locator {
		t.Errorf("locators differ within one block: %d vs %d", lines[0].Locator, lines[1].Locator)
	}
	if lines[0].Text != "line one of the paragraph" {
		t.Errorf("first line = %q", lines[0].Text)
	}
}

func TestMarkdownExtractFencedCodeBlock(t *testing.T) {
	input := "# SETUP\n\nRun this:\n\n```\nmake install PREFIX=/opt\nmake check\n```\n"

	lines, err := NewMarkdown().Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	found := map[string]int{}
	for _, line := range lines {
		found[strings.TrimSpace(line.Text)] = line.Locator
	}

	loc, ok := found["make install PREFIX=/opt"]
	if !ok {
		t.Fatalf("code block content missing from extracted lines: %v", lines)
	}
	if loc != 2 {
		t.Errorf("code block locator = %d, want block ordinal 2", loc)
	}
	if _, ok := found["make check"]; !ok {
		t.Errorf("second code line missing from extracted lines: %v", lines)
	}
}

func TestMarkdownExtractEmpty(t *testing.T) {
	lines, err := NewMarkdown().Extract(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Extract() = %v, want no lines", lines)
	}
}
