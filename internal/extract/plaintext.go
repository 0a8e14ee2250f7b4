package extract

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PlainText extracts lines from UTF-8 text files. Plain text is
// paragraph-oriented: blank lines separate paragraphs, and every line in a
// paragraph carries that paragraph's 0-based ordinal as its locator.
type PlainText struct{}

// Extract reads r line by line and assigns paragraph ordinals.
func (PlainText) Extract(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []Line
	paragraph := 0
	inParagraph := false

	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			if inParagraph {
				paragraph++
				inParagraph = false
			}
			continue
		}
		lines = append(lines, Line{Text: text, Locator: paragraph})
		inParagraph = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text document: %w", err)
	}

	return lines, nil
}
