package extract

import (
	"errors"
	"io"
	"strings"
)

// ErrUnsupportedKind is returned when no extractor is registered for a file kind.
var ErrUnsupportedKind = errors.New("unsupported document kind")

// Line is a single extracted line of text together with its source locator.
// The locator is a page number for page-oriented formats and a 0-based
// paragraph ordinal for paragraph-oriented formats.
type Line struct {
	Text    string
	Locator int
}

// Extractor turns a raw document into an ordered sequence of lines.
// Extractors do not skip empty lines; that is the segmenter's job.
type Extractor interface {
	Extract(r io.Reader) ([]Line, error)
}

// ForKind returns the extractor for a file kind (a lowercase extension
// including the dot, e.g. ".txt"). Binary formats such as PDF and DOCX are
// handled by external extraction services that speak the same Line contract;
// the kinds registered here are the ones the server extracts in-process.
func ForKind(kind string) (Extractor, error) {
	switch strings.ToLower(kind) {
	case ".txt", ".text":
		return PlainText{}, nil
	case ".md", ".markdown":
		return NewMarkdown(), nil
	}
	return nil, ErrUnsupportedKind
}

// SupportedKinds lists the file kinds ForKind accepts.
func SupportedKinds() []string {
	return []string{".txt", ".text", ".md", ".markdown"}
}
