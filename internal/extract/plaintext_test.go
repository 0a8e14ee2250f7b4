package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestPlainTextExtract(t *testing.T) {
	input := "First line of paragraph one.\nSecond line of paragraph one.\n\nParagraph two.\n\n\nParagraph three.\n"

	lines, err := PlainText{}.Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []Line{
		{Text: "First line of paragraph one.", Locator: 0},
		{Text: "Second line of paragraph one.", Locator: 0},
		{Text: "Paragraph two.", Locator: 1},
		{Text: "Paragraph three.", Locator: 2},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Extract() = %v, want %v", lines, want)
	}
}

func TestPlainTextExtractEmpty(t *testing.T) {
	lines, err := PlainText{}.Extract(strings.NewReader("\n\n  \n"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Extract() = %v, want no lines", lines)
	}
}

func TestForKind(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{".txt", false},
		{".TXT", false},
		{".md", false},
		{".markdown", false},
		{".pdf", true},
		{".docx", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ForKind(tt.kind)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForKind(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
		}
	}
}
