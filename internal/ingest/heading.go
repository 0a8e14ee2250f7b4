package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// headingThreshold is the minimum additive score for a line to count as a
// section heading.
const headingThreshold = 4

// articlePrefixes are words that almost never start a real heading. A line
// opening with one of them is penalized.
var articlePrefixes = []string{"the ", "a ", "an ", "and "}

// HeadingScore scores a trimmed line against the heading heuristic and
// reports whether it clears the threshold. The score is additive:
//
//	length <= 80 characters (runes) +1
//	ends with ':'                  +1
//	all-uppercase letters          +2
//	word count <= 10               +2
//	does not end with '.'          +1
//	starts with an article word    -2
//
// The returned score is only meaningful when ok is true; it can be used to
// compare candidate headings against each other. This is a heuristic: false
// positives and negatives are expected on real documents and are tolerated
// downstream as mis-segmentation, never as errors.
func HeadingScore(line string) (score int, ok bool) {
	if line == "" {
		return 0, false
	}

	if utf8.RuneCountInString(line) <= 80 {
		score++
	}
	if strings.HasSuffix(line, ":") {
		score++
	}
	if isUpper(line) {
		score += 2
	}
	if len(strings.Fields(line)) <= 10 {
		score += 2
	}
	if !strings.HasSuffix(line, ".") {
		score++
	}

	lower := strings.ToLower(line)
	for _, prefix := range articlePrefixes {
		if strings.HasPrefix(lower, prefix) {
			score -= 2
			break
		}
	}

	if score < headingThreshold {
		return 0, false
	}
	return score, true
}

// isUpper reports whether the line contains at least one letter and no
// lowercase letters.
func isUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
