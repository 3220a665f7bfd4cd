// Package pii flags free text that looks like it contains personal contact
// details. The check is a heuristic: false positives and negatives are
// expected, and the result only sets an advisory flag on the stored report.
// It never blocks a submission.
package pii

import "regexp"

var (
	emailPattern = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	// A run of 8+ digits allowing space/().- separators, optionally
	// preceded by +, bounded by digits on both ends.
	phonePattern = regexp.MustCompile(`(\+?\d[\d\s().-]{7,}\d)`)
)

// Detect reports whether text contains an email-shaped or phone-shaped
// substring.
func Detect(text string) bool {
	if text == "" {
		return false
	}
	return emailPattern.MatchString(text) || phonePattern.MatchString(text)
}
