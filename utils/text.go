package utils

import (
	"strings"
)

// NormalizeAnswer is the comparison form used for answer matching and option
// dedup: lower-cased, surrounding whitespace trimmed.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SafeText scrubs the AllAnswers delimiter and newlines out of a display
// string so the stored list stays parseable.
func SafeText(s string) string {
	s = strings.ReplaceAll(s, ",", "/")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// JoinAnswers serializes display choices into the canonical stored form:
// comma separated, no surrounding spaces, display order preserved.
func JoinAnswers(choices []string) string {
	parts := make([]string, len(choices))
	for i, choice := range choices {
		parts[i] = SafeText(choice)
	}
	return strings.Join(parts, ",")
}

// SplitAnswers is the inverse of JoinAnswers.
func SplitAnswers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
