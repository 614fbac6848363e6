package util

import (
	"regexp"
	"strconv"
	"strings"
)

func SafeAtoi(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

var nonNumericRegex = regexp.MustCompile(`[^\d]`)

func CleanNumericString(s string) string {
	return nonNumericRegex.ReplaceAllString(s, "")
}

var decimalRegex = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// FirstNumber extracts the first decimal number token from s, or "".
// Comma group separators are kept; SafeAtoi strips them.
func FirstNumber(s string) string {
	return strings.TrimRight(decimalRegex.FindString(s), ",")
}

// CollapseWhitespace trims s and folds any whitespace run into one space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
