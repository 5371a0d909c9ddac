package prompt

import (
	"regexp"
	"strconv"
)

// markerPattern is the module-number marker grammar: the word "module" in any
// case, horizontal whitespace, then an integer, all on word boundaries. It
// covers both headings ("### MODULE 3:") and bare references ("see Module 3").
// Whitespace is horizontal only so a line ending in "module" followed by a
// numbered list item is never treated as a marker.
var markerPattern = regexp.MustCompile(`(?i)\b(module)([ \t]+)(\d+)\b`)

// Renumber rewrites every module-number marker in template to n. The spelling
// of the word and the whitespace are kept; only the integer changes. Text
// without markers is returned unchanged.
func Renumber(template string, n int) string {
	return markerPattern.ReplaceAllString(template, "${1}${2}"+strconv.Itoa(n))
}

// MarkerNumber returns the number carried by the first marker in template.
func MarkerNumber(template string) (int, bool) {
	m := markerPattern.FindStringSubmatch(template)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}
	return n, true
}
