// Package words splits identifiers into words and rebuilds identifiers from
// them.
package words

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Split splits an identifier at word boundaries:
//   - lowercase to uppercase: "fixedSpread" -> "fixed" + "Spread"
//   - the last uppercase before lowercase: "HTTPServer" -> "HTTP" + "Server"
//   - around underscores: "FIXED_SPREAD" -> "FIXED" + "_" + "SPREAD"
//   - between letters and digits: "int64Value" -> "int" + "64" + "Value"
func Split(s string) []string {
	var words []string
	start := 0
	for i := 1; i < len(s); i++ {
		var next byte
		if i+1 < len(s) {
			next = s[i+1]
		}
		if isBoundary(s[i-1], s[i], next) {
			words = append(words, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}

func isBoundary(prev, curr, next byte) bool {
	switch {
	case isLower(prev) && isUpper(curr):
		return true
	case isUpper(prev) && isUpper(curr) && isLower(next):
		return true
	case (prev == '_') != (curr == '_'):
		return true
	case isLetter(prev) && isDigit(curr), isDigit(prev) && isLetter(curr):
		return true
	}
	return false
}

func isLower(c byte) bool  { return 'a' <= c && c <= 'z' }
func isUpper(c byte) bool  { return 'A' <= c && c <= 'Z' }
func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return isLower(c) || isUpper(c) }

// CommonPrefix returns the longest common prefix of the identifiers in whole
// words. It never returns a whole identifier, so trimming the prefix leaves
// every identifier non-empty.
func CommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}

	var common []string
	for i, s := range ss {
		words := Split(s)
		if i == 0 {
			common = words
			continue
		}

		n := 0
		for n < len(common) && n < len(words) && common[n] == words[n] {
			n++
		}
		common = common[:n]
	}

	// Keep at least one word of the shortest identifier.
	for _, s := range ss {
		if len(common) != 0 && len(Split(s)) == len(common) {
			common = common[:len(common)-1]
			break
		}
	}
	return strings.Join(common, "")
}

// Pascal converts an identifier to PascalCase. Underscores are dropped and
// every word is title-cased: "FIXED_SPREAD" -> "FixedSpread".
//
// Digits cannot start a Go identifier, so a leading digit word is kept after
// "X": "2D" -> "X2D".
func Pascal(s string) string {
	ws := slices.DeleteFunc(Split(s), func(w string) bool {
		return strings.Trim(w, "_") == ""
	})

	var b strings.Builder
	for _, w := range ws {
		b.WriteString(cases.Title(language.English).String(w))
	}

	out := b.String()
	if out != "" && isDigit(out[0]) {
		out = "X" + out
	}
	return out
}

// Camel converts an identifier to camelCase: "FIXED_SPREAD" ->
// "fixedSpread".
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return p
	}
	ws := Split(p)
	ws[0] = strings.ToLower(ws[0])
	return strings.Join(ws, "")
}
