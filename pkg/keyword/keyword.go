// Package keyword implements the case-insensitive substring matching used by
// the rule tables. Contains is normalize-then-contains: both sides are
// lower-cased rune by rune (no locale tailoring) and underscores are treated
// as spaces, so a table key such as "heart_failure" matches the condition
// "Heart Failure". Transcript scans lower-case only and use strings.Contains.
package keyword

import (
	"strings"
	"unicode"
)

// Normalize lower-cases s and replaces underscores with spaces.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", " ")
}

// Contains reports whether the normalized form of key occurs anywhere in the
// normalized form of text. An empty key never matches.
func Contains(text, key string) bool {
	k := Normalize(key)
	if k == "" {
		return false
	}
	return strings.Contains(Normalize(text), k)
}

// ContainsAny reports whether key is contained in at least one of texts.
func ContainsAny(texts []string, key string) bool {
	for _, t := range texts {
		if Contains(t, key) {
			return true
		}
	}
	return false
}

// Title upper-cases every letter that follows a non-letter and lower-cases
// all other letters: "ct scan" -> "Ct Scan", "x-ray" -> "X-Ray",
// "hba1c" -> "Hba1C".
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// Label turns a table key into a display label: underscores become spaces
// and the result is title-cased ("heart_disease" -> "Heart Disease").
func Label(key string) string {
	return Title(strings.ReplaceAll(key, "_", " "))
}
