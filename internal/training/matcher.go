package training

import (
	"regexp"
	"strings"
)

var variantSeparators = regexp.MustCompile(`[,/;|]`)

// Normalize trims, lowercases and collapses internal whitespace runs
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Variants returns the normalized accepted string followed by every
// non-empty synonym it encodes.
func Variants(accepted string) []string {
	full := Normalize(accepted)
	if full == "" {
		return nil
	}
	out := []string{full}
	for _, part := range variantSeparators.Split(accepted, -1) {
		if v := Normalize(part); v != "" && v != full {
			out = append(out, v)
		}
	}
	return out
}

// IsAccepted reports whether input matches any accepted answer or any of
// its synonyms. Blank input never matches.
func IsAccepted(input string, accepted []string) bool {
	needle := Normalize(input)
	if needle == "" {
		return false
	}
	for _, answer := range accepted {
		for _, v := range Variants(answer) {
			if v == needle {
				return true
			}
		}
	}
	return false
}
