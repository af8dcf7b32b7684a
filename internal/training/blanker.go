package training

import (
	"regexp"
	"strings"
)

// Placeholder replaces the hidden term in a context prompt
const Placeholder = "____"

var syntheticTemplates = []string{
	"In context: ____ is important here.",
	"I keep thinking about ____ today.",
	"Everyone at the meeting talked about ____.",
	"Could you explain ____ to me once more?",
	"Yesterday I finally understood ____.",
}

// Blank masks the first occurrence of term in sentence.
// The literal match is tried first, then a pattern that tolerates
// irregular whitespace between the words of the term.
func Blank(sentence, term string) (string, bool) {
	term = strings.TrimSpace(term)
	if strings.TrimSpace(sentence) == "" || term == "" {
		return "", false
	}

	literal := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
	if loc := literal.FindStringIndex(sentence); loc != nil {
		return sentence[:loc[0]] + Placeholder + sentence[loc[1]:], true
	}

	words := strings.Fields(term)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	loose, err := regexp.Compile(`(?i)` + strings.Join(quoted, `\s+`))
	if err != nil {
		return "", false
	}
	if loc := loose.FindStringIndex(sentence); loc != nil {
		return sentence[:loc[0]] + Placeholder + sentence[loc[1]:], true
	}
	return "", false
}

// SyntheticPrompt returns a templated sentence for words without a usable example
func SyntheticPrompt(s *Sampler) string {
	prompt, _ := Pick(s, syntheticTemplates)
	return prompt
}

// ContextPrompt blanks term inside example or falls back to a synthetic prompt
func ContextPrompt(s *Sampler, example, term string) string {
	if masked, ok := Blank(example, term); ok {
		return masked
	}
	return SyntheticPrompt(s)
}
