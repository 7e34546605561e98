// Package profanity implements the word-list predicate the broadcaster runs
// over outbound chat text.
package profanity

import (
	"strings"
	"unicode"
)

// Stock list kept deliberately short; deployments extend it through
// PROFANITY_EXTRA_WORDS.
var defaultWords = []string{
	"damn",
	"hell",
	"crap",
	"bastard",
	"piss",
	"ass",
}

type Filter struct {
	words map[string]struct{}
}

func NewFilter(extra ...string) *Filter {
	f := &Filter{words: make(map[string]struct{}, len(defaultWords)+len(extra))}
	for _, w := range defaultWords {
		f.add(w)
	}
	for _, w := range extra {
		f.add(w)
	}
	return f
}

func (f *Filter) add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word != "" {
		f.words[word] = struct{}{}
	}
}

// IsProfane reports whether any word of text is on the block list.
// Matching is case-insensitive and splits on anything that is not a letter
// or digit, so punctuation does not hide a word.
func (f *Filter) IsProfane(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		if _, ok := f.words[w]; ok {
			return true
		}
	}
	return false
}
