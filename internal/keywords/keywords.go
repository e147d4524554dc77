// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords reduces free text to a set of normalized keywords and
// scores how many keywords two texts share.
package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/orsinium-labs/stopwords"
)

// minLength is the shortest token kept as a keyword.
const minLength = 3

// nonWord matches everything that is neither a word character nor whitespace.
var nonWord = regexp.MustCompile(`[^\w\s]`)

var english = stopwords.MustGet("en")

// Set is a deduplicated collection of keywords.
type Set map[string]struct{}

// Has reports whether k is in the set.
func (s Set) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the keywords in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Extract lower-cases text, strips punctuation, splits on whitespace, and
// keeps tokens of at least three characters that are not English stopwords.
// Empty text yields an empty set.
func Extract(text string) Set {
	set := make(Set)
	if text == "" {
		return set
	}

	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < minLength || english.Contains(tok) {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}
