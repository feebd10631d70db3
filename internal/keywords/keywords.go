// Package keywords compiles the case-insensitive keyword lists that drive
// categorization and the analysis passes.
package keywords

import (
	"regexp"
	"strings"
	"unicode"
)

// Matcher tests text against a fixed list of lower-cased terms.
// A Matcher is immutable after New and safe for concurrent use.
type Matcher struct {
	terms []string
	words []*regexp.Regexp
}

// New compiles a Matcher. Empty terms are ignored; order is preserved.
func New(terms []string) *Matcher {
	m := &Matcher{}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		m.terms = append(m.terms, t)
		m.words = append(m.words, regexp.MustCompile(wordPattern(t)))
	}
	return m
}

// wordPattern anchors a term on word boundaries, but only at edges that are
// word characters; "sal-" must still match "SAL-ACME".
func wordPattern(term string) string {
	p := regexp.QuoteMeta(term)
	r := []rune(term)
	if isWordRune(r[0]) {
		p = `\b` + p
	}
	if isWordRune(r[len(r)-1]) {
		p += `\b`
	}
	return p
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Terms returns the compiled terms.
func (m *Matcher) Terms() []string { return m.terms }

// Len returns the number of terms.
func (m *Matcher) Len() int { return len(m.terms) }

// Contains reports whether any term occurs as a substring of s.
func (m *Matcher) Contains(s string) bool {
	return m.First(s) != ""
}

// First returns the first term occurring as a substring of s, or "".
func (m *Matcher) First(s string) string {
	s = strings.ToLower(s)
	for _, t := range m.terms {
		if strings.Contains(s, t) {
			return t
		}
	}
	return ""
}

// ContainsWord reports whether any term occurs in s as a whole word.
func (m *Matcher) ContainsWord(s string) bool {
	return m.FirstWord(s) != ""
}

// FirstWord returns the first term occurring in s as a whole word, or "".
func (m *Matcher) FirstWord(s string) string {
	s = strings.ToLower(s)
	for i, re := range m.words {
		if re.MatchString(s) {
			return m.terms[i]
		}
	}
	return ""
}

// Count returns how many terms occur as substrings of s.
func (m *Matcher) Count(s string) int {
	s = strings.ToLower(s)
	n := 0
	for _, t := range m.terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}

// Score returns 2 per whole-word hit and 1 per substring-only hit.
func (m *Matcher) Score(s string) int {
	s = strings.ToLower(s)
	score := 0
	for i, t := range m.terms {
		switch {
		case m.words[i].MatchString(s):
			score += 2
		case strings.Contains(s, t):
			score++
		}
	}
	return score
}
