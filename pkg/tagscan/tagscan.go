// Package tagscan finds tag-like tokens in markup.
//
// Everything above this package treats markup as a sequence of tokens handed
// out by a Finder, so the regex scanner can be swapped for a stricter one
// without touching the mapping or codec logic.
package tagscan

import (
	"regexp"
	"strings"
)

// Patterns shared with the embedded decoder. They are valid in both RE2 and
// ECMAScript syntax and are rendered verbatim into the package.
const (
	// TokenPattern matches an opening tag (name in group 1, attribute text in
	// group 2) or a closing tag (name in group 3).
	TokenPattern = `<(\w+)([^>]*)>|</(\w+)>`

	// CountPattern matches anything that looks like the start of an opening
	// or closing tag. Used for frequency counting only.
	CountPattern = `</?(\w+)\b[^>]*>`

	// TitlePattern captures the text of the first title element.
	TitlePattern = `<title[^>]*>([^<]*)</title>`
)

// Kind tells opening and closing tokens apart.
type Kind int

const (
	Open Kind = iota
	Close
)

func (k Kind) String() string {
	if k == Close {
		return "close"
	}
	return "open"
}

// Token is one tag-like match. Start and End are byte offsets of the whole
// token; NameStart/NameEnd and AttrStart/AttrEnd locate the pieces the codec
// rewrites. Attribute offsets are both zero for closing tokens.
type Token struct {
	Kind      Kind
	Start     int
	End       int
	Name      string
	NameStart int
	NameEnd   int
	Attrs     string
	AttrStart int
	AttrEnd   int
}

// Finder returns the non-overlapping tag-like tokens of markup in document order.
type Finder interface {
	Find(markup string) []Token
}

var (
	tokenRE = regexp.MustCompile(TokenPattern)
	countRE = regexp.MustCompile(CountPattern)
	titleRE = regexp.MustCompile(`(?i)` + TitlePattern)
)

// Pattern is the default regex finder. It reports opening tags with their
// attribute text and closing tags of the exact form </name>.
type Pattern struct{}

func (Pattern) Find(markup string) []Token {
	matches := tokenRE.FindAllStringSubmatchIndex(markup, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		if m[2] >= 0 {
			tokens = append(tokens, Token{
				Kind:      Open,
				Start:     m[0],
				End:       m[1],
				Name:      markup[m[2]:m[3]],
				NameStart: m[2],
				NameEnd:   m[3],
				Attrs:     markup[m[4]:m[5]],
				AttrStart: m[4],
				AttrEnd:   m[5],
			})
			continue
		}
		tokens = append(tokens, Token{
			Kind:      Close,
			Start:     m[0],
			End:       m[1],
			Name:      markup[m[6]:m[7]],
			NameStart: m[6],
			NameEnd:   m[7],
		})
	}
	return tokens
}

// Counting is the lenient finder used for frequency analysis: any `<` or `</`
// followed by a word run and eventually `>` counts, whitespace or attributes
// on closing tags included.
type Counting struct{}

func (Counting) Find(markup string) []Token {
	matches := countRE.FindAllStringSubmatchIndex(markup, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		kind := Open
		if markup[m[0]+1] == '/' {
			kind = Close
		}
		tokens = append(tokens, Token{
			Kind:      kind,
			Start:     m[0],
			End:       m[1],
			Name:      markup[m[2]:m[3]],
			NameStart: m[2],
			NameEnd:   m[3],
		})
	}
	return tokens
}

// Title returns the text of the first <title> element, matched
// case-insensitively, and whether one was found.
func Title(markup string) (string, bool) {
	m := titleRE.FindStringSubmatch(markup)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsWordRun reports whether s is a non-empty run of [A-Za-z0-9_], the
// character class of a tag name in TokenPattern.
func IsWordRun(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'))
	}) < 0
}
