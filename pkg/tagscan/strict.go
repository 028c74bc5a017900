package tagscan

import (
	"strings"

	"golang.org/x/net/html"
)

// Strict finds tags with the HTML5 tokenizer. Comments, doctype and the raw
// text of script/style elements produce no tokens, and names are lower-cased
// by the tokenizer. Only start, self-closing and end tags are reported.
//
// Offsets are exact; NameStart/NameEnd and the attribute fields are left zero
// because the tokenizer normalizes what it reads.
type Strict struct{}

func (Strict) Find(markup string) []Token {
	var tokens []Token
	z := html.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tokens
		}
		size := len(z.Raw())
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			kind := Open
			if tt == html.EndTagToken {
				kind = Close
			}
			tokens = append(tokens, Token{
				Kind:  kind,
				Start: offset,
				End:   offset + size,
				Name:  string(name),
			})
		}
		offset += size
	}
}
