// Package codec rewrites markup with tag codes and attribute aliases, and
// reverses the rewrite.
//
// Substitution is textual. Tokens come from tagscan.Pattern; attribute names
// are only recognised when preceded by whitespace and followed by '='. Quotes
// are not tracked, so attribute values that contain such a sequence are
// rewritten as well. This is symmetric for the long names (encode then decode
// restores them) but an attribute or value containing a whitespace-anchored
// alias code such as " c=" is expanded by the decoder. Hazards reports those
// cases for a given document.
package codec

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/mapping"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

var interTagSpace = regexp.MustCompile(">" + Whitespace + "+<")

// CollapseWhitespace deletes whitespace runs lying strictly between '>' and
// the next '<'. It is one-way: decoding never restores them.
func CollapseWhitespace(markup string) string {
	return interTagSpace.ReplaceAllString(markup, "><")
}

// Encode collapses inter-tag whitespace, then replaces tag names with their
// codes and alias attribute names with their one-letter codes. Tags missing
// from m pass through unchanged.
func Encode(markup string, m *mapping.Mapping) (string, error) {
	if !utf8.ValidString(markup) {
		return "", fmt.Errorf("%w: markup is not valid UTF-8", models.ErrInvalidInput)
	}
	return rewrite(CollapseWhitespace(markup), func(name string) string {
		if code, ok := m.Code(name); ok {
			return code
		}
		return name
	}, EncodeAttrs), nil
}

// Decode reverses Encode's substitutions (not the whitespace collapse).
// A token whose name is not an assigned code is left unchanged.
func Decode(compressed string, m *mapping.Mapping) (string, error) {
	if !utf8.ValidString(compressed) {
		return "", fmt.Errorf("%w: compressed markup is not valid UTF-8", models.ErrInvalidInput)
	}
	return rewrite(compressed, func(code string) string {
		if tag, ok := m.Tag(code); ok {
			return tag
		}
		return code
	}, DecodeAttrs), nil
}

func rewrite(markup string, name func(string) string, attrs func(string) string) string {
	tokens := tagscan.Pattern{}.Find(markup)
	if len(tokens) == 0 {
		return markup
	}

	var b strings.Builder
	b.Grow(len(markup))
	last := 0
	for _, tok := range tokens {
		b.WriteString(markup[last:tok.Start])
		switch tok.Kind {
		case tagscan.Open:
			b.WriteByte('<')
			b.WriteString(name(tok.Name))
			b.WriteString(attrs(tok.Attrs))
			b.WriteByte('>')
		case tagscan.Close:
			b.WriteString("</")
			b.WriteString(name(tok.Name))
			b.WriteByte('>')
		}
		last = tok.End
	}
	b.WriteString(markup[last:])
	return b.String()
}
