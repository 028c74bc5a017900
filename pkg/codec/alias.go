package codec

import (
	"regexp"
	"strings"
)

// Alias pairs a well-known attribute name with its one-letter code.
type Alias struct {
	Name string
	Code string
}

// Aliases is the fixed attribute table. It is the same for every document
// and is rendered into the embedded decoder from here.
var Aliases = []Alias{
	{"class", "c"},
	{"id", "i"},
	{"style", "s"},
	{"src", "r"},
	{"href", "h"},
	{"alt", "a"},
	{"title", "t"},
	{"type", "y"},
	{"name", "n"},
	{"value", "v"},
	{"placeholder", "p"},
}

// Whitespace is the character class that anchors an attribute name and that
// the collapse step removes between tags. Spelled out so that Go and the
// embedded ECMAScript decoder agree on it exactly.
const Whitespace = `[\t\n\f\r ]`

var (
	nameToCode = make(map[string]string, len(Aliases))
	codeToName = make(map[string]string, len(Aliases))

	encodeAttrRE *regexp.Regexp
	decodeAttrRE *regexp.Regexp
)

func init() {
	names := make([]string, len(Aliases))
	codes := make([]string, len(Aliases))
	for i, a := range Aliases {
		nameToCode[a.Name] = a.Code
		codeToName[a.Code] = a.Name
		names[i] = a.Name
		codes[i] = a.Code
	}
	encodeAttrRE = regexp.MustCompile(AttrPattern(names))
	decodeAttrRE = regexp.MustCompile(AttrPattern(codes))
}

// AttrPattern builds the anchored attribute pattern for the given names:
// one whitespace character (group 1), the name (group 2), then '='.
func AttrPattern(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return "(" + Whitespace + ")(" + strings.Join(quoted, "|") + ")="
}

// DecodeAttrPattern is the pattern the decoder uses to find alias codes.
func DecodeAttrPattern() string {
	return decodeAttrRE.String()
}

// AliasCodes returns code -> attribute name, the decoder's view of the table.
func AliasCodes() map[string]string {
	out := make(map[string]string, len(codeToName))
	for k, v := range codeToName {
		out[k] = v
	}
	return out
}

func replaceAttrs(re *regexp.Regexp, table map[string]string, attrs string) string {
	if attrs == "" {
		return attrs
	}
	return re.ReplaceAllStringFunc(attrs, func(m string) string {
		// m is one whitespace byte, the name, then '='.
		return m[:1] + table[m[1:len(m)-1]] + "="
	})
}

// EncodeAttrs replaces every whitespace-anchored alias attribute name in attrs
// with its code. The anchoring whitespace character is kept as is.
func EncodeAttrs(attrs string) string {
	return replaceAttrs(encodeAttrRE, nameToCode, attrs)
}

// DecodeAttrs is the inverse of EncodeAttrs.
func DecodeAttrs(attrs string) string {
	return replaceAttrs(decodeAttrRE, codeToName, attrs)
}
