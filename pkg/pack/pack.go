// Package pack wraps compressed markup in a self-extracting HTML document and
// reads such documents back.
//
// The embedded decoder is rendered from bootstrap.tmpl. Its token pattern,
// attribute pattern, alias table and title pattern are filled in from the Go
// constants the codec itself uses, so the two decoders share one definition.
package pack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/codec"
	"github.com/dtnitsch/m8pack/pkg/mapping"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

//go:embed bootstrap.tmpl
var bootstrapSource string

var bootstrap = template.Must(template.New("bootstrap").Parse(bootstrapSource))

type bootstrapData struct {
	Compressed   string
	Mapping      string
	Aliases      string
	TokenPattern string
	AttrPattern  string
	TitlePattern string
}

// jsString renders s as a double-quoted script string. json.Marshal escapes
// <, > and & as \u00XX, which keeps the value inert inside a script element.
func jsString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("pack: marshal %T: %v", v, err))
	}
	return string(b)
}

var shared = bootstrapData{
	Aliases:      jsString(codec.AliasCodes()),
	TokenPattern: jsString(tagscan.TokenPattern),
	AttrPattern:  jsString(codec.DecodeAttrPattern()),
	TitlePattern: jsString(tagscan.TitlePattern),
}

// Assemble renders the self-extracting document for compressed markup coded
// with m. At load time the page decodes the markup, takes its title from the
// first <title> element and replaces itself with the result. Running the
// script twice would write the document twice; nothing guards against it.
func Assemble(compressed string, m *mapping.Mapping) (string, error) {
	data := shared
	data.Compressed = EscapeLiteral(compressed)
	data.Mapping = EscapeLiteral(m.Serialize())

	var b strings.Builder
	b.Grow(len(bootstrapSource) + len(data.Compressed) + len(data.Mapping) + 256)
	if err := bootstrap.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering bootstrap: %w", err)
	}
	return b.String(), nil
}

// Contents is what Extract recovers from a package.
type Contents struct {
	Compressed  string
	MappingList string
	Mapping     *mapping.Mapping
}

var (
	compressedLiteral = regexp.MustCompile(`(?s)var m8='((?:[^'\\]|\\.)*)';`)
	mappingLiteral    = regexp.MustCompile(`(?s)var tm='((?:[^'\\]|\\.)*)'\.split\(','\);`)
)

// Extract reads the compressed markup and the mapping back out of a package
// produced by Assemble.
func Extract(pkg string) (*Contents, error) {
	cm := compressedLiteral.FindStringSubmatch(pkg)
	if cm == nil {
		return nil, fmt.Errorf("%w: compressed literal not found", models.ErrMalformedPackage)
	}
	mm := mappingLiteral.FindStringSubmatch(pkg)
	if mm == nil {
		return nil, fmt.Errorf("%w: mapping literal not found", models.ErrMalformedPackage)
	}

	list := UnescapeLiteral(mm[1])
	m, err := mapping.Parse(list)
	if err != nil {
		return nil, err
	}
	return &Contents{
		Compressed:  UnescapeLiteral(cm[1]),
		MappingList: list,
		Mapping:     m,
	}, nil
}

// Script returns the body of the package's script element.
func Script(pkg string) (string, error) {
	start := strings.Index(pkg, "<script>")
	end := strings.LastIndex(pkg, "</script>")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: script element not found", models.ErrMalformedPackage)
	}
	return pkg[start+len("<script>") : end], nil
}

// Overhead is the size of the package minus its payload: the fixed shell and
// decoder, plus escaping.
func Overhead(pkg, compressed string) int {
	return len(pkg) - len(compressed)
}
