// Package verify checks that a package renders the document it was built from.
package verify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/m8pack/pkg/codec"
	"github.com/dtnitsch/m8pack/pkg/jsrun"
	"github.com/dtnitsch/m8pack/pkg/m8"
	"github.com/dtnitsch/m8pack/pkg/mapping"
	"github.com/dtnitsch/m8pack/pkg/pack"
)

// DefaultTimeout bounds the embedded decoder run.
const DefaultTimeout = 30 * time.Second

// Report is the outcome of Check. Expected is the whitespace-collapsed input,
// the best any decoder can reproduce.
type Report struct {
	GoExact          bool           `json:"go_exact" yaml:"go_exact"`
	GoFirstDiff      int            `json:"go_first_diff" yaml:"go_first_diff"`
	EmbeddedExact    bool           `json:"embedded_exact" yaml:"embedded_exact"`
	EmbeddedMatchGo  bool           `json:"embedded_matches_go" yaml:"embedded_matches_go"`
	StructureMatches bool           `json:"structure_matches" yaml:"structure_matches"`
	StructureDiff    string         `json:"structure_diff,omitempty" yaml:"structure_diff,omitempty"`
	Title            string         `json:"title" yaml:"title"`
	Hazards          []codec.Hazard `json:"hazards,omitempty" yaml:"hazards,omitempty"`
}

// OK reports whether both decoders reproduced the expected markup.
func (r *Report) OK() bool {
	return r.GoExact && r.EmbeddedExact
}

// Check compresses markup, then decodes the package with the Go decoder and
// by executing its embedded script, and compares both results with the
// input at byte level and at element level.
func Check(markup string, opts m8.Options, timeout time.Duration) (*Report, error) {
	opts.Verify = false
	res, err := m8.Compress(markup, opts)
	if err != nil {
		return nil, err
	}
	return CheckPackage(markup, res.Package, timeout)
}

// CheckPackage verifies an existing package against the markup it claims to hold.
func CheckPackage(markup, pkg string, timeout time.Duration) (*Report, error) {
	expected := codec.CollapseWhitespace(markup)

	goDecoded, err := m8.Unpack(pkg)
	if err != nil {
		return nil, fmt.Errorf("go decoder: %w", err)
	}
	render, err := jsrun.Run(pkg, timeout)
	if err != nil {
		return nil, fmt.Errorf("embedded decoder: %w", err)
	}

	r := &Report{
		GoFirstDiff:     m8.FirstDifference(goDecoded, expected),
		EmbeddedExact:   render.HTML == expected,
		EmbeddedMatchGo: render.HTML == goDecoded,
		Title:           render.Title,
	}
	r.GoExact = r.GoFirstDiff < 0

	if m, err := extractMapping(pkg); err == nil {
		r.Hazards = codec.Hazards(markup, m)
	}

	diff, err := CompareStructure(expected, goDecoded)
	if err != nil {
		return nil, err
	}
	r.StructureMatches = diff == ""
	r.StructureDiff = diff
	return r, nil
}

// Structure lists the elements of markup in document order as
// "name[attr,attr]" with attribute names sorted, as the HTML parser sees them.
func Structure(markup string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}
	var out []string
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		names := make([]string, 0, len(s.Nodes[0].Attr))
		for _, a := range s.Nodes[0].Attr {
			names = append(names, a.Key)
		}
		sort.Strings(names)
		out = append(out, goquery.NodeName(s)+"["+strings.Join(names, ",")+"]")
	})
	return out, nil
}

// CompareStructure returns "" when both documents parse to the same element
// sequence, otherwise a description of the first difference.
func CompareStructure(want, got string) (string, error) {
	a, err := Structure(want)
	if err != nil {
		return "", err
	}
	b, err := Structure(got)
	if err != nil {
		return "", err
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return fmt.Sprintf("element %d: want %s, got %s", i, a[i], b[i]), nil
		}
	}
	if len(a) != len(b) {
		return fmt.Sprintf("element count: want %d, got %d", len(a), len(b)), nil
	}
	return "", nil
}

func extractMapping(pkg string) (*mapping.Mapping, error) {
	contents, err := pack.Extract(pkg)
	if err != nil {
		return nil, err
	}
	return contents.Mapping, nil
}
