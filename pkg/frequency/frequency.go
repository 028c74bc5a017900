// Package frequency counts tag occurrences in markup.
package frequency

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

// Table maps lower-cased tag names to occurrence counts. Opening and closing
// tags count alike. Tags are remembered in first-seen order, which is the
// tie-break the mapping builder relies on.
type Table struct {
	counts map[string]int
	order  []string
}

// Analyze counts every tag-like sequence in markup with the lenient pattern
// scanner. Nothing is validated: malformed sequences that match count too.
func Analyze(markup string) (*Table, error) {
	return AnalyzeWith(markup, tagscan.Counting{})
}

// AnalyzeWith counts the tokens reported by f. Names that are not word runs
// (custom elements such as my-widget under the strict scanner) are skipped
// because the codec could never substitute them.
func AnalyzeWith(markup string, f tagscan.Finder) (*Table, error) {
	if !utf8.ValidString(markup) {
		return nil, fmt.Errorf("%w: markup is not valid UTF-8", models.ErrInvalidInput)
	}

	t := &Table{counts: make(map[string]int)}
	for _, tok := range f.Find(markup) {
		if !tagscan.IsWordRun(tok.Name) {
			continue
		}
		name := strings.ToLower(tok.Name)
		if _, seen := t.counts[name]; !seen {
			t.order = append(t.order, name)
		}
		t.counts[name]++
	}
	return t, nil
}

// Count returns how often tag occurred; zero when it never did.
func (t *Table) Count(tag string) int {
	return t.counts[strings.ToLower(tag)]
}

// Len is the number of distinct tags.
func (t *Table) Len() int {
	return len(t.order)
}

// Tags returns the distinct tags in first-seen order.
func (t *Table) Tags() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Each calls fn for every tag in first-seen order.
func (t *Table) Each(fn func(tag string, count int)) {
	for _, tag := range t.order {
		fn(tag, t.counts[tag])
	}
}

// Map returns a copy of the counts.
func (t *Table) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Total is the number of counted tag occurrences.
func (t *Table) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}
