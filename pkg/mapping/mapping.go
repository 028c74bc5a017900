// Package mapping ranks tags by the bytes their substitution saves and
// assigns them short numeric codes.
package mapping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/frequency"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

// Entry is one ranked tag. Savings approximates the bytes removed by coding
// the tag: count x name length.
type Entry struct {
	Tag     string `json:"tag" yaml:"tag"`
	Count   int    `json:"count" yaml:"count"`
	Savings int    `json:"savings" yaml:"savings"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
}

// Mapping assigns the codes "1".."k" to tags. Codes are dense and unique;
// tags outside the mapping pass through the codec untouched.
type Mapping struct {
	entries []Entry
	byTag   map[string]string
	byCode  map[string]string
}

// Rank computes the savings entry of every tag and orders them by savings,
// highest first. Equal savings keep the table's first-seen order.
func Rank(table *frequency.Table) []Entry {
	entries := make([]Entry, 0, table.Len())
	table.Each(func(tag string, count int) {
		entries = append(entries, Entry{
			Tag:     tag,
			Count:   count,
			Savings: count * len(tag),
		})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Savings > entries[j].Savings
	})
	return entries
}

// Build ranks the table and keeps at most maxMappings entries, coded 1..k
// in rank order.
func Build(table *frequency.Table, maxMappings int) (*Mapping, error) {
	if maxMappings <= 0 {
		return nil, fmt.Errorf("%w: max mappings must be a positive integer, got %d", models.ErrConfiguration, maxMappings)
	}
	ranked := Rank(table)
	if len(ranked) > maxMappings {
		ranked = ranked[:maxMappings]
	}
	for i := range ranked {
		ranked[i].Code = strconv.Itoa(i + 1)
	}
	return newMapping(ranked), nil
}

func newMapping(entries []Entry) *Mapping {
	m := &Mapping{
		entries: entries,
		byTag:   make(map[string]string, len(entries)),
		byCode:  make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		m.byTag[strings.ToLower(e.Tag)] = e.Code
		m.byCode[e.Code] = e.Tag
	}
	return m
}

// Code returns the code of tag, looked up case-insensitively.
func (m *Mapping) Code(tag string) (string, bool) {
	code, ok := m.byTag[strings.ToLower(tag)]
	return code, ok
}

// Tag returns the tag assigned to code. Only the canonical decimal form
// matches: "01" is not code 1.
func (m *Mapping) Tag(code string) (string, bool) {
	tag, ok := m.byCode[code]
	return tag, ok
}

// Len is the number of coded tags.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns the coded tags in code order.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Map returns tag -> code.
func (m *Mapping) Map() map[string]string {
	out := make(map[string]string, len(m.byTag))
	for k, v := range m.byTag {
		out[k] = v
	}
	return out
}

// Serialize writes the mapping as a comma-joined list where position i holds
// the tag coded i+1. An empty mapping serializes to "".
func (m *Mapping) Serialize() string {
	size := 0
	codes := make([]int, len(m.entries))
	for i, e := range m.entries {
		codes[i], _ = strconv.Atoi(e.Code)
		if codes[i] > size {
			size = codes[i]
		}
	}
	tags := make([]string, size)
	for i, e := range m.entries {
		tags[codes[i]-1] = e.Tag
	}
	return strings.Join(tags, ",")
}

// Parse is the inverse of Serialize. Empty slots leave their code unassigned,
// mirroring how the embedded decoder treats absent array entries.
func Parse(list string) (*Mapping, error) {
	var entries []Entry
	if list == "" {
		return newMapping(entries), nil
	}
	seen := make(map[string]bool)
	for i, tag := range strings.Split(list, ",") {
		if tag == "" {
			continue
		}
		if !tagscan.IsWordRun(tag) {
			return nil, fmt.Errorf("%w: %q is not a tag name", models.ErrMalformedPackage, tag)
		}
		if seen[tag] {
			return nil, fmt.Errorf("%w: tag %q listed twice in mapping", models.ErrMalformedPackage, tag)
		}
		seen[tag] = true
		entries = append(entries, Entry{Tag: tag, Code: strconv.Itoa(i + 1)})
	}
	return newMapping(entries), nil
}
