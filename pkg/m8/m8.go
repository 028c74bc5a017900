// Package m8 is the compression pipeline: analyze tag frequencies, build the
// code mapping, encode the markup and wrap it in a self-extracting page.
//
// Every call is independent; nothing is shared between runs.
package m8

import (
	"fmt"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/codec"
	"github.com/dtnitsch/m8pack/pkg/frequency"
	"github.com/dtnitsch/m8pack/pkg/mapping"
	"github.com/dtnitsch/m8pack/pkg/pack"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

// Options tunes a run. A zero MaxMappings selects the default of 50; a
// negative one is a configuration error.
type Options struct {
	MaxMappings int
	Strict      bool
	Verify      bool
}

// OptionsFromConfig converts the runtime configuration.
func OptionsFromConfig(cfg models.Config) Options {
	return Options{
		MaxMappings: cfg.MaxMappings,
		Strict:      cfg.Scanner == models.ScannerStrict,
		Verify:      cfg.Verify,
	}
}

// Result is the finished package plus its statistics.
type Result struct {
	Package    string
	Compressed string
	Stats      Stats
}

// Stats describes a run. Sizes are in bytes.
type Stats struct {
	OriginalSize      int             `json:"original_size" yaml:"original_size"`
	CompressedSize    int             `json:"compressed_size" yaml:"compressed_size"`
	MappingSize       int             `json:"mapping_size" yaml:"mapping_size"`
	PackageSize       int             `json:"package_size" yaml:"package_size"`
	DecoderOverhead   int             `json:"decoder_overhead" yaml:"decoder_overhead"`
	SavingsPercent    float64         `json:"savings_percent" yaml:"savings_percent"`
	NetSavingsPercent float64         `json:"net_savings_percent" yaml:"net_savings_percent"`
	Title             string          `json:"title,omitempty" yaml:"title,omitempty"`
	MappingList       string          `json:"mapping_list" yaml:"mapping_list"`
	Tags              []mapping.Entry `json:"tags" yaml:"tags"`
	Hazards           []codec.Hazard  `json:"hazards,omitempty" yaml:"hazards,omitempty"`

	Frequency *frequency.Table `json:"-" yaml:"-"`
	Mapping   *mapping.Mapping `json:"-" yaml:"-"`
}

// Compress runs the whole pipeline over markup. With opts.Verify set, the
// compressed text is decoded again and the run fails with ErrRoundTrip if
// that does not reproduce the whitespace-collapsed input.
func Compress(markup string, opts Options) (*Result, error) {
	if opts.MaxMappings == 0 {
		opts.MaxMappings = models.DefaultMaxMappings
	}

	var finder tagscan.Finder = tagscan.Counting{}
	if opts.Strict {
		finder = tagscan.Strict{}
	}
	table, err := frequency.AnalyzeWith(markup, finder)
	if err != nil {
		return nil, fmt.Errorf("analyzing tag frequency: %w", err)
	}

	m, err := mapping.Build(table, opts.MaxMappings)
	if err != nil {
		return nil, fmt.Errorf("building mapping: %w", err)
	}

	compressed, err := codec.Encode(markup, m)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}

	hazards := codec.Hazards(markup, m)
	if opts.Verify {
		if err := checkRoundTrip(markup, compressed, m, hazards); err != nil {
			return nil, err
		}
	}

	pkg, err := pack.Assemble(compressed, m)
	if err != nil {
		return nil, fmt.Errorf("assembling package: %w", err)
	}

	stats := Stats{
		OriginalSize:    len(markup),
		CompressedSize:  len(compressed),
		PackageSize:     len(pkg),
		MappingList:     m.Serialize(),
		DecoderOverhead: pack.Overhead(pkg, compressed),
		Hazards:         hazards,
		Frequency:       table,
		Mapping:         m,
	}
	stats.MappingSize = len(stats.MappingList)
	stats.SavingsPercent = percentSaved(stats.OriginalSize, stats.CompressedSize)
	stats.NetSavingsPercent = percentSaved(stats.OriginalSize, stats.PackageSize)
	if title, ok := tagscan.Title(markup); ok {
		stats.Title = title
	}
	for _, e := range mapping.Rank(table) {
		e.Code, _ = m.Code(e.Tag)
		stats.Tags = append(stats.Tags, e)
	}

	return &Result{
		Package:    pkg,
		Compressed: compressed,
		Stats:      stats,
	}, nil
}

func checkRoundTrip(markup, compressed string, m *mapping.Mapping, hazards []codec.Hazard) error {
	decoded, err := codec.Decode(compressed, m)
	if err != nil {
		return fmt.Errorf("decoding for verification: %w", err)
	}
	want := codec.CollapseWhitespace(markup)
	if decoded == want {
		return nil
	}
	if len(hazards) > 0 {
		return fmt.Errorf("%w: %s", models.ErrRoundTrip, hazards[0])
	}
	return fmt.Errorf("%w: first difference at byte %d", models.ErrRoundTrip, FirstDifference(decoded, want))
}

// FirstDifference returns the first byte offset where a and b differ, or -1
// when they are equal.
func FirstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) == len(b) {
		return -1
	}
	return n
}

func percentSaved(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return float64(before-after) / float64(before) * 100
}

// Unpack recovers the markup a package renders, using the Go decoder.
func Unpack(pkg string) (string, error) {
	contents, err := pack.Extract(pkg)
	if err != nil {
		return "", err
	}
	return codec.Decode(contents.Compressed, contents.Mapping)
}
