// Package report renders the statistics of a compression run for people
// (text) and for tools (YAML).
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/m8pack/pkg/m8"
	"github.com/dtnitsch/m8pack/pkg/mapping"
)

// Summary is everything a report shows.
type Summary struct {
	RunID       string          `yaml:"run_id,omitempty"`
	GeneratedAt string          `yaml:"generated_at"`
	Input       string          `yaml:"input"`
	Output      string          `yaml:"output"`
	Stats       m8.Stats        `yaml:"stats"`
	TopTags     []mapping.Entry `yaml:"top_tags"`
	Document    *Document       `yaml:"document,omitempty"`
}

// NewSummary collects the report for one run.
func NewSummary(input, output string, stats m8.Stats, topN int, doc *Document) Summary {
	return Summary{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Input:       input,
		Output:      output,
		Stats:       stats,
		TopTags:     TopTags(stats.Tags, topN),
		Document:    doc,
	}
}

func bytesLine(n int) string {
	return fmt.Sprintf("%s bytes", humanize.Comma(int64(n)))
}

// WriteText prints the human-readable report.
func WriteText(w io.Writer, s Summary) error {
	rule := strings.Repeat("=", 60)
	st := s.Stats

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintln(&b, "Dynamic Self-Contained .m8 Generator")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Input:  %s\n", s.Input)
	fmt.Fprintf(&b, "Output: %s\n", s.Output)
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run:    %s\n", s.RunID)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "✓ Generation complete!")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "File Sizes:")
	fmt.Fprintf(&b, "  Original HTML:      %s (%s)\n", bytesLine(st.OriginalSize), humanize.Bytes(uint64(st.OriginalSize)))
	fmt.Fprintf(&b, "  Compressed .m8:     %s\n", bytesLine(st.CompressedSize))
	fmt.Fprintf(&b, "  Mapping table:      %s\n", bytesLine(st.MappingSize))
	fmt.Fprintf(&b, "  Self-Contained:     %s (%s)\n", bytesLine(st.PackageSize), humanize.Bytes(uint64(st.PackageSize)))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Compression Analysis:")
	fmt.Fprintf(&b, "  Pure compression:   %.1f%%\n", st.SavingsPercent)
	fmt.Fprintf(&b, "  Decompressor size:  %s\n", bytesLine(st.DecoderOverhead))
	fmt.Fprintf(&b, "  Net savings:        %.1f%%\n", st.NetSavingsPercent)
	fmt.Fprintln(&b)

	if len(s.TopTags) > 0 {
		fmt.Fprintf(&b, "Top %d Compressed Tags:\n", len(s.TopTags))
		for _, e := range s.TopTags {
			fmt.Fprintf(&b, "  %s\n", FormatTag(e))
		}
		fmt.Fprintln(&b)
	}

	if len(st.Hazards) > 0 {
		fmt.Fprintf(&b, "Round-trip hazards (%d):\n", len(st.Hazards))
		for _, h := range st.Hazards {
			fmt.Fprintf(&b, "  %s\n", h)
		}
		fmt.Fprintln(&b)
	}

	if d := s.Document; d != nil {
		fmt.Fprintln(&b, "Document:")
		if d.Title != "" {
			fmt.Fprintf(&b, "  Title:    %s\n", d.Title)
		}
		if d.Byline != "" {
			fmt.Fprintf(&b, "  Byline:   %s\n", d.Byline)
		}
		if d.SiteName != "" {
			fmt.Fprintf(&b, "  Site:     %s\n", d.SiteName)
		}
		fmt.Fprintf(&b, "  Words:    %s\n", humanize.Comma(int64(d.WordCount)))
		fmt.Fprintln(&b)
	}

	if s.Output != "" && s.Output != "-" {
		fmt.Fprintln(&b, "Now open the file in a browser:")
		abs, err := filepath.Abs(s.Output)
		if err != nil {
			abs = s.Output
		}
		fmt.Fprintf(&b, "  file://%s\n", filepath.ToSlash(abs))
	}
	fmt.Fprintf(&b, "%s\n\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteYAML prints the report as YAML.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return enc.Close()
}
