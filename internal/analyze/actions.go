package analyze

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/m8pack/internal/common"
	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/mapping"
	"github.com/dtnitsch/m8pack/pkg/mapreduce"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

// FileAnalysis is the dry-run result for one input.
type FileAnalysis struct {
	Path        string          `yaml:"path"`
	Error       string          `yaml:"error,omitempty"`
	Size        int             `yaml:"size,omitempty"`
	TotalTags   int             `yaml:"total_tags,omitempty"`
	MappingList string          `yaml:"mapping_list,omitempty"`
	TopTags     []mapping.Entry `yaml:"top_tags,omitempty"`
	Hazards     []string        `yaml:"hazards,omitempty"`
}

// Output is what AnalyzeAction prints.
type Output struct {
	Files     []FileAnalysis `yaml:"files"`
	Aggregate Aggregate      `yaml:"aggregate"`
}

// Aggregate sums tag usage over every analyzed file.
type Aggregate struct {
	Files     int      `yaml:"files"`
	Failed    int      `yaml:"failed"`
	TotalTags int      `yaml:"total_tags"`
	TopTags   []string `yaml:"top_tags"`
}

// AnalyzeAction reports tag frequencies, the mapping that would be built and
// round-trip hazards for every file matching the given globs. Nothing is written.
func AnalyzeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	patterns := c.Args().Slice()
	if len(patterns) == 0 {
		return fmt.Errorf("%w: no input files given", models.ErrConfiguration)
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	var filePaths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			logger.Warn("error matching glob pattern, skipping", "pattern", pattern, "error", err)
			continue
		}
		filePaths = append(filePaths, matches...)
	}
	if len(filePaths) == 0 {
		return fmt.Errorf("%w: no files found matching glob patterns", models.ErrIO)
	}

	var finder tagscan.Finder = tagscan.Counting{}
	if cfg.Scanner == models.ScannerStrict {
		finder = tagscan.Strict{}
	}

	files, counts := run(logger, filePaths, c.Int("workers"), finder, cfg)

	out := Output{Files: files, Aggregate: Aggregate{Files: len(files)}}
	for _, f := range files {
		if f.Error != "" {
			out.Aggregate.Failed++
		}
	}
	for _, n := range counts {
		out.Aggregate.TotalTags += n
	}
	out.Aggregate.TopTags = mapreduce.TopTags(counts, cfg.TopTags)

	yamlBytes, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	fmt.Print(string(yamlBytes))
	return nil
}
