package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/m8pack/internal/common"
	"github.com/dtnitsch/m8pack/models"
	dbpkg "github.com/dtnitsch/m8pack/pkg/db"
	"github.com/dtnitsch/m8pack/pkg/storage"
)

func openHistory(c *cli.Context) (*dbpkg.DB, models.Config, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, cfg, err
	}
	database, err := common.OpenHistory(cfg)
	return database, cfg, err
}

// RunsAction lists recorded compression runs, newest first.
func RunsAction(c *cli.Context) error {
	database, cfg, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.String("input"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if cfg.ReportFormat == models.ReportYAML {
		return printYAML(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-36s %-20s %-10s %-10s %-8s %-8s %-30s\n",
		"Run", "Created", "Original", "Package", "Pure", "Net", "Input")
	fmt.Println(strings.Repeat("-", 128))

	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-10s %-10s %-8s %-8s %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			humanize.Bytes(uint64(r.OriginalSize)),
			humanize.Bytes(uint64(r.PackageSize)),
			fmt.Sprintf("%.1f%%", r.SavingsPercent),
			fmt.Sprintf("%.1f%%", r.NetSavingsPercent),
			r.InputPath,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'm8pack history show <run-id>' to see details\n")

	return nil
}

// RunAction shows one run with its tag table. Without an argument the
// latest run is shown.
func RunAction(c *cli.Context) error {
	database, cfg, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, tags, err := database.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	if cfg.ReportFormat == models.ReportYAML {
		return printYAML(struct {
			Run  *dbpkg.Run     `yaml:"run"`
			Tags []dbpkg.RunTag `yaml:"tags"`
		}{run, tags})
	}

	fmt.Printf("Run %s\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:      %s (%s)\n", run.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(run.CreatedAt))
	fmt.Printf("Input:        %s\n", run.InputPath)
	fmt.Printf("Output:       %s%s\n", run.OutputPath, outputState(run))
	if run.Title != "" {
		fmt.Printf("Title:        %s\n", run.Title)
	}
	fmt.Printf("Settings:     max %d mappings, %s scanner\n", run.MaxMappings, run.Scanner)
	fmt.Printf("Sizes:        %s -> %s compressed, %s package\n",
		humanize.Comma(int64(run.OriginalSize)),
		humanize.Comma(int64(run.CompressedSize)),
		humanize.Comma(int64(run.PackageSize)))
	fmt.Printf("Savings:      %.1f%% pure, %.1f%% net\n", run.SavingsPercent, run.NetSavingsPercent)
	fmt.Printf("Hazards:      %d\n", run.HazardCount)

	if len(tags) > 0 {
		fmt.Printf("\nTags (%d):\n", len(tags))
		fmt.Println(strings.Repeat("-", 60))
		for _, t := range tags {
			code := t.Code
			if code == "" {
				code = "-"
			}
			fmt.Printf("  %-12s code %-4s count %-6d saves %d\n", t.Tag, code, t.Count, t.Savings)
		}
	}

	return nil
}

// PruneAction deletes runs older than --older-than.
func PruneAction(c *cli.Context) error {
	age, err := time.ParseDuration(c.String("older-than"))
	if err != nil || age <= 0 {
		return fmt.Errorf("%w: invalid --older-than duration %q", models.ErrConfiguration, c.String("older-than"))
	}

	database, _, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.DeleteRunsBefore(time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Deleted %d runs older than %s\n", n, age)
	return nil
}

// outputState tells whether the package written by the run is still on disk.
func outputState(run *dbpkg.Run) string {
	if run.OutputPath == "-" {
		return ""
	}
	s := &storage.Storage{}
	if !s.HasFile(run.OutputPath) {
		return " (missing)"
	}
	st, err := s.GetFileStats(run.OutputPath)
	if err != nil {
		return ""
	}
	if st.SizeBytes != int64(run.PackageSize) || st.ModTime.Before(run.CreatedAt.Add(-time.Minute)) {
		return fmt.Sprintf(" (changed since run, %s)", humanize.Bytes(uint64(st.SizeBytes)))
	}
	return " (present)"
}

func printYAML(v any) error {
	yamlBytes, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	fmt.Print(string(yamlBytes))
	return nil
}
