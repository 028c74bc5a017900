package compress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/m8pack/internal/common"
	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/db"
	"github.com/dtnitsch/m8pack/pkg/m8"
	"github.com/dtnitsch/m8pack/pkg/report"
	"github.com/dtnitsch/m8pack/pkg/storage"
)

// CompressAction handles `m8pack compress <input> <output>`.
func CompressAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	if c.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: m8pack compress <input.html> <output.html>")
		fmt.Fprintln(os.Stderr, "Use - for stdin or stdout.")
		return fmt.Errorf("%w: expected 2 arguments, got %d", models.ErrConfiguration, c.NArg())
	}
	input, output := c.Args().Get(0), c.Args().Get(1)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	s := &storage.Storage{}
	raw, err := s.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("input loaded", "input", input, "bytes", len(raw))

	res, err := m8.Compress(string(raw), m8.OptionsFromConfig(cfg))
	if err != nil {
		logger.Error("compression failed", "input", input, "error", err)
		return err
	}
	for _, h := range res.Stats.Hazards {
		logger.Warn("round-trip hazard", "kind", h.Kind, "offset", h.Offset, "detail", h.Detail)
	}

	if output != "-" && s.HasFile(output) {
		logger.Info("overwriting existing output", "output", output)
	}
	if err := s.SaveFile(output, []byte(res.Package)); err != nil {
		return err
	}
	logger.Info("package written",
		"output", output,
		"original_size", res.Stats.OriginalSize,
		"package_size", res.Stats.PackageSize,
		"mappings", res.Stats.Mapping.Len(),
		"duration", time.Since(startTime).String(),
	)

	runID := uuid.NewString()
	if !c.Bool("no-history") {
		if err := recordRun(logger, cfg, runID, input, output, res.Stats); err != nil {
			// History is a convenience; the package is already written.
			logger.Warn("failed to record run", "error", err)
			runID = ""
		}
	}

	summary := report.NewSummary(input, output, res.Stats, cfg.TopTags, report.Describe(string(raw), input))
	summary.RunID = runID
	return writeSummary(reportWriter(output), cfg.ReportFormat, summary)
}

// reportWriter keeps the report out of the package when the package goes to stdout.
func reportWriter(output string) io.Writer {
	if output == "-" {
		return os.Stderr
	}
	return os.Stdout
}

func writeSummary(w io.Writer, format string, summary report.Summary) error {
	if format == models.ReportYAML {
		return report.WriteYAML(w, summary)
	}
	return report.WriteText(w, summary)
}

func recordRun(logger *slog.Logger, cfg models.Config, runID, input, output string, st m8.Stats) error {
	database, err := common.OpenHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	run, tags := HistoryRecord(cfg, input, output, st)
	run.RunID = runID
	if _, err := database.InsertRun(run, tags); err != nil {
		return fmt.Errorf("%w: %v", models.ErrIO, err)
	}
	logger.Debug("run recorded", "run_id", runID, "db", database.Path())
	return nil
}

// HistoryRecord converts run statistics into history rows.
func HistoryRecord(cfg models.Config, input, output string, st m8.Stats) (db.Run, []db.RunTag) {
	run := db.Run{
		InputPath:         input,
		OutputPath:        output,
		MaxMappings:       cfg.MaxMappings,
		Scanner:           cfg.Scanner,
		OriginalSize:      st.OriginalSize,
		CompressedSize:    st.CompressedSize,
		PackageSize:       st.PackageSize,
		MappingSize:       st.MappingSize,
		SavingsPercent:    st.SavingsPercent,
		NetSavingsPercent: st.NetSavingsPercent,
		MappingList:       st.MappingList,
		HazardCount:       len(st.Hazards),
		Title:             st.Title,
	}
	tags := make([]db.RunTag, 0, len(st.Tags))
	for _, e := range st.Tags {
		tags = append(tags, db.RunTag{Tag: e.Tag, Count: e.Count, Savings: e.Savings, Code: e.Code})
	}
	return run, tags
}
