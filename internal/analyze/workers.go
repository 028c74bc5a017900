package analyze

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/codec"
	"github.com/dtnitsch/m8pack/pkg/frequency"
	"github.com/dtnitsch/m8pack/pkg/mapping"
	"github.com/dtnitsch/m8pack/pkg/mapreduce"
	"github.com/dtnitsch/m8pack/pkg/report"
	"github.com/dtnitsch/m8pack/pkg/storage"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

// Job is one file to analyze.
type Job struct {
	Index int
	Path  string
}

// Result holds the outcome of a processed job.
type Result struct {
	Index     int
	Analysis  FileAnalysis
	TagCounts map[string]int
}

// run analyzes every path with a pool of workers. Each file is an independent
// pipeline; results come back in input order with the aggregated tag counts.
func run(logger *slog.Logger, paths []string, workerCount int, finder tagscan.Finder, cfg models.Config) ([]FileAnalysis, map[string]int) {
	if workerCount < 1 {
		workerCount = 1
	}

	logger.Info("Starting analysis", "file_count", len(paths), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(paths))
	results := make(chan Result, len(paths))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, finder, cfg, &wg, jobs, results)
	}

	for i, path := range paths {
		jobs <- Job{Index: i, Path: path}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Debug("All analysis workers finished")

	collected := make([]Result, 0, len(paths))
	for result := range results {
		collected = append(collected, result)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].Index < collected[j].Index })

	analyses := make([]FileAnalysis, len(collected))
	intermediateResults := []map[string]int{}
	for i, result := range collected {
		analyses[i] = result.Analysis
		if result.TagCounts != nil {
			intermediateResults = append(intermediateResults, result.TagCounts)
		}
	}
	return analyses, mapreduce.Reduce(intermediateResults)
}

func worker(id int, logger *slog.Logger, finder tagscan.Finder, cfg models.Config, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	s := &storage.Storage{}
	for job := range jobs {
		logger.Debug("Worker started job", "worker_id", id, "path", job.Path)
		analysis, counts, err := analyzeFile(s, job.Path, finder, cfg)
		if err != nil {
			logger.Error("failed to analyze file", "worker_id", id, "path", job.Path, "error", err)
			analysis = FileAnalysis{Path: job.Path, Error: err.Error()}
		}
		results <- Result{Index: job.Index, Analysis: analysis, TagCounts: counts}
	}
}

func analyzeFile(s *storage.Storage, path string, finder tagscan.Finder, cfg models.Config) (FileAnalysis, map[string]int, error) {
	raw, err := s.ReadFile(path)
	if err != nil {
		return FileAnalysis{}, nil, err
	}
	markup := string(raw)

	table, err := frequency.AnalyzeWith(markup, finder)
	if err != nil {
		return FileAnalysis{}, nil, err
	}
	m, err := mapping.Build(table, cfg.MaxMappings)
	if err != nil {
		return FileAnalysis{}, nil, err
	}

	ranked := mapping.Rank(table)
	for i := range ranked {
		ranked[i].Code, _ = m.Code(ranked[i].Tag)
	}

	res := FileAnalysis{
		Path:        path,
		Size:        len(markup),
		TotalTags:   table.Total(),
		MappingList: m.Serialize(),
		TopTags:     report.TopTags(ranked, cfg.TopTags),
	}
	for _, h := range codec.Hazards(markup, m) {
		res.Hazards = append(res.Hazards, h.String())
	}
	return res, mapreduce.Map(table), nil
}
