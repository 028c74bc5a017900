package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/m8pack/internal/analyze"
	"github.com/dtnitsch/m8pack/internal/compress"
	"github.com/dtnitsch/m8pack/internal/db"
	"github.com/dtnitsch/m8pack/internal/serve"
	"github.com/dtnitsch/m8pack/internal/unpack"
	"github.com/dtnitsch/m8pack/internal/verify"
	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/help"
	verifypkg "github.com/dtnitsch/m8pack/pkg/verify"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitUsage
	exitIO
	exitRoundTrip
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, models.ErrConfiguration), errors.Is(err, models.ErrInvalidInput):
		return exitUsage
	case errors.Is(err, models.ErrIO):
		return exitIO
	case errors.Is(err, models.ErrRoundTrip), errors.Is(err, models.ErrMalformedPackage):
		return exitRoundTrip
	default:
		return exitFailure
	}
}

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Only log errors",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

func configFlags() []cli.Flag {
	return append(logFlags(),
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file; explicit flags override it",
		},
		&cli.IntFlag{
			Name:  "max-mappings",
			Value: models.DefaultMaxMappings,
			Usage: "Maximum number of tags given a code",
		},
		&cli.StringFlag{
			Name:  "scanner",
			Value: models.ScannerPattern,
			Usage: "Tag scanner for frequency analysis: pattern or strict",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "Fail instead of writing output when the round trip is not exact",
		},
		&cli.StringFlag{
			Name:  "history-db",
			Usage: "Run history database (default: m8pack.db next to the binary)",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: models.ReportText,
			Usage: "Report format: text or yaml",
		},
		&cli.IntFlag{
			Name:  "top",
			Value: models.DefaultTopTags,
			Usage: "Number of tags listed in reports",
		},
	)
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "m8pack",
		Usage: "Build self-extracting, tag-compressed HTML pages",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress an HTML file into a self-extracting page",
				ArgsUsage: "<input.html> <output.html>",
				Flags: append(configFlags(),
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Do not record the run in the history database",
					},
				),
				Action: compress.CompressAction,
			},
			{
				Name:      "unpack",
				Usage:     "Recover the HTML held by a package",
				ArgsUsage: "<package.html> [output.html]",
				Flags:     logFlags(),
				Action:    unpack.UnpackAction,
			},
			{
				Name:      "verify",
				Usage:     "Check that a document survives compression, running the embedded decoder",
				ArgsUsage: "<input.html> [package.html]",
				Flags: append(configFlags(),
					&cli.DurationFlag{
						Name:  "timeout",
						Value: verifypkg.DefaultTimeout,
						Usage: "Limit for running the embedded decoder",
					},
				),
				Action: verify.VerifyAction,
			},
			{
				Name:      "analyze",
				Usage:     "Show tag frequencies, the mapping and hazards without writing anything",
				ArgsUsage: "<glob>...",
				Flags: append(configFlags(),
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "Files analyzed in parallel",
					},
				),
				Action: analyze.AnalyzeAction,
			},
			{
				Name:  "history",
				Usage: "List recorded compression runs",
				Flags: append(configFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum runs to list (0 for all)",
					},
					&cli.StringFlag{
						Name:  "input",
						Usage: "Only runs of this input path",
					},
				),
				Action: db.RunsAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show one run (latest if no ID given)",
						ArgsUsage: "[run-id]",
						Flags:     configFlags(),
						Action:    db.RunAction,
					},
					{
						Name:  "prune",
						Usage: "Delete old runs",
						Flags: append(configFlags(),
							&cli.StringFlag{
								Name:     "older-than",
								Usage:    "Age threshold, e.g. 720h",
								Required: true,
							},
						),
						Action: db.PruneAction,
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the compressor over HTTP",
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Value: ":8080",
						Usage: "Listen address",
					},
					&cli.IntFlag{
						Name:  "cache-size",
						Value: serve.DefaultCacheSize,
						Usage: "Cached results (0 disables the cache)",
					},
					&cli.Int64Flag{
						Name:  "max-body",
						Value: serve.DefaultMaxBody,
						Usage: "Maximum request body in bytes",
					},
				),
				Action: serve.ServeAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick start guide",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}
}
