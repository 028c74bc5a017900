package common

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/db"
)

// NewLogger builds the JSON stderr logger shared by every command.
// --quiet wins over --log-level.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig starts from --config (or the defaults) and applies every flag
// the user set explicitly on top.
func LoadConfig(c *cli.Context) (models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = models.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("max-mappings") {
		cfg.MaxMappings = c.Int("max-mappings")
	}
	if c.IsSet("scanner") {
		cfg.Scanner = c.String("scanner")
	}
	if c.IsSet("verify") {
		cfg.Verify = c.Bool("verify")
	}
	if c.IsSet("history-db") {
		cfg.HistoryDB = c.String("history-db")
	}
	if c.IsSet("format") {
		cfg.ReportFormat = c.String("format")
	}
	if c.IsSet("top") {
		cfg.TopTags = c.Int("top")
	}

	return cfg, cfg.Validate()
}

// OpenHistory opens the run history named by the configuration.
func OpenHistory(cfg models.Config) (*db.DB, error) {
	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("%w: opening history: %v", models.ErrIO, err)
	}
	return database, nil
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
