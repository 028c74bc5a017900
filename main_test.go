package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/m8pack/models"
	dbpkg "github.com/dtnitsch/m8pack/pkg/db"
)

const sample = `<html><head><title>Demo</title></head><body>
  <div class="a"><p>Hi</p></div>
  <div>Bye</div>
</body></html>`

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{fmt.Errorf("x: %w", models.ErrConfiguration), exitUsage},
		{fmt.Errorf("x: %w", models.ErrInvalidInput), exitUsage},
		{fmt.Errorf("x: %w", models.ErrIO), exitIO},
		{fmt.Errorf("x: %w", models.ErrRoundTrip), exitRoundTrip},
		{fmt.Errorf("x: %w", models.ErrMalformedPackage), exitRoundTrip},
		{errors.New("other"), exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCompressUnpackHistory(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.html")
	output := filepath.Join(dir, "page.m8.html")
	restored := filepath.Join(dir, "restored.html")
	history := filepath.Join(dir, "history.db")

	if err := os.WriteFile(input, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) error {
		return newApp().Run(append([]string{"m8pack"}, args...))
	}

	if err := run("compress", "--quiet", "--verify", "--format", "yaml", "--history-db", history, input, output); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := run("unpack", "--quiet", output, restored); err != nil {
		t.Fatalf("unpack: %v", err)
	}

	got, err := os.ReadFile(restored)
	if err != nil {
		t.Fatal(err)
	}
	want := `<html><head><title>Demo</title></head><body><div class="a"><p>Hi</p></div><div>Bye</div></body></html>`
	if string(got) != want {
		t.Errorf("restored = %q, want %q", got, want)
	}

	database, err := dbpkg.Open(history)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	runs, err := database.ListRuns(input, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(runs))
	}
	if runs[0].OutputPath != output || runs[0].Title != "Demo" {
		t.Errorf("recorded run = %+v", runs[0])
	}

	if err := run("history", "--quiet", "--history-db", history, "--format", "yaml"); err != nil {
		t.Errorf("history: %v", err)
	}
	if err := run("history", "show", "--history-db", history); err != nil {
		t.Errorf("history show: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.html")
	if err := os.WriteFile(input, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	notPackage := filepath.Join(dir, "plain.html")
	if err := os.WriteFile(notPackage, []byte("<p>plain</p>"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing output", []string{"compress", "--quiet", input}, models.ErrConfiguration},
		{"zero mappings", []string{"compress", "--quiet", "--no-history", "--max-mappings", "0", input, filepath.Join(dir, "o.html")}, models.ErrConfiguration},
		{"missing input", []string{"compress", "--quiet", "--no-history", filepath.Join(dir, "nope.html"), filepath.Join(dir, "o.html")}, models.ErrIO},
		{"unpack plain html", []string{"unpack", "--quiet", notPackage, filepath.Join(dir, "r.html")}, models.ErrMalformedPackage},
		{"missing config file", []string{"analyze", "--quiet", "--config", filepath.Join(dir, "none.yaml"), input}, models.ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newApp().Run(append([]string{"m8pack"}, tt.args...))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "o.html")); !os.IsNotExist(err) {
		t.Errorf("failed run left an output file behind")
	}
}

func TestVerifyAndAnalyze(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.html")
	if err := os.WriteFile(input, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	app := newApp()
	if err := app.Run([]string{"m8pack", "verify", "--quiet", input}); err != nil {
		t.Errorf("verify: %v", err)
	}
	if err := newApp().Run([]string{"m8pack", "analyze", "--quiet", filepath.Join(dir, "*.html")}); err != nil {
		t.Errorf("analyze: %v", err)
	}
}
