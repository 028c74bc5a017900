package jsrun

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/m8pack/models"
)

func TestRunCapturesDocument(t *testing.T) {
	pkg := `<html><body><script>
document.title = "T";
document.open();
document.write("<p>a</p>");
document.write("<p>b</p>");
document.close();
</script></body></html>`

	r, err := Run(pkg, time.Second)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.HTML != "<p>a</p><p>b</p>" || r.Title != "T" {
		t.Errorf("Run() = %+v", r)
	}
	if r.Opens != 1 || r.Writes != 2 || r.Closes != 1 {
		t.Errorf("calls = open %d, write %d, close %d", r.Opens, r.Writes, r.Closes)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		pkg     string
		timeout time.Duration
		want    string
	}{
		{"no script", "<p>x</p>", 0, "script element not found"},
		{"syntax error", "<script>var = ;</script>", 0, "running bootstrap"},
		{"timeout", "<script>for(;;){}</script>", 50 * time.Millisecond, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.pkg, tt.timeout)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	if _, err := Run("<p>x</p>", 0); !errors.Is(err, models.ErrMalformedPackage) {
		t.Errorf("missing script error = %v, want ErrMalformedPackage", err)
	}
}
