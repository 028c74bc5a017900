package verify

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/m8pack/pkg/m8"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name          string
		markup        string
		wantOK        bool
		wantStructure bool
		wantHazards   int
	}{
		{
			name:          "clean document",
			markup:        "<html><head><title>T</title></head>\n<body><div class=\"a\"><p>Hi</p></div><div>Bye</div></body></html>",
			wantOK:        true,
			wantStructure: true,
		},
		{
			name:          "empty document",
			markup:        "",
			wantOK:        true,
			wantStructure: true,
		},
		{
			name:          "svg radius collides with the src alias",
			markup:        `<svg><circle cx="1" r="4"></circle></svg>`,
			wantOK:        false,
			wantStructure: false,
			wantHazards:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Check(tt.markup, m8.Options{}, 5*time.Second)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if r.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v (report %+v)", r.OK(), tt.wantOK, r)
			}
			if !r.EmbeddedMatchGo {
				t.Error("embedded decoder disagrees with the Go decoder")
			}
			if r.StructureMatches != tt.wantStructure {
				t.Errorf("StructureMatches = %v, want %v (%s)", r.StructureMatches, tt.wantStructure, r.StructureDiff)
			}
			if len(r.Hazards) != tt.wantHazards {
				t.Errorf("Hazards = %v, want %d", r.Hazards, tt.wantHazards)
			}
		})
	}
}

func TestCheckTitle(t *testing.T) {
	r, err := Check(`<html><head><title>Report &amp; more</title></head><body></body></html>`, m8.Options{}, 5*time.Second)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if r.Title != "Report &amp; more" {
		t.Errorf("Title = %q", r.Title)
	}
}

func TestStructure(t *testing.T) {
	got, err := Structure(`<div id="x" class="y"><p>a</p></div>`)
	if err != nil {
		t.Fatalf("Structure() error = %v", err)
	}
	want := []string{"html[]", "head[]", "body[]", "div[class,id]", "p[]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Structure() = %v, want %v", got, want)
	}
}

func TestCompareStructure(t *testing.T) {
	diff, err := CompareStructure(`<p class="a">x</p>`, `<p src="a">x</p>`)
	if err != nil {
		t.Fatalf("CompareStructure() error = %v", err)
	}
	if !strings.Contains(diff, "p[class]") || !strings.Contains(diff, "p[src]") {
		t.Errorf("diff = %q", diff)
	}

	diff, _ = CompareStructure(`<p>x</p>`, `<p>x</p><p>y</p>`)
	if !strings.Contains(diff, "element count") {
		t.Errorf("diff = %q", diff)
	}

	diff, _ = CompareStructure(`<p>x</p>`, `<p>x</p>`)
	if diff != "" {
		t.Errorf("diff = %q, want empty", diff)
	}
}
