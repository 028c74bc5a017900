package frequency

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		markup    string
		wantOrder []string
		wantMap   map[string]int
	}{
		{
			name:      "empty document",
			markup:    "",
			wantOrder: []string{},
			wantMap:   map[string]int{},
		},
		{
			name:      "opening and closing tags both count",
			markup:    `<div class="a"><p>Hi</p></div><div>Bye</div>`,
			wantOrder: []string{"div", "p"},
			wantMap:   map[string]int{"div": 4, "p": 2},
		},
		{
			name:      "case-insensitive",
			markup:    `<DIV><Div></div>`,
			wantOrder: []string{"div"},
			wantMap:   map[string]int{"div": 3},
		},
		{
			name:      "closing tag with whitespace still counts",
			markup:    `<span>x</span >`,
			wantOrder: []string{"span"},
			wantMap:   map[string]int{"span": 2},
		},
		{
			name:      "malformed but matching sequences count",
			markup:    `<a <b>`,
			wantOrder: []string{"a"},
			wantMap:   map[string]int{"a": 1},
		},
		{
			name:      "text without tags",
			markup:    "1 < 2 and 3 > 2",
			wantOrder: []string{},
			wantMap:   map[string]int{},
		},
		{
			name:      "self-closing tags",
			markup:    `<br/><img src="x.png" /><br>`,
			wantOrder: []string{"br", "img"},
			wantMap:   map[string]int{"br": 2, "img": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Analyze(tt.markup)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if got := table.Tags(); !reflect.DeepEqual(got, tt.wantOrder) {
				t.Errorf("Tags() = %v, want %v", got, tt.wantOrder)
			}
			if got := table.Map(); !reflect.DeepEqual(got, tt.wantMap) {
				t.Errorf("Map() = %v, want %v", got, tt.wantMap)
			}
			if table.Len() != len(tt.wantOrder) {
				t.Errorf("Len() = %d, want %d", table.Len(), len(tt.wantOrder))
			}
		})
	}
}

func TestAnalyzeInvalidInput(t *testing.T) {
	_, err := Analyze("<p>\xff\xfe</p>")
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("Analyze() error = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeStrict(t *testing.T) {
	markup := `<!-- <b>ignored</b> --><script>var s = "<i>";</script><p>x</p><my-widget></my-widget>`
	table, err := AnalyzeWith(markup, tagscan.Strict{})
	if err != nil {
		t.Fatalf("AnalyzeWith() error = %v", err)
	}
	want := map[string]int{"script": 2, "p": 2}
	if got := table.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}

func TestTableAccessors(t *testing.T) {
	table, err := Analyze(`<ul><li>a</li><li>b</li></ul>`)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := table.Count("LI"); got != 4 {
		t.Errorf("Count(LI) = %d, want 4", got)
	}
	if got := table.Count("table"); got != 0 {
		t.Errorf("Count(table) = %d, want 0", got)
	}
	if got := table.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}

	var visited []string
	table.Each(func(tag string, count int) {
		visited = append(visited, tag)
	})
	if !reflect.DeepEqual(visited, []string{"ul", "li"}) {
		t.Errorf("Each() order = %v", visited)
	}

	m := table.Map()
	m["ul"] = 99
	if table.Count("ul") != 2 {
		t.Error("Map() exposed internal state")
	}
}
