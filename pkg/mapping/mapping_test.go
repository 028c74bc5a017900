package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/frequency"
)

func analyze(t *testing.T, markup string) *frequency.Table {
	t.Helper()
	table, err := frequency.Analyze(markup)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return table
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name        string
		markup      string
		maxMappings int
		want        map[string]string
	}{
		{
			name:        "savings beat raw frequency",
			markup:      `<div class="a"><p>Hi</p></div><div>Bye</div>`,
			maxMappings: 50,
			want:        map[string]string{"div": "1", "p": "2"},
		},
		{
			name:        "long moderately used tag outranks short frequent tag",
			markup:      `<b></b><b></b><b></b><section></section>`,
			maxMappings: 50,
			want:        map[string]string{"section": "1", "b": "2"},
		},
		{
			name:        "ties keep first-seen order",
			markup:      `<ab></ab><cd></cd><ef></ef>`,
			maxMappings: 50,
			want:        map[string]string{"ab": "1", "cd": "2", "ef": "3"},
		},
		{
			name:        "truncated to max mappings",
			markup:      `<table><tr><td></td></tr></table><p></p>`,
			maxMappings: 2,
			want:        map[string]string{"table": "1", "tr": "2"},
		},
		{
			name:        "empty document gives empty mapping",
			markup:      "",
			maxMappings: 50,
			want:        map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(analyze(t, tt.markup), tt.maxMappings)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := m.Map(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Build() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildConfigurationError(t *testing.T) {
	for _, max := range []int{0, -1} {
		_, err := Build(analyze(t, "<p></p>"), max)
		if !errors.Is(err, models.ErrConfiguration) {
			t.Errorf("Build(max=%d) error = %v, want ErrConfiguration", max, err)
		}
	}
}

func TestBuildBoundedAndDeterministic(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, "<t%d></t%d>", i, i)
	}
	table := analyze(t, b.String())

	for _, max := range []int{1, 10, 50, 80, 200} {
		first, err := Build(table, max)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if first.Len() > max || first.Len() > table.Len() {
			t.Errorf("Len() = %d exceeds bound (max %d, distinct %d)", first.Len(), max, table.Len())
		}
		second, _ := Build(table, max)
		if !reflect.DeepEqual(first.Entries(), second.Entries()) {
			t.Errorf("Build(max=%d) is not deterministic", max)
		}
	}
}

func TestRankSavings(t *testing.T) {
	ranked := Rank(analyze(t, `<div class="a"><p>Hi</p></div><div>Bye</div>`))
	want := []Entry{
		{Tag: "div", Count: 4, Savings: 12},
		{Tag: "p", Count: 2, Savings: 2},
	}
	if !reflect.DeepEqual(ranked, want) {
		t.Errorf("Rank() = %+v, want %+v", ranked, want)
	}
}

func TestLookup(t *testing.T) {
	m, err := Build(analyze(t, `<div></div><span></span>`), 50)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if code, ok := m.Code("DIV"); !ok || code != "1" {
		t.Errorf("Code(DIV) = %q, %v", code, ok)
	}
	if _, ok := m.Code("p"); ok {
		t.Error("Code(p) should be absent")
	}
	if tag, ok := m.Tag("2"); !ok || tag != "span" {
		t.Errorf("Tag(2) = %q, %v", tag, ok)
	}
	for _, code := range []string{"01", "0", "3", "div", ""} {
		if _, ok := m.Tag(code); ok {
			t.Errorf("Tag(%q) should be absent", code)
		}
	}
}

func TestSerializeParse(t *testing.T) {
	tests := []struct {
		name string
		list string
		want map[string]string
	}{
		{name: "empty", list: "", want: map[string]string{}},
		{name: "dense", list: "div,p,span", want: map[string]string{"div": "1", "p": "2", "span": "3"}},
		{name: "gaps are absent codes", list: "div,,span", want: map[string]string{"div": "1", "span": "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.list)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := m.Map(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
			if got := m.Serialize(); got != tt.list {
				t.Errorf("Serialize() = %q, want %q", got, tt.list)
			}
		})
	}
}

func TestBuildSerialize(t *testing.T) {
	m, err := Build(analyze(t, `<div class="a"><p>Hi</p></div><div>Bye</div>`), 50)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := m.Serialize(); got != "div,p" {
		t.Errorf("Serialize() = %q, want %q", got, "div,p")
	}
	empty, _ := Build(analyze(t, ""), 50)
	if got := empty.Serialize(); got != "" {
		t.Errorf("empty Serialize() = %q", got)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, list := range []string{"div,div", "di v", "<p>"} {
		if _, err := Parse(list); !errors.Is(err, models.ErrMalformedPackage) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedPackage", list, err)
		}
	}
}
