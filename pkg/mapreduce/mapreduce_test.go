package mapreduce

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/m8pack/pkg/frequency"
)

func TestMapReduce(t *testing.T) {
	var intermediate []map[string]int
	for _, doc := range []string{
		`<div><p>a</p></div>`,
		`<div><span>b</span></div><p>c</p>`,
	} {
		table, err := frequency.Analyze(doc)
		if err != nil {
			t.Fatalf("Analyze(%q) error = %v", doc, err)
		}
		intermediate = append(intermediate, Map(table))
	}

	got := Reduce(intermediate)
	want := map[string]int{"div": 4, "p": 4, "span": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reduce() = %v, want %v", got, want)
	}
}

func TestTopTags(t *testing.T) {
	counts := map[string]int{"div": 4, "p": 4, "span": 2, "a-b": 9, "li": 1}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"top two ties by name", 2, []string{"div:4", "p:4"}},
		{"more than available", 10, []string{"div:4", "p:4", "span:2", "li:1"}},
		{"zero", 0, []string{}},
		{"negative", -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopTags(counts, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopTags(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}
