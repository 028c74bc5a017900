package tagscan

import (
	"testing"
)

func names(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		prefix := ""
		if t.Kind == Close {
			prefix = "/"
		}
		out[i] = prefix + t.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFinders(t *testing.T) {
	tests := []struct {
		name   string
		finder Finder
		markup string
		want   []string
	}{
		{
			name:   "pattern open and close",
			finder: Pattern{},
			markup: `<div class="a"><p>Hi</p></div>`,
			want:   []string{"div", "p", "/p", "/div"},
		},
		{
			name:   "pattern skips close with space",
			finder: Pattern{},
			markup: `<p>x</p >`,
			want:   []string{"p"},
		},
		{
			name:   "counting accepts close with space",
			finder: Counting{},
			markup: `<p>x</p >`,
			want:   []string{"p", "/p"},
		},
		{
			name:   "counting sees tags inside comments",
			finder: Counting{},
			markup: `<!-- <b>old</b> --><i>x</i>`,
			want:   []string{"b", "/b", "i", "/i"},
		},
		{
			name:   "strict skips comments",
			finder: Strict{},
			markup: `<!-- <b>old</b> --><i>x</i>`,
			want:   []string{"i", "/i"},
		},
		{
			name:   "strict skips script text and lower-cases",
			finder: Strict{},
			markup: `<DIV><script>if (a<b) x = "<p>";</script></DIV>`,
			want:   []string{"div", "script", "/script", "/div"},
		},
		{
			name:   "no tags",
			finder: Pattern{},
			markup: "plain text < 3",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(tt.finder.Find(tt.markup))
			if !equal(got, tt.want) {
				t.Errorf("Find(%q) = %v, want %v", tt.markup, got, tt.want)
			}
		})
	}
}

func TestPatternOffsets(t *testing.T) {
	markup := `<a href="x">y</a>`
	tokens := Pattern{}.Find(markup)
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	open := tokens[0]
	if markup[open.Start:open.End] != `<a href="x">` {
		t.Errorf("open token text = %q", markup[open.Start:open.End])
	}
	if markup[open.NameStart:open.NameEnd] != "a" || markup[open.AttrStart:open.AttrEnd] != ` href="x"` {
		t.Errorf("open token pieces = %q / %q", markup[open.NameStart:open.NameEnd], markup[open.AttrStart:open.AttrEnd])
	}
	closeTok := tokens[1]
	if markup[closeTok.Start:closeTok.End] != "</a>" || markup[closeTok.NameStart:closeTok.NameEnd] != "a" {
		t.Errorf("close token = %+v", closeTok)
	}
}

func TestStrictOffsets(t *testing.T) {
	markup := `<p class="x">Hi<br/></p>`
	for _, tok := range (Strict{}).Find(markup) {
		raw := markup[tok.Start:tok.End]
		if raw[0] != '<' || raw[len(raw)-1] != '>' {
			t.Errorf("token %s spans %q", tok.Name, raw)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		markup string
		want   string
		ok     bool
	}{
		{`<head><title>Hello</title></head>`, "Hello", true},
		{`<TITLE lang="en">Upper</TITLE>`, "Upper", true},
		{`<title>One</title><title>Two</title>`, "One", true},
		{`<p>none</p>`, "", false},
	}
	for _, tt := range tests {
		got, ok := Title(tt.markup)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Title(%q) = %q, %v; want %q, %v", tt.markup, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsWordRun(t *testing.T) {
	tests := map[string]bool{
		"div":    true,
		"h1":     true,
		"my_tag": true,
		"":       false,
		"my-tag": false,
		"é":      false,
	}
	for s, want := range tests {
		if got := IsWordRun(s); got != want {
			t.Errorf("IsWordRun(%q) = %v, want %v", s, got, want)
		}
	}
}
