package report

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Document summarizes what the compressed page is about. It is informational
// and never influences compression.
type Document struct {
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Byline    string `json:"byline,omitempty" yaml:"byline,omitempty"`
	SiteName  string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Excerpt   string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	WordCount int    `json:"word_count" yaml:"word_count"`
}

// Describe runs readability over markup. path is the input file, used as the
// document URL for resolving relative links. A document readability cannot
// make sense of yields nil.
func Describe(markup, path string) *Document {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	pageURL := &url.URL{Scheme: "file", Path: "/"}
	if abs, err := filepath.Abs(path); err == nil && path != "" {
		pageURL.Path = filepath.ToSlash(abs)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(markup), pageURL)
	if err != nil {
		return nil
	}

	doc := &Document{
		Title:    normalizeText(article.Title),
		Byline:   normalizeText(article.Byline),
		SiteName: normalizeText(article.SiteName),
		Excerpt:  normalizeText(article.Excerpt),
	}
	if content, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
		doc.WordCount = len(strings.Fields(content.Text()))
	}
	return doc
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
