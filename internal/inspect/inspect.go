package inspect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageMeta holds the per-page metadata consulted during generation.
type PageMeta struct {
	Title     string
	Canonical string
	Noindex   bool
}

// ParsePage extracts the title, canonical link and robots directives
// from a built HTML page. Pages carrying a noindex directive are kept
// out of the sitemap by the generator.
func ParsePage(r io.Reader) (*PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	meta := &PageMeta{}

	// Extract title
	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())

	// Extract robots directives
	doc.Find("meta[name='robots']").Each(func(i int, s *goquery.Selection) {
		content, exists := s.Attr("content")
		if !exists {
			return
		}
		for _, directive := range strings.Split(content, ",") {
			if strings.EqualFold(strings.TrimSpace(directive), "noindex") {
				meta.Noindex = true
			}
		}
	})

	// Extract canonical link
	doc.Find("link[rel='canonical']").Each(func(i int, s *goquery.Selection) {
		if href, exists := s.Attr("href"); exists {
			meta.Canonical = strings.TrimSpace(href)
		}
	})

	return meta, nil
}

// ParseFile reads and parses a built HTML file.
func ParseFile(path string) (*PageMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePage(f)
}
