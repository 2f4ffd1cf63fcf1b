package sitemap

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"siteindex/internal/models"
)

// Filename is the sitemap file written at the output root.
const Filename = "sitemap.xml"

// Loc joins the base site URL and a URL path with exactly one slash.
func Loc(baseURL, urlPath string) string {
	return strings.TrimRight(baseURL, "/") + urlPath
}

// BuildDocument assembles the urlset document for the given entries,
// preserving their order. Priorities are rendered with one decimal place
// and lastmod as an ISO date without a time component.
func BuildDocument(baseURL string, entries []models.RouteEntry) *models.Sitemap {
	doc := &models.Sitemap{Xmlns: models.SitemapNamespace}
	for _, entry := range entries {
		doc.URLs = append(doc.URLs, models.URL{
			Loc:        Loc(baseURL, entry.URLPath),
			LastMod:    entry.LastMod.Format("2006-01-02"),
			ChangeFreq: string(entry.ChangeFreq),
			Priority:   fmt.Sprintf("%.1f", entry.Priority),
		})
	}
	return doc
}

// WriteFile serializes the document and replaces dest atomically, so a
// failed write never leaves a truncated sitemap behind.
func WriteFile(dest string, doc *models.Sitemap) error {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling sitemap: %w", err)
	}
	data := append([]byte(xml.Header), body...)
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".sitemap-*.xml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	// CreateTemp defaults to 0600; published artifacts are world-readable.
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
