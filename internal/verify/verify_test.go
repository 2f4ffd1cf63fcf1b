package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "siteindex test"

func writePage(t *testing.T, root, relPath, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func writeSitemap(t *testing.T, root string, locs ...string) {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n"
	for _, loc := range locs {
		doc += "  <url>\n    <loc>" + loc + "</loc>\n  </url>\n"
	}
	doc += "</urlset>\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "sitemap.xml"), []byte(doc), 0644))
}

func TestVerifyAllEntriesResolve(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html", `<html><body><a href="/flashcards">cards</a></body></html>`)
	writePage(t, root, "flashcards/index.html", `<html><body>ok</body></html>`)
	writeSitemap(t, root,
		"https://example.com/",
		"https://example.com/flashcards",
	)

	report, err := Verify(context.Background(), root, testUserAgent)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Empty(t, report.Broken)
	assert.Empty(t, report.Orphans)
	assert.True(t, report.OK())
}

func TestVerifyReportsBrokenEntries(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html", `<html><body>home</body></html>`)
	writeSitemap(t, root,
		"https://example.com/",
		"https://example.com/missing",
	)

	report, err := Verify(context.Background(), root, testUserAgent)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, []string{"https://example.com/missing"}, report.Broken)
	assert.False(t, report.OK())
}

func TestVerifyReportsOrphans(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html",
		`<html><body><a href="/hidden">hidden</a><a href="https://other.example/x">ext</a></body></html>`)
	writePage(t, root, "hidden.html", `<html><body>hidden</body></html>`)
	writeSitemap(t, root, "https://example.com/")

	report, err := Verify(context.Background(), root, testUserAgent)
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, []string{"/hidden"}, report.Orphans)
}

func TestVerifyServesFlatHTMLFiles(t *testing.T) {
	// /foo backed by foo.html rather than foo/index.html, as static
	// exports produce for leaf pages.
	root := t.TempDir()
	writePage(t, root, "foo.html", `<html><body>foo</body></html>`)
	writeSitemap(t, root, "https://example.com/foo")

	report, err := Verify(context.Background(), root, testUserAgent)
	require.NoError(t, err)
	assert.Empty(t, report.Broken)
}

func TestVerifyMissingSitemap(t *testing.T) {
	_, err := Verify(context.Background(), t.TempDir(), testUserAgent)
	assert.Error(t, err)
}

func TestInternalPath(t *testing.T) {
	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/flashcards", "/flashcards", true},
		{"/flashcards/", "/flashcards", true},
		{"/", "/", true},
		{"/foo/bar.html", "/foo/bar", true},
		{"/styles.css", "", false},
		{"https://other.example/x", "", false},
		{"relative/link", "", false},
		{"#fragment", "", false},
	}

	for _, tt := range tests {
		got, ok := internalPath(tt.href)
		assert.Equal(t, tt.ok, ok, "href %q", tt.href)
		if tt.ok {
			assert.Equal(t, tt.want, got, "href %q", tt.href)
		}
	}
}
