package verify

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"

	"siteindex/internal/models"
	"siteindex/internal/routes"
	"siteindex/internal/sitemap"
)

// Report summarizes a sitemap verification pass.
type Report struct {
	Checked int      `json:"checked"`
	Broken  []string `json:"broken,omitempty"`  // sitemap locs with no backing page
	Orphans []string `json:"orphans,omitempty"` // pages linked from content but absent from the sitemap
}

// OK reports whether every sitemap entry resolved to a page.
func (r *Report) OK() bool {
	return len(r.Broken) == 0
}

// Verify serves dir on a loopback listener the way a clean-URL static
// host would and crawls every <loc> in its sitemap, confirming each
// resolves to a page. Anchors found along the way are checked against
// the sitemap to surface orphan pages.
func Verify(ctx context.Context, dir, userAgent string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(dir, sitemap.Filename))
	if err != nil {
		return nil, fmt.Errorf("error reading sitemap: %w", err)
	}

	var sm models.Sitemap
	if err := xml.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("error parsing sitemap: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: cleanURLHandler(dir)}
	go srv.Serve(ln)
	defer srv.Close()

	base := "http://" + ln.Addr().String()

	inSitemap := make(map[string]bool, len(sm.URLs))
	linked := make(map[string]bool)
	visited := make(map[string]bool)

	collector := colly.NewCollector(colly.UserAgent(userAgent))

	report := &Report{}
	collector.OnResponse(func(r *colly.Response) {
		visited[r.Request.URL.Path] = true
		if strings.Contains(r.Headers.Get("Content-Type"), "text/html") {
			for _, href := range extractLinks(bytes.NewReader(r.Body)) {
				if p, ok := internalPath(href); ok {
					linked[p] = true
				}
			}
		}
	})
	for _, u := range sm.URLs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		loc, err := url.Parse(u.Loc)
		if err != nil {
			report.Broken = append(report.Broken, u.Loc)
			continue
		}
		urlPath := loc.Path
		if urlPath == "" {
			urlPath = "/"
		}
		inSitemap[urlPath] = true

		report.Checked++
		if err := collector.Visit(base + urlPath); err != nil && !visited[urlPath] {
			report.Broken = append(report.Broken, u.Loc)
			continue
		}
		if !visited[urlPath] {
			report.Broken = append(report.Broken, u.Loc)
		}
	}
	collector.Wait()

	for p := range linked {
		if !inSitemap[p] {
			report.Orphans = append(report.Orphans, p)
		}
	}
	sort.Strings(report.Orphans)

	return report, nil
}

// cleanURLHandler serves a static export the way hosting providers do:
// /foo is satisfied by foo.html or foo/index.html.
func cleanURLHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimSuffix(r.URL.Path, "/")
		if p == "" || strings.Contains(filepath.Base(p), ".") {
			fs.ServeHTTP(w, r)
			return
		}
		for _, candidate := range []string{p + ".html", p + "/index.html"} {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(candidate))); err == nil {
				r2 := r.Clone(r.Context())
				r2.URL.Path = candidate
				fs.ServeHTTP(w, r2)
				return
			}
		}
		fs.ServeHTTP(w, r)
	})
}

// internalPath normalizes an anchor href to a canonical site-internal
// URL path, reporting false for external or non-page links.
func internalPath(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		return "", false
	}
	if strings.HasSuffix(p, ".html") {
		return routes.Resolve(strings.TrimPrefix(p, "/"), ".html"), true
	}
	// A dot in the last segment marks an asset, not a page.
	if strings.Contains(filepath.Base(p), ".") {
		return "", false
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p, true
}

func extractLinks(r *bytes.Reader) []string {
	doc, err := html.Parse(r)
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}
