package routes

import (
	"path/filepath"
	"strings"
)

// Resolve maps a file path relative to the build output root to its
// canonical URL path: platform separators become slashes, the tracked
// suffix is stripped, index files collapse onto their directory, and
// the result always carries a leading slash.
//
//	index.html              -> /
//	flashcards/index.html   -> /flashcards
//	databases/sql/index.html -> /databases/sql
//	foo/bar.html            -> /foo/bar
func Resolve(relPath, suffix string) string {
	p := filepath.ToSlash(relPath)
	p = strings.TrimSuffix(p, suffix)
	p = strings.TrimSuffix(p, "/index")
	if p == "" || p == "index" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
