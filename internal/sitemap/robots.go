package sitemap

import (
	"fmt"
	"os"
	"path/filepath"
)

// RobotsFilename is the robots file written at the output root.
const RobotsFilename = "robots.txt"

// EnsureRobots writes a minimal robots.txt referencing the sitemap when
// none exists at dir. An existing file, such as one copied from a static
// assets directory, is never modified. It reports whether a file was written.
func EnsureRobots(dir, baseURL string) (bool, error) {
	dest := filepath.Join(dir, RobotsFilename)
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	content := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", Loc(baseURL, "/"+Filename))
	if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
		return false, err
	}
	return true, nil
}
