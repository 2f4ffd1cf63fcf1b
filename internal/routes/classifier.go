package routes

import (
	"strings"

	"siteindex/internal/models"
)

// Classify returns the crawl hints for a URL path. Exact rules win;
// otherwise the number of non-empty path segments selects a structural
// bucket: one segment is a category page, two a topic page, anything
// deeper falls back to the default rule.
func Classify(rules models.RuleSet, urlPath string) models.Rule {
	if rule, ok := rules.Exact[urlPath]; ok {
		return rule
	}

	switch segmentCount(urlPath) {
	case 1:
		return rules.Category
	case 2:
		return rules.Topic
	default:
		return rules.Default
	}
}

func segmentCount(urlPath string) int {
	count := 0
	for _, seg := range strings.Split(urlPath, "/") {
		if seg != "" {
			count++
		}
	}
	return count
}
