package models

import "time"

// ChangeFreq is the sitemap hint estimating how often a page changes.
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

// Valid reports whether f is one of the values allowed by the sitemap protocol.
func (f ChangeFreq) Valid() bool {
	switch f {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// Rule pairs the crawl hints assigned to a route.
type Rule struct {
	Priority   float64    `json:"priority" mapstructure:"priority"`
	ChangeFreq ChangeFreq `json:"changefreq" mapstructure:"changefreq"`
}

// RuleSet maps URL paths to crawl hints. Exact entries win; otherwise the
// number of path segments selects one of the structural buckets. A RuleSet
// is built once at startup and never mutated afterwards.
type RuleSet struct {
	Exact    map[string]Rule `mapstructure:"exact"`
	Category Rule            `mapstructure:"category"` // one path segment
	Topic    Rule            `mapstructure:"topic"`    // two path segments
	Default  Rule            `mapstructure:"default"`
}

// DefaultRuleSet returns the built-in classification table.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Exact: map[string]Rule{
			"/":       {Priority: 1.0, ChangeFreq: Weekly},
			"/about":  {Priority: 0.6, ChangeFreq: Monthly},
			"/search": {Priority: 0.8, ChangeFreq: Weekly},
		},
		Category: Rule{Priority: 0.9, ChangeFreq: Weekly},
		Topic:    Rule{Priority: 0.8, ChangeFreq: Weekly},
		Default:  Rule{Priority: 0.7, ChangeFreq: Weekly},
	}
}

// RouteEntry is one classified route destined for the sitemap.
type RouteEntry struct {
	URLPath    string     `json:"url_path"`
	Title      string     `json:"title,omitempty"`
	Priority   float64    `json:"priority"`
	ChangeFreq ChangeFreq `json:"changefreq"`
	LastMod    time.Time  `json:"lastmod"`
}
