package config

import (
	"errors"

	"github.com/spf13/viper"

	"siteindex/internal/models"
)

type Config struct {
	Site struct {
		URL string
	}
	Build struct {
		OutputDir   string
		Suffix      string
		SkipNoindex bool
	}
	Server struct {
		Port int
	}
	Database struct {
		Driver string
		URL    string
		Path   string
	}
	Classifier models.RuleSet
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("siteindex")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Default values
	viper.SetDefault("site.url", "https://example.com")
	viper.SetDefault("build.outputdir", "out")
	viper.SetDefault("build.suffix", ".html")
	viper.SetDefault("build.skipnoindex", false)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.path", "siteindex.db")

	defaults := models.DefaultRuleSet()
	exact := make(map[string]map[string]interface{}, len(defaults.Exact))
	for path, rule := range defaults.Exact {
		exact[path] = ruleDefaults(rule)
	}
	viper.SetDefault("classifier.exact", exact)
	viper.SetDefault("classifier.category", ruleDefaults(defaults.Category))
	viper.SetDefault("classifier.topic", ruleDefaults(defaults.Topic))
	viper.SetDefault("classifier.default", ruleDefaults(defaults.Default))

	// SITE_URL is the deploy-time override for the placeholder base URL.
	if err := viper.BindEnv("site.url", "SITE_URL"); err != nil {
		return nil, err
	}

	// The config file is optional; defaults plus SITE_URL are enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DSN returns the connection string for the configured database driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "postgres" {
		return c.Database.URL
	}
	return c.Database.Path
}

func ruleDefaults(r models.Rule) map[string]interface{} {
	return map[string]interface{}{
		"priority":   r.Priority,
		"changefreq": string(r.ChangeFreq),
	}
}
