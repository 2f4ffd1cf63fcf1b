package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"siteindex/config"
	"siteindex/internal/inspect"
	"siteindex/internal/models"
	"siteindex/internal/routes"
	"siteindex/internal/scanner"
	"siteindex/internal/sitemap"
	"siteindex/internal/storage"
	"siteindex/internal/utils"
)

// Generator runs one synchronous pass over the build output: scan,
// resolve, classify, emit sitemap.xml and ensure robots.txt.
type Generator struct {
	cfg    *config.Config
	store  storage.Store // optional; nil disables run history
	logger *utils.BuildLogger
	rules  models.RuleSet
}

func New(cfg *config.Config, store storage.Store, logger *utils.BuildLogger) *Generator {
	return &Generator{
		cfg:    cfg,
		store:  store,
		logger: logger,
		rules:  cfg.Classifier,
	}
}

// Run executes a single generation pass. The sitemap is either fully
// regenerated or not written at all; a missing output directory aborts
// before anything is touched.
func (g *Generator) Run(ctx context.Context) (*models.GenerationRun, error) {
	outputDir := g.cfg.Build.OutputDir
	suffix := g.cfg.Build.Suffix
	siteURL := g.cfg.Site.URL

	run := models.NewGenerationRun(siteURL, outputDir)

	files, err := scanner.Scan(outputDir, suffix)
	if err != nil {
		return nil, err
	}
	g.logInfo("Discovered %d %s files under %s", len(files), suffix, outputDir)

	lastMod := time.Now()
	var entries []models.RouteEntry
	var records []*models.RouteRecord

	for _, file := range files {
		urlPath := routes.Resolve(file, suffix)

		meta, err := inspect.ParseFile(filepath.Join(outputDir, file))
		if err != nil {
			return nil, fmt.Errorf("error inspecting %s: %w", file, err)
		}

		record := models.NewRouteRecord(run.ID)
		record.URLPath = urlPath
		record.Loc = sitemap.Loc(siteURL, urlPath)
		record.Title = meta.Title
		record.LastMod = lastMod.Format("2006-01-02")

		// Every discovered file gets exactly one sitemap entry; noindex
		// pages are only dropped when explicitly configured.
		if meta.Noindex {
			record.Noindex = true
			if g.cfg.Build.SkipNoindex {
				run.SkippedCount++
				records = append(records, record)
				g.logInfo("Skipping noindex page %s", urlPath)
				continue
			}
		}

		rule := routes.Classify(g.rules, urlPath)
		record.Priority = rule.Priority
		record.ChangeFreq = rule.ChangeFreq
		records = append(records, record)

		entries = append(entries, models.RouteEntry{
			URLPath:    urlPath,
			Title:      meta.Title,
			Priority:   rule.Priority,
			ChangeFreq: rule.ChangeFreq,
			LastMod:    lastMod,
		})
	}

	doc := sitemap.BuildDocument(siteURL, entries)
	sitemapPath := filepath.Join(outputDir, sitemap.Filename)
	if err := sitemap.WriteFile(sitemapPath, doc); err != nil {
		return nil, fmt.Errorf("error writing sitemap: %w", err)
	}
	g.logInfo("Wrote %s with %d URLs", sitemapPath, len(entries))

	wrote, err := sitemap.EnsureRobots(outputDir, siteURL)
	if err != nil {
		return nil, fmt.Errorf("error ensuring robots.txt: %w", err)
	}
	if wrote {
		g.logInfo("Wrote fallback %s", filepath.Join(outputDir, sitemap.RobotsFilename))
	} else {
		g.logInfo("Existing %s left untouched", sitemap.RobotsFilename)
	}

	run.RouteCount = len(entries)
	run.Status = models.RunStatusCompleted
	completedAt := time.Now()
	run.CompletedAt = &completedAt

	if g.store != nil {
		if err := g.persist(ctx, run, records); err != nil {
			return nil, fmt.Errorf("error recording run: %w", err)
		}
	}

	return run, nil
}

func (g *Generator) persist(ctx context.Context, run *models.GenerationRun, records []*models.RouteRecord) error {
	if err := g.store.CreateRun(ctx, run); err != nil {
		return err
	}
	for _, record := range records {
		if err := g.store.CreateRoute(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) logInfo(format string, v ...interface{}) {
	if g.logger != nil {
		g.logger.LogInfo(format, v...)
		return
	}
	log.Printf(format, v...)
}

// OutputExists reports whether the configured output directory is present.
func (g *Generator) OutputExists() bool {
	info, err := os.Stat(g.cfg.Build.OutputDir)
	return err == nil && info.IsDir()
}
