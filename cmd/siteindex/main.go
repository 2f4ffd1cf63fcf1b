package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"siteindex/config"
	"siteindex/internal/api"
	"siteindex/internal/generator"
	"siteindex/internal/storage"
	"siteindex/internal/utils"
	"siteindex/internal/verify"
)

const userAgent = "siteindex sitemap generator v1.0"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mode := "generate"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	logger, err := utils.NewBuildLogger("siteindex")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	// Initialize run history storage
	store, err := storage.NewStore(cfg.Database.Driver, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database tables: %v", err)
	}

	gen := generator.New(cfg, store, logger)
	ctx := context.Background()

	switch mode {
	case "generate":
		runGenerate(ctx, gen, logger)

	case "serve":
		runGenerate(ctx, gen, logger)

		server := api.NewServer(cfg.Server.Port, cfg.Build.OutputDir, store)
		go func() {
			logger.LogInfo("Starting status server on port %d", cfg.Server.Port)
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start status server: %v", err)
			}
		}()

		waitForShutdown(server)

	case "verify":
		runGenerate(ctx, gen, logger)

		report, err := verify.Verify(ctx, cfg.Build.OutputDir, userAgent)
		if err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		logger.LogInfo("Verified %d sitemap entries", report.Checked)
		for _, loc := range report.Broken {
			logger.LogError("Broken sitemap entry: %s", loc)
		}
		for _, path := range report.Orphans {
			logger.LogInfo("Linked page missing from sitemap: %s", path)
		}
		if !report.OK() {
			log.Fatalf("Sitemap verification found %d broken entries", len(report.Broken))
		}

	default:
		log.Fatalf("Unknown command %q (expected generate, serve or verify)", mode)
	}
}

func runGenerate(ctx context.Context, gen *generator.Generator, logger *utils.BuildLogger) {
	if !gen.OutputExists() {
		log.Fatalf("Output directory does not exist; run the site build first")
	}

	run, err := gen.Run(ctx)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	logger.LogInfo("Run %s completed: %d routes, %d skipped", run.ID, run.RouteCount, run.SkippedCount)
}

func waitForShutdown(server *api.Server) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down...")

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	log.Println("Server shut down gracefully")
}
