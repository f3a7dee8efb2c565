package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storeadmin/internal/bootstrap"
	"storeadmin/internal/config"
	"storeadmin/internal/logger"
	jsonfile "storeadmin/internal/repository/json"
	"storeadmin/internal/store"
	"storeadmin/internal/usecases"
)

func main() {
	var (
		configPath = flag.String("config", "./config/config.yaml", "path to config.yaml")
		outputFile = flag.String("out", "", "override output file (optional)")
		maxPages   = flag.Int("max-pages", 0, "override pagination.max_pages (optional)")
		only       = flag.String("only", "", "categories|items (default both)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Env:       cfg.Env,
	})
	slog.SetDefault(log)

	if *outputFile != "" {
		cfg.CLI.OutputFile = *outputFile
	}
	if cfg.CLI.OutputFile == "" {
		cfg.CLI.OutputFile = "./out/image-audit.json"
	}
	if *maxPages > 0 {
		cfg.Pagination.MaxPages = *maxPages
	}
	if cfg.Storage.BaseURL == "" {
		log.Warn("storage.base_url is empty: relative image paths cannot be checked")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	var cats *store.Categories
	var items *store.Items
	switch *only {
	case "":
		cats, items = app.Categories, app.Items
	case "categories":
		cats = app.Categories
	case "items":
		items = app.Items
	default:
		log.Error("bad -only", "value", *only)
		os.Exit(1)
	}

	audit := usecases.NewImageAuditService(cats, items, app.Resolver, cfg.Backend.BaseURL, log, cfg.Pagination.PerPage, cfg.Pagination.MaxPages)

	rep, err := audit.Run(ctx, cfg.Storage.BaseURL)
	if err != nil {
		log.Error("audit failed", "err", err)
		os.Exit(1)
	}

	repo := jsonfile.New(cfg.CLI.OutputFile, log)
	if err := repo.SaveReport(ctx, rep); err != nil {
		log.Error("save report failed", "err", err, "path", cfg.CLI.OutputFile)
		os.Exit(1)
	}

	log.Info("report saved", "path", cfg.CLI.OutputFile, "unavailable", rep.Unavailable)
	if rep.Unavailable > 0 {
		_ = app.Close()
		stop()
		os.Exit(2)
	}
}
