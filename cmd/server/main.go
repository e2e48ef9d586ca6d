package main

import (
	"flag"
	"log/slog"
	"os"

	"cheq/internal/config"
	"cheq/internal/notify"
	"cheq/internal/service"
	"cheq/internal/storage/sqlite"
	"cheq/internal/vision"
	"cheq/internal/vision/claude"
	"cheq/internal/web"
	"cheq/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	var scanner vision.ReceiptScanner
	if cfg.Scan.AnthropicAPIKey != "" {
		scanner = claude.NewScanner(cfg.Scan.AnthropicAPIKey, cfg.Scan.Model)
		slog.Info("Receipt scanning enabled", "model", cfg.Scan.Model)
	} else {
		slog.Info("Receipt scanning disabled, no API key configured")
	}

	notifier := notify.New()
	bills := service.NewBillService(store)
	claims := service.NewClaimCoordinator(store, notifier)

	server := web.NewServer(bills, claims, notifier, scanner, cfg.Server.PublicBaseURL, slog.Default())
	if err := server.ListenAndServe(cfg.Server.Addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
