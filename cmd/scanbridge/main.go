package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/scanbridge/internal/application/publish"
	"github.com/bryanwahyu/scanbridge/internal/config"
	"github.com/bryanwahyu/scanbridge/internal/domain/reports"
	"github.com/bryanwahyu/scanbridge/internal/infra/platform"
	minioStore "github.com/bryanwahyu/scanbridge/internal/infra/storage"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config.yaml (optional, defaults apply)")
		repoID  = flag.String("repo-id", "", "repository identity, e.g. <owner>/<name>")
		rootDir = flag.String("dir", ".", "repository root directory to upload")
		apiKey  = flag.String("api-key", "", "platform API key (falls back to SCANBRIDGE_API_KEY)")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *apiKey == "" {
		*apiKey = os.Getenv("SCANBRIDGE_API_KEY")
	}
	if *apiKey == "" || *repoID == "" {
		log.Error("both an API key and -repo-id are required")
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		log.Error("at least one scan report file is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error("config load error", "err", err)
		os.Exit(1)
	}

	scanReports, err := loadReports(flag.Args())
	if err != nil {
		log.Error("scan report load error", "err", err)
		os.Exit(1)
	}

	svc := &publish.Service{
		Platform:    platform.NewClient(cfg.Platform.URL, &http.Client{Timeout: 30 * time.Second}, log),
		NewStore:    minioStore.Factory(cfg.Storage.Endpoint, *cfg.Storage.UseSSL),
		Extensions:  cfg.ExtensionSet(),
		SettleDelay: cfg.SettleDelay(),
		Log:         log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(ctx, publish.PublishCommand{
		APIKey:       *apiKey,
		RepositoryID: *repoID,
		RootDir:      *rootDir,
		Reports:      scanReports,
	}); err != nil {
		log.Error("publish failed", "err", err)
		os.Exit(1)
	}
}

// loadReports reads one JSON-encoded scan report per file argument.
func loadReports(paths []string) ([]reports.ScanReport, error) {
	out := make([]reports.ScanReport, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var r reports.ScanReport
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parse scan report %s: %w", p, err)
		}
		out = append(out, r)
	}
	return out, nil
}
