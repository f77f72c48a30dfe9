package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/api"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/cli"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/config"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/github"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/logging"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/oauth"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/session"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", cfg.ServerURL, "Backend URL")
	dbPath := flag.String("db", cfg.DBPath, "Path to the local session database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithDeviceID(deviceID(ctx, boltStorage)),
	)

	tokens := session.NewTokens(boltStorage, boltStorage)
	if err := tokens.Load(ctx); err != nil {
		logger.Warn("failed to restore session", "error", err)
	}

	sessions := session.NewService(apiClient, tokens, logger)
	flow := oauth.New(sessions, boltStorage, oauth.BrowserNavigator{}, logger)
	listener := oauth.NewListener(flow, cfg.CallbackAddr, logger)
	gh := github.NewService(sessions)

	app := cli.New(sessions, flow, listener, gh, logger)
	if err := app.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// deviceID loads or creates the per-install identifier
func deviceID(ctx context.Context, meta storage.MetaStorage) string {
	if id, err := meta.GetMeta(ctx, storage.MetaDeviceID); err == nil {
		return id
	}

	id := uuid.New().String()
	if err := meta.SetMeta(ctx, storage.MetaDeviceID, id); err != nil {
		slog.Warn("failed to persist device id", "error", err)
	}
	return id
}

func printVersion() {
	fmt.Printf("DevOps AI Agent Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
