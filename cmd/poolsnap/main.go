package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/config"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/pools"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/report"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/rpc"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/snapshot"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/tokens"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Debugf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main prints one reserve snapshot of every pool owned by the swap program.
// Logs go to stderr so stdout carries only the table.
func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logger.SetLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C stops outstanding work; rows gathered so far are still printed
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	sets := []map[string]string{constants.TokenSymbols}
	if cfg.TokenListPath != "" {
		list, err := tokens.LoadTokenListFromJSON(cfg.TokenListPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load token list")
		}
		sets = append(sets, list)
	}
	names, err := tokens.NewRegistry(sets...)
	if err != nil {
		logger.WithError(err).Fatal("failed to build token registry")
	}

	client := rpc.NewClient(rpc.ClientConfig{
		BaseURL:          cfg.RPCUrl,
		Commitment:       cfg.Commitment,
		Timeout:          cfg.FetchTimeout,
		DiscoveryTimeout: cfg.DiscoveryTimeout,
		MaxRetries:       cfg.MaxRetries,
		RetryBackoff:     cfg.RetryBackoff,
		RateLimit:        cfg.RateLimit,
		Logger:           logger,
	})

	resolver, err := pools.NewResolver(pools.ResolverConfig{
		Fetcher: client,
		Names:   names,
		Logger:  logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create pool resolver")
	}

	runner, err := snapshot.NewRunner(snapshot.Config{
		Discoverer:  client,
		Resolver:    resolver,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create snapshot runner")
	}

	logger.WithFields(logrus.Fields{
		"rpc":     cfg.RPCUrl,
		"program": cfg.ProgramID,
		"tokens":  names.Len(),
	}).Info("starting pool snapshot")

	rows, err := runner.Run(ctx, cfg.Program())
	if rows == nil && err != nil {
		logger.WithError(err).Fatal("snapshot failed")
	}

	report.Render(os.Stdout, rows)

	if err != nil {
		logger.WithError(err).Error("snapshot interrupted")
		os.Exit(1)
	}
}
