// Package main provides the vrd-eval-server binary.
// The server loads the annotation corpus once at startup and scores
// prediction submissions over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vrdeval/vrd-eval/internal/config"
	"github.com/vrdeval/vrd-eval/internal/dataset"
	"github.com/vrdeval/vrd-eval/internal/evaluation"
	"github.com/vrdeval/vrd-eval/internal/pkg/logger"
	"github.com/vrdeval/vrd-eval/internal/pkg/middleware"
	"github.com/vrdeval/vrd-eval/internal/results"
	"github.com/vrdeval/vrd-eval/internal/server"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vrd-eval-server",
		Short: "HTTP evaluation server for video visual relation predictions",
		Long: `vrd-eval-server exposes the relation evaluation engine over HTTP.

The server loads the annotation splits at startup and scores uploaded
prediction files:
  POST /v1/submissions            score a prediction file
  GET  /v1/submissions/{id}       fetch a stored result
  GET  /v1/health                 health probe

Examples:
  vrd-eval-server                          # Start with defaults
  vrd-eval-server --port 8080              # Custom HTTP port
  vrd-eval-server --anno ./vidvrd-dataset  # Custom annotation root`,
		RunE:         runServer,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringP("config", "c", "", "config file path")
	rootCmd.Flags().BoolP("verbose", "v", false, "verbose logging")
	rootCmd.Flags().IntP("port", "p", 0, "HTTP server port (overrides config)")
	rootCmd.Flags().String("host", "", "HTTP server host (overrides config)")
	rootCmd.Flags().String("anno", "", "annotation root directory (overrides config)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vrd-eval-server %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	annoRoot, _ := cmd.Flags().GetString("anno")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if port != 0 {
		cfg.Port = port
	}
	if host != "" {
		cfg.Host = host
	}
	if annoRoot != "" {
		cfg.Dataset.AnnoPath = annoRoot
	}

	logLevel := cfg.Log.Level
	if verbose {
		logLevel = "debug"
	}
	log := logger.New(logLevel, cfg.Log.Format)

	log.Info("starting evaluation server",
		"version", version,
		"addr", cfg.Address(),
		"anno_path", cfg.Dataset.AnnoPath,
	)

	splits := []string{cfg.Dataset.TestSplit}
	trainSplit := ""
	if cfg.Eval.ZeroShot {
		trainSplit = cfg.Dataset.TrainSplit
		splits = append(splits, trainSplit)
	}
	ds, err := dataset.Load(cfg.Dataset.AnnoPath, splits, log)
	if err != nil {
		return err
	}

	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := evaluation.DefaultOptions()
	opts.VIoUThreshold = cfg.Eval.VIoUThreshold
	opts.DetectionNReturns = cfg.Eval.DetectionNReturns
	opts.TaggingNReturns = cfg.Eval.TaggingNReturns
	opts.Workers = cfg.Eval.Workers

	srv, err := server.New(ds, store, evaluation.NewEvaluator(opts, log), log, trainSplit, cfg.Dataset.TestSplit)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	var handler http.Handler = mux
	if cfg.Security.RateLimit > 0 {
		rlCfg := middleware.DefaultRateLimiterConfig()
		rlCfg.RequestsPerSecond = float64(cfg.Security.RateLimit)
		handler = middleware.NewRateLimiter(rlCfg).Middleware(mux)
		log.Info("rate limiting enabled", "requests_per_second", cfg.Security.RateLimit)
	}

	httpSrv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 30 * time.Minute,
	}

	go func() {
		log.Info("listening", "addr", cfg.Address())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("HTTP shutdown error", "error", err)
	}

	log.Info("server stopped")
	return nil
}

func newStore(cfg *config.Config, log *logger.Logger) (results.Store, error) {
	switch cfg.Results.Type {
	case "redis":
		ttl := time.Duration(cfg.Results.TTLHours) * time.Hour
		store, err := results.NewRedisStore(cfg.Results.RedisURL, ttl)
		if err != nil {
			return nil, err
		}
		log.Info("using redis results store", "ttl_hours", cfg.Results.TTLHours)
		return store, nil
	default:
		log.Info("using in-memory results store")
		return results.NewMemoryStore(), nil
	}
}
