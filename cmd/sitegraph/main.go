package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"sitegraph/pkg/admit"
	"sitegraph/pkg/checkpoint"
	"sitegraph/pkg/config"
	"sitegraph/pkg/crawl"
	"sitegraph/pkg/export"
	"sitegraph/pkg/fetch"
)

const version = "1.0.0"

func main() {
	configFile := flag.String("config", "config.yaml", "Path to config file")
	domain := flag.String("domain", "", "Domain suffix override")
	seedURL := flag.String("seed", "", "Seed URL override")
	logLevel := flag.String("loglevel", "", "Log level override (debug, info, warn, error)")
	fresh := flag.Bool("fresh", false, "Ignore any existing checkpoint and start over")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `sitegraph - single-domain BFS link-graph crawler

Usage:
  sitegraph [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sitegraph -config config.yaml\n")
		fmt.Fprintf(os.Stderr, "  sitegraph -domain paulgraham.com -seed https://paulgraham.com/articles.html\n")
		fmt.Fprintf(os.Stderr, "  sitegraph -config config.yaml -fresh\n")
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("sitegraph %s\n", version)
		return
	}

	os.Exit(run(*configFile, *domain, *seedURL, *logLevel, *fresh))
}

// loadConfig loads and parses the config file. A missing file is not an
// error when the CLI flags alone can describe the crawl.
func loadConfig(path string, log *logrus.Logger) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warnf("Config file %s not found, relying on flags and defaults", path)
		return &config.Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// run executes the whole crawl lifecycle and returns the process exit code.
func run(configFile, domainOverride, seedOverride, logLevelOverride string, fresh bool) int {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	log.Infof("Loading configuration from %s", configFile)
	cfg, err := loadConfig(configFile, log)
	if err != nil {
		log.Errorf("Config error: %v", err)
		return 1
	}

	// Flag overrides land before validation so defaults derive from them.
	if domainOverride != "" {
		cfg.Domain = domainOverride
	}
	if seedOverride != "" {
		cfg.SeedURL = seedOverride
	}
	if logLevelOverride != "" {
		cfg.LogLevel = logLevelOverride
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Errorf("Config error: %v", err)
		return 1
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		log.SetLevel(level)
	}

	seed, err := admit.Canonicalize(cfg.SeedURL)
	if err != nil {
		log.Errorf("Seed URL %q: %v", cfg.SeedURL, err)
		return 1
	}

	logEffectiveConfig(cfg, log)

	// --- Signal Handling ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		log.Warnf("Received signal: %v. Initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig = <-sigChan:
			log.Warnf("Received second signal: %v. Forcing exit.", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn("Graceful shutdown period exceeded after signal. Forcing exit.")
			os.Exit(1)
		}
	}()

	// --- Checkpoint Store ---
	runID := uuid.NewString()
	logEntry := log.WithFields(logrus.Fields{"domain": cfg.Domain, "run_id": runID})

	store, err := openStore(cfg, logEntry)
	if err != nil {
		log.Errorf("Failed to open checkpoint store: %v", err)
		return 1
	}
	defer store.Close()

	// --- Crawl State: resume or fresh ---
	state, err := loadState(store, cfg, seed, fresh, log)
	if err != nil {
		return 1
	}

	// --- Components ---
	httpClient := fetch.NewClient(cfg, log)
	fetcher := fetch.NewHTTPFetcher(httpClient, cfg, log)
	filter := admit.NewFilter(cfg.Domain, cfg.DisallowedExtensions)
	driver := crawl.NewDriver(cfg, state, fetcher, filter, store, runID, logEntry)

	// --- Crawl ---
	start := time.Now()
	total, err := driver.Run(ctx)
	duration := time.Since(start).Round(time.Millisecond)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warnf("Crawl interrupted after %v. State saved; rerun without -fresh to resume.", duration)
		} else {
			log.Errorf("Crawl failed after %v: %v", duration, err)
		}
		return 1
	}

	// --- Export ---
	if err := export.WriteGraphML(state.Graph(), cfg.ExportPath, logEntry); err != nil {
		log.Errorf("Failed to export graph: %v", err)
		return 1
	}

	g := state.Graph()
	log.Info("========================================================================")
	log.Info("CRAWL FINISHED")
	log.Infof("Duration:      %v", duration)
	log.Infof("Pages total:   %d (budget %d)", total, cfg.MaxPages)
	log.Infof("Graph:         %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	log.Infof("Export:        %s", cfg.ExportPath)
	log.Info("========================================================================")
	return 0
}

// openStore builds the checkpoint backend selected by the configuration.
func openStore(cfg *config.Config, logEntry *logrus.Entry) (checkpoint.Store, error) {
	if cfg.CheckpointBackend == config.BackendBadger {
		return checkpoint.NewBadgerStore(cfg.CheckpointDir, logEntry)
	}
	return checkpoint.NewFileStore(cfg.CheckpointPath, logEntry), nil
}

// loadState restores the crawl from a checkpoint when one exists, otherwise
// starts fresh from the canonical seed.
func loadState(store checkpoint.Store, cfg *config.Config, seed string, fresh bool, log *logrus.Logger) (*crawl.State, error) {
	if fresh {
		log.Info("Fresh start requested, ignoring any existing checkpoint")
		return crawl.NewState(seed), nil
	}

	snap, found, err := store.Load()
	if err != nil {
		log.Errorf("Failed to load checkpoint: %v", err)
		return nil, err
	}
	if !found {
		log.Infof("No checkpoint found, starting fresh crawl from %s", seed)
		return crawl.NewState(seed), nil
	}

	if snap.SeedURL != cfg.SeedURL {
		log.Warnf("Checkpoint seed %q differs from configured seed %q", snap.SeedURL, cfg.SeedURL)
	}
	if snap.Domain != cfg.Domain {
		log.Warnf("Checkpoint domain %q differs from configured domain %q", snap.Domain, cfg.Domain)
	}
	log.WithFields(logrus.Fields{
		"run_id":   snap.RunID,
		"saved_at": snap.SavedAt.Format(time.RFC3339),
		"visited":  len(snap.Visited),
		"frontier": len(snap.Frontier),
		"nodes":    len(snap.Nodes),
		"edges":    len(snap.Edges),
	}).Info("Resuming from checkpoint")
	return crawl.Restore(snap), nil
}

// logEffectiveConfig logs the post-validation configuration.
func logEffectiveConfig(cfg *config.Config, log *logrus.Logger) {
	log.Infof("Crawl Config: Domain:%s, Seed:%s, MaxPages:%d, Delay:%v, Timeout:%v",
		cfg.Domain, cfg.SeedURL, cfg.MaxPages, cfg.RequestDelay, cfg.RequestTimeout)
	log.Infof("Checkpoint Config: Backend:%s, Interval:%d pages, Path:%s, Dir:%s",
		cfg.CheckpointBackend, cfg.CheckpointInterval, cfg.CheckpointPath, cfg.CheckpointDir)
	log.Infof("Export Config: Path:%s, BodyCap:%d bytes, UA:%q",
		cfg.ExportPath, cfg.MaxBodyBytes, cfg.UserAgent)
}
