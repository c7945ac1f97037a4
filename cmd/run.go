package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/ai"
	"github.com/remotescout/remotescout/internal/ai/gemini"
	"github.com/remotescout/remotescout/internal/cache"
	"github.com/remotescout/remotescout/internal/keyring"
	"github.com/remotescout/remotescout/internal/logger"
	"github.com/remotescout/remotescout/internal/profile"
	"github.com/remotescout/remotescout/internal/scoring"
	"github.com/remotescout/remotescout/internal/search"
	"github.com/remotescout/remotescout/internal/secrets"
	"github.com/remotescout/remotescout/internal/source"
)

const (
	PromptDumpToFile   = "Dump matched jobs to file"
	PromptReportSource = "Report by source"
	PromptHealthReport = "Source health report"
	PromptResetHealth  = "Reset source health"
	PromptExit         = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptDumpToFile, PromptReportSource, PromptHealthReport, PromptResetHealth, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a search session against all configured job boards",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "exit after the summary without the interactive menu")
	runCmd.Flags().StringP("profile", "p", "", "path to the resume profile JSON (overrides profile-file from config)")

	viper.BindPFlag("profile-file", runCmd.Flags().Lookup("profile"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting remotescout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.ProfileFile == "" {
		logger.Fatal("resume profile is required",
			zap.String("hint", "set profile-file in the configuration file or pass --profile"),
		)
	}

	prof, err := profile.Load(config.ProfileFile)
	if err != nil {
		logger.Fatal("loading resume profile", zap.Error(err))
	}

	registry := keyring.New(logger)
	sources, err := buildSources(config, registry, logger)
	if err != nil {
		logger.Fatal("configuring sources", zap.Error(err))
	}

	if len(sources) == 0 {
		logger.Fatal("no sources enabled",
			zap.String("hint", "enable at least one source in the configuration file"),
		)
	}

	reset := keyring.NewResetSchedule(registry, config.ResetIntervalHours, logger)
	if err := reset.Start(); err != nil {
		logger.Fatal("starting health reset schedule", zap.Error(err))
	}
	defer reset.Stop()

	scorer := buildScorer(ctx, config, logger)

	opts := []search.Option{}
	if config.Threshold > 0 {
		opts = append(opts, search.WithThreshold(config.Threshold))
	}

	results := buildResultCache(ctx, config.Cache, logger)
	opts = append(opts, search.WithResultCache(results))

	orchestrator := search.NewOrchestrator(sources, registry, scorer, logger, opts...)

	filters := source.Filters{}
	if config.Filters != nil {
		filters = *config.Filters
	}

	summary := consumeEvents(orchestrator.Run(ctx, prof, filters), logger)
	if summary == nil {
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, summary, registry, results, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// consumeEvents drains the session stream, logging incremental results as
// they arrive. It returns the final summary, or nil when the session
// failed.
func consumeEvents(events <-chan search.Event, logger *zap.Logger) *search.Summary {
	for event := range events {
		switch event.Type {
		case search.EventSearchStarted:
			logger.Info("search started")
		case search.EventJobsFound:
			logger.Info("jobs found",
				zap.String("source", event.Source),
				zap.Int("count", len(event.Jobs)),
				zap.Int("progress_percent", event.ProgressPercent),
			)
			for _, j := range event.Jobs {
				logger.Info("match",
					zap.String("title", j.Title),
					zap.String("company", j.Company),
					zap.Int("match_percent", j.MatchPercentage),
					zap.String("url", j.URL),
				)
			}
		case search.EventProgressUpdate:
			logger.Info("progress", zap.String("message", event.Message))
		case search.EventUserMessage:
			logger.Warn("source advisory", zap.String("source", event.Source), zap.String("message", event.Message))
		case search.EventSearchComplete:
			logger.Info("search complete",
				zap.Int("total_jobs", event.Summary.TotalJobs),
				zap.Float64("elapsed_seconds", event.Summary.ElapsedSeconds),
			)
			return event.Summary
		case search.EventError:
			logger.Error("search failed", zap.String("message", event.Message))
			return nil
		}
	}

	return nil
}

func handleAction(ctx context.Context, action string, summary *search.Summary, registry *keyring.Registry, results cache.ResultCache, logger *zap.Logger) error {
	switch action {
	case PromptDumpToFile:
		filename, err := summary.AllJobs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptReportSource:
		pretty, _ := json.MarshalIndent(summary.AllJobs.ReportBySource(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", summary.AllJobs.Len()))
		return nil
	case PromptHealthReport:
		pretty, _ := json.MarshalIndent(registry.Report(), "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptResetHealth:
		registry.Reset()
		if err := results.Clear(ctx); err != nil {
			logger.Warn("clearing result cache", zap.Error(err))
		}
		logger.Info("source health reset")
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// buildSources wires one adapter per enabled config entry and registers its
// credentials. A source with broken credential files is skipped with a
// warning, never fatal to the whole run.
func buildSources(config *Config, registry *keyring.Registry, log *zap.Logger) ([]search.SourceConfig, error) {
	sources := make([]search.SourceConfig, 0, len(config.Sources))

	for _, cfg := range config.Sources {
		if !cfg.Enabled {
			continue
		}

		adapter, err := newAdapter(cfg)
		if err != nil {
			return nil, err
		}

		creds, err := loadCredentials(cfg)
		if err != nil {
			log.Warn("skipping source: credentials unavailable",
				zap.String("source", cfg.Name),
				zap.Error(err),
			)
			continue
		}

		registry.Configure(adapter.Name(), creds)
		sources = append(sources, search.SourceConfig{
			Adapter:           adapter,
			QueryBudget:       cfg.QueryBudget,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Boost:             cfg.Boost,
		})
	}

	return sources, nil
}

func newAdapter(cfg *SourceConfig) (source.Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "adzuna":
		return source.NewAdzuna(cfg.Country), nil
	case "themuse":
		return source.NewTheMuse(), nil
	case "reed":
		return source.NewReed(), nil
	case "jsearch":
		return source.NewJSearch(), nil
	case "theirstack":
		return source.NewTheirstack(), nil
	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Name)
	}
}

func loadCredentials(cfg *SourceConfig) ([]source.Credential, error) {
	// The Muse works without a key, just at a lower quota.
	if len(cfg.Credentials) == 0 && strings.EqualFold(cfg.Name, "themuse") {
		return []source.Credential{{Secret: "anonymous"}}, nil
	}

	creds := make([]source.Credential, 0, len(cfg.Credentials))
	for i, entry := range cfg.Credentials {
		key, err := secrets.Load(secrets.Source{
			Name:  fmt.Sprintf("%s api key %d", cfg.Name, i+1),
			Value: entry.Key,
			File:  entry.KeyFile,
		})
		if err != nil {
			return nil, err
		}

		cred := source.Credential{Secret: key}

		if entry.ID != "" || entry.IDFile != "" {
			id, err := secrets.Load(secrets.Source{
				Name:  fmt.Sprintf("%s app id %d", cfg.Name, i+1),
				Value: entry.ID,
				File:  entry.IDFile,
			})
			if err != nil {
				return nil, err
			}
			cred.ID = id
		}

		creds = append(creds, cred)
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("no credentials configured for %s", cfg.Name)
	}

	return creds, nil
}

// buildScorer assembles the match scorer, attaching the AI tier when it is
// enabled and configured. AI problems degrade to heuristic-only scoring.
func buildScorer(ctx context.Context, config *Config, log *zap.Logger) *scoring.Scorer {
	weights := scoring.DefaultWeights()
	concurrency := 0

	if config.Scoring != nil {
		concurrency = config.Scoring.Concurrency
		if w := config.Scoring.Weights; w != nil {
			weights = scoring.Weights{
				TechnicalSkills:  w.TechnicalSkills,
				Title:            w.Title,
				Industry:         w.Industry,
				Responsibilities: w.Responsibilities,
				Cap:              w.Cap,
			}
		}
	}

	opts := []scoring.Option{}
	if concurrency > 0 {
		opts = append(opts, scoring.WithConcurrency(concurrency))
	}

	if assistant, err := newAIScorer(ctx, config.AI, log); err != nil {
		log.Warn("AI scoring disabled", zap.Error(err))
	} else if assistant != nil {
		opts = append(opts, scoring.WithAssistant(assistant))
	}

	return scoring.NewScorer(weights, log, opts...)
}

func newAIScorer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Scorer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai scoring is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file)", err)
	}

	genLogger := logger.WithAIFields(log, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewScorer(generator, cfg.Gemini.MaxLogLength, genLogger), nil
}

func buildResultCache(ctx context.Context, cfg *CacheConfig, log *zap.Logger) cache.ResultCache {
	if cfg == nil || strings.TrimSpace(cfg.RedisURL) == "" {
		return cache.Noop{}
	}

	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	redisCache, err := cache.NewRedis(ctx, cfg.RedisURL, ttl, log)
	if err != nil {
		log.Warn("result cache unavailable; continuing without it", zap.Error(err))
		return cache.Noop{}
	}

	return redisCache
}
