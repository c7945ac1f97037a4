package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/cache"
	"github.com/remotescout/remotescout/internal/logger"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cached search results",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached search result",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		if config.Cache == nil || config.Cache.RedisURL == "" {
			logger.Info("no result cache configured; nothing to clear")
			return
		}

		results := buildResultCache(ctx, config.Cache, logger)
		if _, ok := results.(cache.Noop); ok {
			logger.Fatal("result cache unreachable")
		}

		if err := results.Clear(ctx); err != nil {
			logger.Fatal("clearing result cache", zap.Error(err))
		}

		logger.Info("result cache cleared")
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
