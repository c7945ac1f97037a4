package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/remotescout/remotescout/internal/source"
)

const (
	app = "remotescout"
)

type Config struct {
	ProfileFile        string          `mapstructure:"profile-file"`
	Threshold          int             `mapstructure:"threshold"`
	ResetIntervalHours int             `mapstructure:"reset-interval-hours"`
	Filters            *source.Filters `mapstructure:"filters"`
	Scoring            *ScoringConfig  `mapstructure:"scoring"`
	Cache              *CacheConfig    `mapstructure:"cache"`
	AI                 *AIConfig       `mapstructure:"ai"`
	Sources            []*SourceConfig `mapstructure:"sources"`
}

type ScoringConfig struct {
	Concurrency int            `mapstructure:"concurrency"`
	Weights     *WeightsConfig `mapstructure:"weights"`
}

type WeightsConfig struct {
	TechnicalSkills  float64 `mapstructure:"technical-skills"`
	Title            float64 `mapstructure:"title"`
	Industry         float64 `mapstructure:"industry"`
	Responsibilities float64 `mapstructure:"responsibilities"`
	Cap              int     `mapstructure:"cap"`
}

type CacheConfig struct {
	RedisURL   string `mapstructure:"redis-url"`
	TTLMinutes int    `mapstructure:"ttl-minutes"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type SourceConfig struct {
	Name              string              `mapstructure:"name"`
	Enabled           bool                `mapstructure:"enabled"`
	QueryBudget       int                 `mapstructure:"query-budget"`
	RequestsPerSecond float64             `mapstructure:"requests-per-second"`
	Boost             int                 `mapstructure:"boost"`
	Country           string              `mapstructure:"country"`
	Credentials       []*CredentialConfig `mapstructure:"credentials"`
}

type CredentialConfig struct {
	ID      string `mapstructure:"id"`
	IDFile  string `mapstructure:"id-file"`
	Key     string `mapstructure:"key"`
	KeyFile string `mapstructure:"key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "remotescout is a cli that aggregates remote job postings from multiple boards and matches them against your resume profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("cache.redis-url", "REMOTESCOUT_REDIS_URL"); err != nil {
		log.Fatalf("binding REMOTESCOUT_REDIS_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is remotescout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run and cache commands. If there is no config, we can skip initialization.
	if runCmd.CalledAs() == "" && cacheClearCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
