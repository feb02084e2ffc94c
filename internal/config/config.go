// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the roster-watch configuration
type Config struct {
	RosterURL   string       `mapstructure:"roster_url"`
	IndexURL    string       `mapstructure:"index_url"`
	DBPath      string       `mapstructure:"db_path"`
	LogFile     string       `mapstructure:"log_file"`
	WatchDir    string       `mapstructure:"watch_dir"`
	HTTPPort    int          `mapstructure:"http_port"`
	WorkerCount int          `mapstructure:"worker_count"`
	PollHours   int          `mapstructure:"poll_hours"`
	Parser      ParserConfig `mapstructure:"parser"`
	Notify      NotifyConfig `mapstructure:"notify"`
}

// ParserConfig holds the plausibility thresholds for a parse run. Committee
// counts change between Congresses, so these live in configuration.
type ParserConfig struct {
	MinCommittees        int    `mapstructure:"min_committees"`
	RequireSubcommittees bool   `mapstructure:"require_subcommittees"`
	DegradedPolicy       string `mapstructure:"degraded_policy"` // store or discard
}

// NotifyConfig holds notification settings
type NotifyConfig struct {
	DesktopAlerts bool `mapstructure:"desktop_alerts"`
}

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	// Set default values
	viper.SetDefault("roster_url", "https://clerk.house.gov/committee_info/scsoal.pdf")
	viper.SetDefault("index_url", "https://clerk.house.gov/Committees")
	viper.SetDefault("db_path", "./roster.db")
	viper.SetDefault("log_file", "./roster-watch.log")
	viper.SetDefault("watch_dir", "")
	viper.SetDefault("http_port", 8081)
	viper.SetDefault("worker_count", 2)
	viper.SetDefault("poll_hours", 24)
	viper.SetDefault("parser.min_committees", 8)
	viper.SetDefault("parser.require_subcommittees", true)
	viper.SetDefault("parser.degraded_policy", "discard")
	viper.SetDefault("notify.desktop_alerts", true)

	// If config path is provided, use it
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Otherwise, look in home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(home, ".roster-watch")
		configFile := filepath.Join(configDir, "config.yaml")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		// If config file doesn't exist, create default one
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := generateDefaultConfig(configFile); err != nil {
				return nil, fmt.Errorf("failed to generate default config: %w", err)
			}
		}

		viper.SetConfigFile(configFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No config file found, using defaults")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Allow environment variables
	viper.SetEnvPrefix("ROSTER")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Parser.DegradedPolicy != "store" && config.Parser.DegradedPolicy != "discard" {
		log.Printf("Invalid degraded_policy %q, defaulting to discard", config.Parser.DegradedPolicy)
		config.Parser.DegradedPolicy = "discard"
	}

	return &config, nil
}

// generateDefaultConfig creates a default configuration file
func generateDefaultConfig(configFile string) error {
	defaultConfig := `# roster-watch configuration

roster_url: "https://clerk.house.gov/committee_info/scsoal.pdf"  # the roster PDF
index_url: "https://clerk.house.gov/Committees"  # page scraped for the current roster link

db_path: "./roster.db"
log_file: "./roster-watch.log"

watch_dir: ""  # optional local directory watched for dropped roster PDFs

http_port: 8081
worker_count: 2
poll_hours: 24  # how often to check the clerk's site for a new edition

parser:
  min_committees: 8          # floor below which a run is Degraded
  require_subcommittees: true
  degraded_policy: "discard" # store | discard

notify:
  desktop_alerts: true
`

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}

	return os.WriteFile(configFile, []byte(defaultConfig), 0644)
}
