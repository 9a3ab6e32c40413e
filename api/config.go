package api

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all creatorscope configuration.
type Config struct {
	Addr      string          `yaml:"addr"`
	DBPath    string          `yaml:"db_path"`
	LogLevel  string          `yaml:"log_level"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// ScrapeConfig controls the acquisition layer.
type ScrapeConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	ProfileDelay    time.Duration `yaml:"profile_delay"`
	Proxy           string        `yaml:"proxy"`
	BrowserFallback bool          `yaml:"browser_fallback"`
	// DemoFallback substitutes generated sample videos when TikTok
	// blocks a scrape, so a fresh install still has data to chart.
	DemoFallback bool `yaml:"demo_fallback"`
	MaxVideos    int  `yaml:"max_videos"`
}

// AnalyticsConfig controls result sizing.
type AnalyticsConfig struct {
	TopVideos int `yaml:"top_videos"`
}

// Defaults fills unset fields in place.
func (c *Config) Defaults() {
	if c.Addr == "" {
		c.Addr = ":8090"
	}
	if c.DBPath == "" {
		c.DBPath = "data/creatorscope.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Scrape.Timeout <= 0 {
		c.Scrape.Timeout = 15 * time.Second
	}
	if c.Scrape.ProfileDelay <= 0 {
		c.Scrape.ProfileDelay = time.Second
	}
	if c.Scrape.MaxVideos <= 0 {
		c.Scrape.MaxVideos = 30
	}
	if c.Analytics.TopVideos <= 0 {
		c.Analytics.TopVideos = 10
	}
}

// LoadConfigFile reads a YAML config file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Defaults()
	return cfg, nil
}
