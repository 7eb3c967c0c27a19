// Package config loads the server/CLI configuration (YAML) and the
// optional metric alias overrides (Hjson, comment-friendly for the
// hand-maintained label lists).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"kabuscore/pkg/core/extract"
)

// Config is the top-level configuration.
type Config struct {
	ListenAddr string       `yaml:"listen_addr"`
	DataDir    string       `yaml:"data_dir"`
	AliasFile  string       `yaml:"alias_file"`
	Scrape     ScrapeConfig `yaml:"scrape"`
}

// ScrapeConfig tunes the page fetcher.
type ScrapeConfig struct {
	BaseURL        string `yaml:"base_url"`
	DelaySeconds   int    `yaml:"delay_seconds"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		DataDir:    "data",
		Scrape: ScrapeConfig{
			BaseURL:        "https://irbank.net",
			DelaySeconds:   2,
			TimeoutSeconds: 10,
		},
	}
}

// Load reads a YAML config file, filling unset fields from Default. A
// missing file is not an error: local runs work with defaults alone.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	def := Default()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Scrape.BaseURL == "" {
		cfg.Scrape.BaseURL = def.Scrape.BaseURL
	}
	if cfg.Scrape.TimeoutSeconds <= 0 {
		cfg.Scrape.TimeoutSeconds = def.Scrape.TimeoutSeconds
	}
	if cfg.Scrape.DelaySeconds < 0 {
		cfg.Scrape.DelaySeconds = def.Scrape.DelaySeconds
	}
	return cfg, nil
}

// Delay returns the scrape delay as a duration.
func (s ScrapeConfig) Delay() time.Duration {
	return time.Duration(s.DelaySeconds) * time.Second
}

// Timeout returns the scrape timeout as a duration.
func (s ScrapeConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// LoadAliases merges per-metric alias overrides from an Hjson file over
// the built-in defaults. Overrides EXTEND the default lists (appended
// after them, so defaults keep lookup priority); unknown metric keys
// are rejected so typos do not silently disable a metric. A missing
// file yields the defaults.
func LoadAliases(path string) (map[extract.Metric][]string, error) {
	aliases := extract.DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return aliases, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}

	// Hjson -> interface{} -> JSON -> typed map, the lenient-config
	// parse chain.
	var raw interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}
	jsonBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var overrides map[string][]string
	if err := json.Unmarshal(jsonBytes, &overrides); err != nil {
		return nil, fmt.Errorf("alias file %s has wrong shape: %w", path, err)
	}

	for key, extra := range overrides {
		m := extract.Metric(key)
		if _, ok := aliases[m]; !ok {
			return nil, fmt.Errorf("alias file %s: unknown metric %q", path, key)
		}
		aliases[m] = append(aliases[m], extra...)
	}
	return aliases, nil
}
