// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Engine    EngineConfig    `toml:"engine"`
	Normalize NormalizeConfig `toml:"normalize"`
	Server    ServerConfig    `toml:"server"`
	Store     StoreConfig     `toml:"store"`
	Scrape    ScrapeConfig    `toml:"scrape"`
}

// EngineConfig maps classification settings. Weights are keyed by
// strategy name.
type EngineConfig struct {
	Strategies  []string           `toml:"strategies"`
	Weights     map[string]float64 `toml:"weights"`
	ModelPath   *string            `toml:"model-path"`
	LexiconPath *string            `toml:"lexicon-path"`
	Verbose     *bool              `toml:"verbose"`
}

// NormalizeConfig maps the cleanup pipeline toggles. Unset fields keep
// the engine defaults.
type NormalizeConfig struct {
	StripHTML        *bool `toml:"strip-html"`
	StripURLs        *bool `toml:"strip-urls"`
	StripEmails      *bool `toml:"strip-emails"`
	StripPunctuation *bool `toml:"strip-punctuation"`
	Lowercase        *bool `toml:"lowercase"`
	RemoveStopwords  *bool `toml:"remove-stopwords"`
	Lemmatize        *bool `toml:"lemmatize"`
	Stem             *bool `toml:"stem"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr          *string `toml:"addr"`
	MaxTextLength *int    `toml:"max-text-length"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// ScrapeConfig maps scraper settings.
type ScrapeConfig struct {
	MaxReviews *int     `toml:"max-reviews"`
	DelayMS    *int     `toml:"delay-ms"`
	Retries    *int     `toml:"retries"`
	UserAgent  *string  `toml:"user-agent"`
	TimeoutSec *float64 `toml:"timeout-sec"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
