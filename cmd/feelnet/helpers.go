package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsawler/feelnet"
	"github.com/tsawler/feelnet/internal/config"
	"github.com/tsawler/feelnet/internal/log"
	"github.com/tsawler/feelnet/internal/scrape"
)

var (
	positiveColor = color.New(color.FgGreen, color.Bold)
	negativeColor = color.New(color.FgRed, color.Bold)
	neutralColor  = color.New(color.FgYellow, color.Bold)
)

// coloredLabel renders a polarity class in its conventional color.
func coloredLabel(label feelnet.Label) string {
	switch label {
	case feelnet.Positive:
		return positiveColor.Sprint(label)
	case feelnet.Negative:
		return negativeColor.Sprint(label)
	default:
		return neutralColor.Sprint(label)
	}
}

// loadFileConfig reads the TOML config selected by the --config flag,
// falling back to the XDG default path.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.FileConfig{}, err
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.LoadConfig(path)
}

// buildLogger returns a stderr logger honoring --verbose and the
// config file's verbose setting.
func buildLogger(cmd *cobra.Command, cfg config.FileConfig) (*log.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if !verbose && cfg.Engine.Verbose != nil {
		verbose = *cfg.Engine.Verbose
	}
	return &log.Logger{Enabled: verbose, W: os.Stderr}, nil
}

// buildEngine assembles the classification engine from the config file.
func buildEngine(cfg config.FileConfig, logger *log.Logger) (*feelnet.Engine, error) {
	norm := feelnet.DefaultNormalizationConfig()
	applyNormalizeConfig(&norm, cfg.Normalize)

	engineCfg := feelnet.Config{
		Strategies:    cfg.Engine.Strategies,
		Weights:       cfg.Engine.Weights,
		Normalization: norm,
		Logger:        logger,
	}
	if cfg.Engine.ModelPath != nil {
		engineCfg.ModelPath = *cfg.Engine.ModelPath
	}
	if cfg.Engine.LexiconPath != nil {
		engineCfg.LexiconPath = *cfg.Engine.LexiconPath
	}
	return feelnet.NewEngine(engineCfg)
}

func applyNormalizeConfig(norm *feelnet.NormalizationConfig, cfg config.NormalizeConfig) {
	if cfg.StripHTML != nil {
		norm.StripHTML = *cfg.StripHTML
	}
	if cfg.StripURLs != nil {
		norm.StripURLs = *cfg.StripURLs
	}
	if cfg.StripEmails != nil {
		norm.StripEmails = *cfg.StripEmails
	}
	if cfg.StripPunctuation != nil {
		norm.StripPunctuation = *cfg.StripPunctuation
	}
	if cfg.Lowercase != nil {
		norm.Lowercase = *cfg.Lowercase
	}
	if cfg.RemoveStopwords != nil {
		norm.RemoveStopwords = *cfg.RemoveStopwords
	}
	if cfg.Lemmatize != nil {
		norm.Lemmatize = *cfg.Lemmatize
	}
	if cfg.Stem != nil {
		norm.Stem = *cfg.Stem
	}
}

// buildFactory assembles the scraper factory from the config file.
func buildFactory(cfg config.FileConfig, logger *log.Logger) *scrape.Factory {
	opts := scrape.FetcherOptions{Logger: logger}
	if cfg.Scrape.DelayMS != nil {
		opts.Delay = time.Duration(*cfg.Scrape.DelayMS) * time.Millisecond
	}
	if cfg.Scrape.Retries != nil {
		opts.Retries = *cfg.Scrape.Retries
	}
	if cfg.Scrape.UserAgent != nil {
		opts.UserAgent = *cfg.Scrape.UserAgent
	}
	if cfg.Scrape.TimeoutSec != nil {
		opts.Timeout = time.Duration(*cfg.Scrape.TimeoutSec * float64(time.Second))
	}
	return scrape.NewFactory(scrape.NewFetcher(opts))
}

// printResult renders one classification result for the terminal.
func printResult(result feelnet.Result) {
	fmt.Printf("Sentiment:  %s\n", coloredLabel(result.Label))
	fmt.Printf("Confidence: %.1f%%\n", result.Confidence*100)
	fmt.Printf("Scores:     positive %.3f | negative %.3f | neutral %.3f\n",
		result.Scores[feelnet.Positive],
		result.Scores[feelnet.Negative],
		result.Scores[feelnet.Neutral])
	fmt.Printf("Strategy:   %s\n", result.Strategy)
	fmt.Printf("Elapsed:    %s\n", result.Elapsed)
}

// printStatistics renders batch statistics for the terminal.
func printStatistics(stats feelnet.BatchStatistics) {
	fmt.Printf("\nAnalyzed %d texts in %s (mean %s)\n", stats.Count, stats.TotalTime, stats.MeanTime)
	fmt.Printf("Mean confidence: %.1f%%\n", stats.MeanConfidence*100)
	for _, label := range feelnet.Labels() {
		fmt.Printf("  %s %.1f%%\n", coloredLabel(label), stats.LabelDistribution[label]*100)
	}
}
