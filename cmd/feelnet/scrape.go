package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/feelnet"
)

var scrapeMax int

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape product or title reviews and classify each one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadFileConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := buildLogger(cmd, cfg)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cfg, logger)
		if err != nil {
			return err
		}

		factory := buildFactory(cfg, logger)
		scraper, err := factory.ByURL(args[0])
		if err != nil {
			return err
		}

		maxReviews := scrapeMax
		if !cmd.Flags().Changed("max") && cfg.Scrape.MaxReviews != nil {
			maxReviews = *cfg.Scrape.MaxReviews
		}

		fmt.Printf("Scraping %s reviews (up to %d)...\n", scraper.Platform(), maxReviews)
		reviews, err := scraper.ScrapeReviews(cmd.Context(), args[0], maxReviews)
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			return fmt.Errorf("no reviews found at %s", args[0])
		}

		var results []feelnet.Result
		for i, review := range reviews {
			result, err := engine.Analyze(review.Text)
			if err != nil {
				logger.Printf("skipping review %d: %v", i+1, err)
				continue
			}
			results = append(results, result)

			title := review.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("\n%4d  %s  %.1f%%  %s\n", i+1, coloredLabel(result.Label), result.Confidence*100, title)
			if review.Rating > 0 {
				fmt.Printf("      rated %.1f by %s\n", review.Rating, review.Author)
			}
		}
		if len(results) > 0 {
			printStatistics(feelnet.Aggregate(results))
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeMax, "max", 50, "maximum number of reviews to scrape")
}
