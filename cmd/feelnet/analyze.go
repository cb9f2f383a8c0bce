package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	analyzeStrategy     string
	analyzeNoPreprocess bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Classify the sentiment of a single text",
	Long: `Classify the sentiment of a single text and print the label,
confidence and per-class scores. The text is read from the argument,
or from stdin when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
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

		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(raw)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("no text to analyze")
		}
		if !analyzeNoPreprocess {
			text = engine.Normalize(text)
		}

		result, err := engine.AnalyzeWith(analyzeStrategy, text)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", "ensemble", "classification strategy (lexicon, polarity, model, ensemble)")
	analyzeCmd.Flags().BoolVar(&analyzeNoPreprocess, "no-preprocess", false, "skip the full normalization pipeline before classifying")
}
