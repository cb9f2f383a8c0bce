package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/feelnet"
)

var batchNoPreprocess bool

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify every line of a file and print aggregate statistics",
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

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var texts []string
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !batchNoPreprocess {
				line = engine.Normalize(line)
			}
			texts = append(texts, line)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		if len(texts) == 0 {
			return fmt.Errorf("no texts found in %s", args[0])
		}

		results := engine.AnalyzeBatch(texts)
		for i, result := range results {
			fmt.Printf("%4d  %s  %.1f%%\n", i+1, coloredLabel(result.Label), result.Confidence*100)
		}
		printStatistics(feelnet.Aggregate(results))
		return nil
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchNoPreprocess, "no-preprocess", false, "skip the full normalization pipeline before classifying")
}
