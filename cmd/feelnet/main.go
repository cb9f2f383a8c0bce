package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "feelnet",
	Short: "Ensemble sentiment analysis for review text",
	Long: `feelnet classifies text as positive, negative or neutral by combining
a lexicon walk, a polarity average and a pretrained model into one
weighted verdict.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to TOML config file (default: XDG config dir)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable diagnostic logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
