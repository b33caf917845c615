/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for isarec. Provides the scan and corpus
commands with comprehensive configuration management, viper-backed flags, and
structured logging for identifying machine code regions in binary files.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/isarec/cmd/isarec/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool
	logDir     string

	// Corpus configuration
	corpusDir string

	// Scan configuration
	windowMin         int
	windowMax         int
	workers           int
	entropyThreshold  float64
	stringThreshold   float64
	stringMinRun      int
	divergenceCeiling float64
	bigRegions        bool

	// Output configuration
	noOut     bool
	reportDir string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "isarec",
		Short: "isarec - Statistical machine code region identifier",
		Long: `isarec identifies which byte regions of a binary blob (firmware image,
memory dump, raw disassembly target) are likely machine code for a specific
instruction-set architecture, by comparing local bigram/trigram statistics
against a reference corpus of known-ISA samples.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")
	rootCmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "Directory containing <label>.corpus reference samples (required)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for timestamped log files (optional)")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("corpus_dir", rootCmd.PersistentFlags().Lookup("corpus"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))

	// Add scan command
	scanCmd := &cobra.Command{
		Use:   "scan [flags] FILE...",
		Short: "Identify machine code regions in binary files",
		Long: `Scan one or more binary files and report, per byte region, the best-matching
instruction-set architecture from the reference corpus. Regions the false-positive
filter excludes are reported as "high-entropy" or "string"; regions matching no
corpus entry are reported as "unknown".`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunScan,
	}

	scanCmd.Flags().IntVar(&windowMin, "window-min", 512, "Smallest window length in bytes")
	scanCmd.Flags().IntVar(&windowMax, "window-max", 4096, "Largest window length in bytes")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	scanCmd.Flags().Float64Var(&entropyThreshold, "entropy-threshold", 7.5, "Entropy (bits/byte) above which windows are filtered")
	scanCmd.Flags().Float64Var(&stringThreshold, "string-threshold", 0.8, "Printable-run coverage above which windows are filtered")
	scanCmd.Flags().IntVar(&stringMinRun, "string-min-run", 8, "Minimum printable run length counted as text")
	scanCmd.Flags().Float64Var(&divergenceCeiling, "divergence-ceiling", 5.0, "Divergence above which no label is assigned")
	scanCmd.Flags().BoolVar(&bigRegions, "big-regions", false, "Per-region summary output shape for very large files")
	scanCmd.Flags().BoolVar(&noOut, "no-out", false, "Do not write detection results to stdout")
	scanCmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for JSON report files (optional)")

	viper.BindPFlag("window_min", scanCmd.Flags().Lookup("window-min"))
	viper.BindPFlag("window_max", scanCmd.Flags().Lookup("window-max"))
	viper.BindPFlag("workers", scanCmd.Flags().Lookup("workers"))
	viper.BindPFlag("entropy_threshold", scanCmd.Flags().Lookup("entropy-threshold"))
	viper.BindPFlag("string_threshold", scanCmd.Flags().Lookup("string-threshold"))
	viper.BindPFlag("string_min_run", scanCmd.Flags().Lookup("string-min-run"))
	viper.BindPFlag("divergence_ceiling", scanCmd.Flags().Lookup("divergence-ceiling"))
	viper.BindPFlag("big_regions", scanCmd.Flags().Lookup("big-regions"))
	viper.BindPFlag("no_out", scanCmd.Flags().Lookup("no-out"))
	viper.BindPFlag("report_dir", scanCmd.Flags().Lookup("report-dir"))

	rootCmd.AddCommand(scanCmd)

	// Add corpus command
	corpusCmd := &cobra.Command{
		Use:   "corpus",
		Short: "Validate and inspect the reference corpus",
		Long: `Load the reference corpus, validate that every entry's distributions
normalize, and print per-entry statistics. Useful for checking a corpus before
scanning and for CI validation of corpus updates.`,
		RunE: commands.RunCorpus,
	}
	rootCmd.AddCommand(corpusCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
