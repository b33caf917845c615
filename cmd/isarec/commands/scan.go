/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scan.go
Description: Scan command implementation for isarec. Loads the reference corpus,
builds the scan engine, analyzes each target file, and emits region reports as JSON
to stdout and optionally to timestamped report files.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/isarec/pkg/core"
	"github.com/kleascm/isarec/pkg/corpus"
	"github.com/kleascm/isarec/pkg/logging"
	"github.com/kleascm/isarec/pkg/reporting"
	"github.com/kleascm/isarec/pkg/utils"
)

// Version is stamped into report files.
const Version = "1.0.0"

// RunScan executes the scan process for every target file
func RunScan(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	// Create scan configuration
	config := createScanConfig()
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Load the reference corpus; a scan never starts against a partial
	// or invalid corpus.
	corpusDir := viper.GetString("corpus_dir")
	if corpusDir == "" {
		return fmt.Errorf("corpus directory not specified - use --corpus")
	}
	loadStart := time.Now()
	model, err := corpus.Load(corpusDir, logger.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	logger.LogCorpusLoad(model.Len(), time.Since(loadStart), map[string]interface{}{
		"dir": corpusDir,
	})

	// Create scan engine
	engine := core.NewEngine()
	engine.SetModel(model)
	engine.SetLogger(logger.GetLogger())
	engine.AddReporter(logging.NewScanReporter(logger))

	if err := engine.Initialize(config); err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	// Set up signal handling: an interrupted scan discards partial
	// output rather than emitting a half-built region list.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	reportDir := viper.GetString("report_dir")

	for _, file := range args {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", file, err)
		}

		result, err := engine.Scan(ctx, data)
		if err != nil {
			return fmt.Errorf("scan of %s failed: %w", file, err)
		}

		report := reporting.NewReport(file, result, config.BigRegionMode)

		if viper.GetBool("no_out") {
			// JSON output suppressed: still give the operator a
			// one-line-per-region overview on stderr.
			fmt.Fprint(os.Stderr, report.Summary())
		} else {
			if err := report.WriteJSON(os.Stdout); err != nil {
				return err
			}
		}

		if reportDir != "" {
			path, err := utils.WriteScanReport(reportDir, result.RunID, Version, report)
			if err != nil {
				return fmt.Errorf("failed to write report for %s: %w", file, err)
			}
			logger.GetLogger().WithField("path", path).Info("Report written")
		}

		// Long multi-file scans can outgrow the size limit; rotation
		// is a no-op below it.
		if err := logger.RotateLogs(); err != nil {
			return fmt.Errorf("failed to rotate logs: %w", err)
		}
	}

	return nil
}
