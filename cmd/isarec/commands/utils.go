/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the isarec commands. Provides common configuration
loading, logging setup, and scan configuration assembly used across all command
implementations.
*/

package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kleascm/isarec/pkg/interfaces"
	"github.com/kleascm/isarec/pkg/logging"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("ISAREC")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the logging system. Logs always go to the
// console; with a log directory configured they also go to a timestamped
// file. The caller owns the returned logger and must Close it.
func SetupLogging() (*logging.Logger, error) {
	if _, err := logrus.ParseLevel(viper.GetString("log_level")); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	dir := viper.GetString("log_dir")
	format := logging.LogFormatText
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	} else if dir != "" {
		format = logging.LogFormatCustom
	}

	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    format,
		OutputDir: dir,
		MaxFiles:  10,
		MaxSize:   100 * 1024 * 1024,
		Timestamp: true,
		Colors:    format == logging.LogFormatCustom,
	}
	if dir != "" {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid logging configuration: %w", err)
		}
	}

	return logging.NewLogger(config)
}

// createScanConfig assembles the scan configuration from viper
func createScanConfig() *interfaces.ScanConfig {
	config := interfaces.DefaultScanConfig()

	if v := viper.GetInt("window_min"); v > 0 {
		config.WindowMin = v
	}
	if v := viper.GetInt("window_max"); v > 0 {
		config.WindowMax = v
	}
	config.Parallelism = viper.GetInt("workers")
	if v := viper.GetFloat64("entropy_threshold"); v > 0 {
		config.HighEntropyThreshold = v
	}
	if v := viper.GetFloat64("string_threshold"); v > 0 {
		config.StringThreshold = v
	}
	if v := viper.GetInt("string_min_run"); v > 0 {
		config.StringMinRun = v
	}
	if v := viper.GetFloat64("divergence_ceiling"); v > 0 {
		config.DivergenceCeiling = v
	}
	config.BigRegionMode = viper.GetBool("big_regions")
	config.LogLevel = viper.GetString("log_level")
	config.JSONLogs = viper.GetBool("json_logs")

	return config
}
