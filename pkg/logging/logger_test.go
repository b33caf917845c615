/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for the logging system. Covers configuration validation, log file
creation, the scanner-specific logging helpers, and clean shutdown.
*/

package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/isarec/pkg/logging"
)

func testLoggerConfig(t *testing.T) *logging.LoggerConfig {
	t.Helper()
	return &logging.LoggerConfig{
		Level:     logging.LogLevelDebug,
		Format:    logging.LogFormatJSON,
		OutputDir: t.TempDir(),
		MaxFiles:  3,
		MaxSize:   1024 * 1024,
		Timestamp: true,
	}
}

// TestLoggerConfigValidate tests the configuration rejection rules
func TestLoggerConfigValidate(t *testing.T) {
	require.NoError(t, testLoggerConfig(t).Validate())

	bad := testLoggerConfig(t)
	bad.OutputDir = ""
	assert.Error(t, bad.Validate())

	bad = testLoggerConfig(t)
	bad.MaxFiles = 0
	assert.Error(t, bad.Validate())

	bad = testLoggerConfig(t)
	bad.Format = "yaml"
	assert.Error(t, bad.Validate())

	bad = testLoggerConfig(t)
	bad.Level = "loud"
	assert.Error(t, bad.Validate())
}

// TestNewLogger tests logger construction and log file creation
func TestNewLogger(t *testing.T) {
	config := testLoggerConfig(t)

	logger, err := logging.NewLogger(config)
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Close()

	require.NotNil(t, logger.GetLogger())

	files, err := filepath.Glob(filepath.Join(config.OutputDir, "isarec_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

// TestLoggerScanHelpers tests the scanner-specific logging methods write
// to the log file
func TestLoggerScanHelpers(t *testing.T) {
	config := testLoggerConfig(t)

	logger, err := logging.NewLogger(config)
	require.NoError(t, err)
	defer logger.Close()

	logger.LogCorpusLoad(12, 150*time.Millisecond, nil)
	logger.LogScan("run-1", 131072, 4096, map[string]interface{}{"file": "firmware.bin"})
	logger.LogRegion("run-1", 0, 65536, "x86", 1.0, nil)
	logger.LogFilter("run-1", 65536, "high-entropy", nil)
	logger.LogStats(32, 30, 2, 1200.5, nil)

	files, err := filepath.Glob(filepath.Join(config.OutputDir, "isarec_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "run-1")
	assert.Contains(t, content, "x86")
	assert.Contains(t, content, "high-entropy")
}

// TestLoggerCustomFormat tests the custom scan formatter path
func TestLoggerCustomFormat(t *testing.T) {
	config := testLoggerConfig(t)
	config.Format = logging.LogFormatCustom

	logger, err := logging.NewLogger(config)
	require.NoError(t, err)
	defer logger.Close()

	logger.LogScan("run-2", 4096, 4096, nil)
}
