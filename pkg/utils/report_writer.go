/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_writer.go
Description: Utility for writing scan reports to the reports directory.
Handles timestamped, versioned, and run-specific file naming. Ensures
directories exist and writes JSON files for easy downstream analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteScanReport writes a scan report to the reports directory with
// timestamp, run ID, and version in the filename. Returns the path of the
// written file.
func WriteScanReport(reportDir string, runID string, version string, report interface{}) (string, error) {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	// Generate filename: 2024-06-11_01-30-00_3f2a1b9c_v1.0.0.json
	shortID := runID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_v%s.json", timestamp, shortID, version)
	filePath := filepath.Join(reportDir, filename)

	// Marshal report to JSON
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return filePath, nil
}
