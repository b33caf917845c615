/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Scan telemetry reporter. Receives engine lifecycle notifications and
renders them through the logging system's scan helpers, so live progress, regions,
and statistics share one formatting and file-output path.
*/

package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/kleascm/isarec/pkg/interfaces"
)

// ScanReporter forwards scan lifecycle events to a Logger.
type ScanReporter struct {
	logger *Logger
}

// NewScanReporter creates a reporter backed by the given logger.
func NewScanReporter(logger *Logger) *ScanReporter {
	return &ScanReporter{logger: logger}
}

// OnScanStart logs the chosen scan parameters.
func (r *ScanReporter) OnScanStart(runID string, targetSize int, windowSize int) {
	r.logger.LogScan(runID, targetSize, windowSize, nil)
}

// OnWindowClassified logs per-window outcomes at debug level; per-window
// volume is far too high for anything louder.
func (r *ScanReporter) OnWindowClassified(runID string, result *interfaces.ClassificationResult) {
	if result.FilteredAs != interfaces.FilterNone {
		r.logger.LogFilter(runID, result.Offset, string(result.FilteredAs), nil)
		return
	}
	log := r.logger.GetLogger()
	if !log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	log.WithFields(logrus.Fields{
		"run_id":    runID,
		"offset":    result.Offset,
		"label":     result.Label,
		"agreement": result.Agreement,
	}).Debug("Window classified")
}

// OnScanComplete logs each merged region and the scan summary.
func (r *ScanReporter) OnScanComplete(runID string, regions []interfaces.Region, stats *interfaces.ScanStats) {
	for i := range regions {
		reg := &regions[i]
		label := reg.Label
		if reg.FilteredAs != interfaces.FilterNone {
			label = string(reg.FilteredAs)
		}
		r.logger.LogRegion(runID, reg.Start, reg.End, label, reg.Agreement, map[string]interface{}{
			"windows": reg.WindowCount,
		})
	}
	r.logger.LogStats(stats.Windows, stats.Classified, stats.Unknown, stats.WindowsPerSecond, map[string]interface{}{
		"run_id":   runID,
		"filtered": stats.FilteredEntropy + stats.FilteredString,
		"regions":  stats.RegionCount,
		"duration": stats.Duration,
	})
}
