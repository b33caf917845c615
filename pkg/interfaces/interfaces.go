/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared types and interfaces for the isarec region classifier. Defines the
configuration, per-window classification results, merged regions, and reporter contracts
used across all packages to break import cycles and enable proper modular design.
*/

package interfaces

import (
	"fmt"
	"runtime"
	"time"
)

// LabelUnknown is assigned to windows whose statistics match no corpus entry
// within the divergence ceiling.
const LabelUnknown = "unknown"

// FilterCategory marks windows excluded from ISA scoring by the
// false-positive filter.
type FilterCategory string

const (
	// FilterNone means the window was scored against the corpus.
	FilterNone FilterCategory = ""
	// FilterHighEntropy marks compressed/encrypted/random-looking windows.
	FilterHighEntropy FilterCategory = "high-entropy"
	// FilterString marks windows dominated by printable-ASCII runs.
	FilterString FilterCategory = "string"
)

// ClassificationResult is the outcome for a single window. Results are
// produced independently and in parallel, then ordered by offset.
type ClassificationResult struct {
	Offset       int            `json:"offset"`        // Byte offset of the window in the target
	Length       int            `json:"length"`        // Window length in bytes
	Label        string         `json:"label"`         // Best-matching ISA label or "unknown"
	BigramScore  float64        `json:"bigram_score"`  // Winning bigram KL divergence
	TrigramScore float64        `json:"trigram_score"` // Winning trigram KL divergence
	Agreement    bool           `json:"agreement"`     // Whether bigram and trigram picks agree
	FilteredAs   FilterCategory `json:"filtered_as"`   // Non-empty when the filter excluded the window
}

// Region is a maximal run of adjacent ClassificationResults sharing
// (Label, FilteredAs). Regions are sorted, non-overlapping, and cover the
// whole target with no gaps.
type Region struct {
	Start        int            `json:"start"`         // First byte offset covered
	End          int            `json:"end"`           // One past the last byte covered
	Label        string         `json:"label"`         // ISA label, "unknown", or "" when filtered
	FilteredAs   FilterCategory `json:"filtered_as"`   // Filter category, if any
	BigramScore  float64        `json:"bigram_score"`  // Mean winning bigram divergence across windows
	TrigramScore float64        `json:"trigram_score"` // Mean winning trigram divergence across windows
	Agreement    float64        `json:"agreement"`     // Fraction of windows with bigram/trigram agreement
	WindowCount  int            `json:"window_count"`  // Number of windows merged into this region
}

// Size returns the number of bytes the region covers.
func (r *Region) Size() int {
	return r.End - r.Start
}

// Confident reports whether a region carries a real ISA label backed by
// majority bigram/trigram agreement.
func (r *Region) Confident() bool {
	return r.FilteredAs == FilterNone && r.Label != LabelUnknown && r.Label != "" && r.Agreement >= 0.5
}

// ScanConfig represents the configuration for a scan
type ScanConfig struct {
	WindowMin            int     // Smallest allowed window length in bytes
	WindowMax            int     // Largest allowed window length in bytes
	Parallelism          int     // Worker count; <=0 means runtime.NumCPU()
	HighEntropyThreshold float64 // Entropy (bits/byte) at or above which a window is filtered
	StringThreshold      float64 // Printable-run coverage at or above which a window is filtered
	StringMinRun         int     // Minimum printable run length counted toward coverage
	DivergenceCeiling    float64 // Bigram divergence above which no label is assigned
	BigRegionMode        bool    // Selects the summary output shape for large files
	LogLevel             string  // Logging level (debug, info, warn, error)
	JSONLogs             bool    // Use JSON log format
}

// DefaultScanConfig returns the calibrated default configuration.
// The divergence ceiling and filter thresholds were tuned against the
// reference corpus; see DESIGN.md for the calibration notes.
func DefaultScanConfig() *ScanConfig {
	return &ScanConfig{
		WindowMin:            512,
		WindowMax:            4096,
		Parallelism:          runtime.NumCPU(),
		HighEntropyThreshold: 7.5,
		StringThreshold:      0.8,
		StringMinRun:         8,
		DivergenceCeiling:    5.0,
		LogLevel:             "info",
	}
}

// Validate checks the ScanConfig for invalid or missing values.
// Returns an error if the config is invalid, or nil if valid.
func (c *ScanConfig) Validate() error {
	if c.WindowMin <= 0 {
		return fmt.Errorf("window_min must be positive, got %d", c.WindowMin)
	}
	if c.WindowMax < c.WindowMin {
		return fmt.Errorf("window_max (%d) must be >= window_min (%d)", c.WindowMax, c.WindowMin)
	}
	if c.HighEntropyThreshold <= 0 || c.HighEntropyThreshold > 8 {
		return fmt.Errorf("high_entropy_threshold must be in (0, 8], got %g", c.HighEntropyThreshold)
	}
	if c.StringThreshold <= 0 || c.StringThreshold > 1 {
		return fmt.Errorf("string_threshold must be in (0, 1], got %g", c.StringThreshold)
	}
	if c.StringMinRun <= 0 {
		return fmt.Errorf("string_min_run must be positive, got %d", c.StringMinRun)
	}
	if c.DivergenceCeiling <= 0 {
		return fmt.Errorf("divergence_ceiling must be positive, got %g", c.DivergenceCeiling)
	}
	return nil
}

// Workers returns the effective worker pool size for this configuration.
func (c *ScanConfig) Workers() int {
	if c.Parallelism <= 0 {
		return runtime.NumCPU()
	}
	return c.Parallelism
}

// ScanStats tracks per-scan statistics
type ScanStats struct {
	Windows           int           `json:"windows"`            // Total windows scanned
	Classified        int           `json:"classified"`         // Windows assigned a real ISA label
	Unknown           int           `json:"unknown"`            // Windows labeled "unknown"
	FilteredEntropy   int           `json:"filtered_entropy"`   // Windows filtered as high-entropy
	FilteredString    int           `json:"filtered_string"`    // Windows filtered as string-like
	Agreements        int           `json:"agreements"`         // Windows with bigram/trigram agreement
	Duration          time.Duration `json:"duration"`           // Wall-clock scan duration
	WindowsPerSecond  float64       `json:"windows_per_second"` // Scan throughput
	CorpusEntries     int           `json:"corpus_entries"`     // Number of reference ISA entries
	EffectiveWindow   int           `json:"effective_window"`   // Window size chosen by the sizing heuristic
	EffectiveWorkers  int           `json:"effective_workers"`  // Worker pool size used
	TargetSize        int           `json:"target_size"`        // Target buffer length in bytes
	RegionCount       int           `json:"region_count"`       // Number of merged regions produced
	ConfidentRegions  int           `json:"confident_regions"`  // Regions with a real label and majority agreement
	UnlabeledCoverage float64       `json:"unlabeled_coverage"` // Fraction of bytes without a real ISA label
}

// Reporter receives scan lifecycle notifications for telemetry and
// live reporting.
type Reporter interface {
	// OnScanStart is called once before any window is processed.
	OnScanStart(runID string, targetSize int, windowSize int)
	// OnWindowClassified is called for each window result, in offset order.
	OnWindowClassified(runID string, result *ClassificationResult)
	// OnScanComplete is called once with the final regions and statistics.
	OnScanComplete(runID string, regions []Region, stats *ScanStats)
}
