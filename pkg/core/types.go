/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for the isarec scan engine. Defines windows, scan results, and
the sentinel errors used by the engine, alongside helpers for computing per-scan
statistics from ordered window results.
*/

package core

import (
	"errors"
	"time"

	"github.com/kleascm/isarec/pkg/interfaces"
)

var (
	// ErrNotInitialized is returned when Scan is called before Initialize.
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrModelNotSet is returned when no corpus model was injected.
	ErrModelNotSet = errors.New("corpus model not set - use SetModel() before Initialize()")
	// ErrScanAborted wraps a worker failure that aborted the whole scan.
	ErrScanAborted = errors.New("scan aborted")
	// ErrEmptyWindow indicates a zero-length window reached a worker,
	// which violates the scanner's partition invariant.
	ErrEmptyWindow = errors.New("empty window")
)

// Window is one contiguous slice of the target buffer, the unit of
// classification. The Bytes slice borrows from the target buffer; windows
// are ephemeral and never outlive a scan.
type Window struct {
	Offset int    // Byte offset in the target
	Length int    // Byte count; only the last window may be shorter than the scan window size
	Bytes  []byte // Borrowed slice of the target buffer
}

// ScanResult is the complete outcome of analyzing one target buffer.
type ScanResult struct {
	RunID      string                             `json:"run_id"`      // UUID of this scan run
	TargetSize int                                `json:"target_size"` // Length of the analyzed buffer
	WindowSize int                                `json:"window_size"` // Window length chosen by the sizing heuristic
	Windows    []*interfaces.ClassificationResult `json:"windows"`     // Per-window results in offset order
	Regions    []interfaces.Region                `json:"regions"`     // Merged regions covering the whole buffer
	Stats      *interfaces.ScanStats              `json:"stats"`       // Scan statistics
}

// computeStats derives the scan statistics from the ordered window results
// and merged regions.
func computeStats(results []*interfaces.ClassificationResult, regions []interfaces.Region, targetSize, windowSize, workers, corpusEntries int, duration time.Duration) *interfaces.ScanStats {
	s := &interfaces.ScanStats{
		Windows:          len(results),
		Duration:         duration,
		CorpusEntries:    corpusEntries,
		EffectiveWindow:  windowSize,
		EffectiveWorkers: workers,
		TargetSize:       targetSize,
		RegionCount:      len(regions),
	}

	for _, r := range results {
		switch r.FilteredAs {
		case interfaces.FilterHighEntropy:
			s.FilteredEntropy++
		case interfaces.FilterString:
			s.FilteredString++
		default:
			if r.Label == interfaces.LabelUnknown {
				s.Unknown++
			} else {
				s.Classified++
			}
			if r.Agreement {
				s.Agreements++
			}
		}
	}

	unlabeled := 0
	for i := range regions {
		reg := &regions[i]
		if reg.Confident() {
			s.ConfidentRegions++
		}
		if reg.FilteredAs != interfaces.FilterNone || reg.Label == interfaces.LabelUnknown {
			unlabeled += reg.Size()
		}
	}
	if targetSize > 0 {
		s.UnlabeledCoverage = float64(unlabeled) / float64(targetSize)
	}
	if secs := duration.Seconds(); secs > 0 {
		s.WindowsPerSecond = float64(len(results)) / secs
	}

	return s
}
