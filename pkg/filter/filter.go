/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: filter.go
Description: False-positive filter for the isarec region classifier. Marks windows as
high-entropy (compressed/encrypted/random) or string-like (dominated by printable-ASCII
runs) before any corpus scoring happens. Both categories are known to produce spurious
ISA matches under pure n-gram divergence, so filtered windows skip scoring entirely.
*/

package filter

import (
	"github.com/kleascm/isarec/pkg/interfaces"
	"github.com/kleascm/isarec/pkg/stats"
)

// Filter classifies windows into excluded categories ahead of ISA scoring.
type Filter struct {
	entropyThreshold float64 // bits/byte at or above which a window is high-entropy
	stringThreshold  float64 // printable-run coverage at or above which a window is string-like
	minRun           int     // minimum printable run length counted toward coverage
}

// New creates a filter from the scan configuration.
func New(config *interfaces.ScanConfig) *Filter {
	return &Filter{
		entropyThreshold: config.HighEntropyThreshold,
		stringThreshold:  config.StringThreshold,
		minRun:           config.StringMinRun,
	}
}

// Category decides whether a window is excluded from ISA scoring and why.
// Entropy is checked first: encrypted text is still high-entropy, and the
// entropy test is already paid for by the extractor.
func (f *Filter) Category(data []byte, ws *stats.WindowStats) interfaces.FilterCategory {
	if ws.Entropy >= f.entropyThreshold {
		return interfaces.FilterHighEntropy
	}
	if f.stringCoverage(data) >= f.stringThreshold {
		return interfaces.FilterString
	}
	return interfaces.FilterNone
}

// stringCoverage returns the fraction of the window covered by printable
// runs of at least minRun bytes, the strings(1) notion of text. Plain
// printable-byte counting is not enough: machine code for several ISAs is
// full of isolated printable bytes, but only real text strings form long
// uninterrupted runs.
func (f *Filter) stringCoverage(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	covered := 0
	run := 0
	for _, b := range data {
		if printable(b) {
			run++
			continue
		}
		if run >= f.minRun {
			covered += run
		}
		run = 0
	}
	if run >= f.minRun {
		covered += run
	}

	return float64(covered) / float64(len(data))
}

// printable reports whether a byte belongs in a text run: graphic ASCII,
// space, tab, newline, or carriage return.
func printable(b byte) bool {
	return (b >= 0x20 && b <= 0x7e) || b == '\t' || b == '\n' || b == '\r'
}
