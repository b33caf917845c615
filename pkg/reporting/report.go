/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Report types for the isarec region classifier. Converts scan results into
the ordered, exporter-facing region list that plotting and reporting consumers render,
and serializes it as JSON for the command line.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/isarec/pkg/core"
	"github.com/kleascm/isarec/pkg/interfaces"
)

// RegionEntry is one exported region row.
type RegionEntry struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Size      int     `json:"size"`
	Label     string  `json:"label"`
	Agreement float64 `json:"agreement"`
}

// Report is the detection output for one analyzed file.
type Report struct {
	File       string                `json:"file"`
	RunID      string                `json:"run_id"`
	WindowSize int                   `json:"window_size"`
	Regions    []RegionEntry         `json:"regions"`
	Stats      *interfaces.ScanStats `json:"stats"`

	// BigRegionMode tells the renderer to draw per-region summary bars
	// instead of per-byte detail. The region data itself is identical.
	BigRegionMode bool `json:"big_region_mode"`
}

// NewReport builds a report from a scan result. Filtered and unknown
// regions are exported under their category name so the consumer sees
// every byte accounted for.
func NewReport(file string, result *core.ScanResult, bigRegionMode bool) *Report {
	report := &Report{
		File:          file,
		RunID:         result.RunID,
		WindowSize:    result.WindowSize,
		Regions:       make([]RegionEntry, 0, len(result.Regions)),
		Stats:         result.Stats,
		BigRegionMode: bigRegionMode,
	}

	for i := range result.Regions {
		r := &result.Regions[i]
		label := r.Label
		if r.FilteredAs != interfaces.FilterNone {
			label = string(r.FilteredAs)
		}
		report.Regions = append(report.Regions, RegionEntry{
			Start:     r.Start,
			End:       r.End,
			Size:      r.Size(),
			Label:     label,
			Agreement: r.Agreement,
		})
	}

	return report
}

// WriteJSON serializes the report to the writer.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Summary renders a human-readable one-region-per-line overview.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d regions (window 0x%x)\n", r.File, len(r.Regions), r.WindowSize)
	for _, reg := range r.Regions {
		fmt.Fprintf(&b, "  0x%08x-0x%08x %-14s agreement=%.2f size=%d\n",
			reg.Start, reg.End, reg.Label, reg.Agreement, reg.Size)
	}
	return b.String()
}
