/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scanner.go
Description: Window scanner for the isarec scan engine. Chooses the window length from
the target size (adaptive sizing within configured bounds) and partitions the target
buffer into contiguous, non-overlapping windows covering every byte.
*/

package core

import (
	"github.com/kleascm/isarec/pkg/interfaces"
)

// minWindowsPerWorker is the batch quota that gates window shrinking: the
// window is only halved while every worker would still receive at least
// this many windows at the finer size, so the per-window scoring overhead
// stays amortized.
const minWindowsPerWorker = 64

// windowSize picks the window length for a target of l bytes.
//
// Small windows give finer region boundaries but carry too few n-gram
// samples to classify reliably, so small targets keep the largest window.
// The size is halved, down to the configured minimum, each time the target
// is large enough to keep the whole pool busy at the finer granularity.
// For a fixed configuration the result is monotone non-increasing in l.
func windowSize(l int, config *interfaces.ScanConfig) int {
	w := config.WindowMax
	quota := config.Workers() * minWindowsPerWorker
	for w/2 >= config.WindowMin && l/(w/2) >= quota {
		w /= 2
	}
	return w
}

// partition splits the target into contiguous non-overlapping windows of
// length w covering [0, len(data)) exactly; the last window may be
// shorter. A zero-length target yields no windows, which downstream turns
// into an empty region list rather than an error.
func partition(data []byte, w int) []Window {
	if len(data) == 0 || w <= 0 {
		return nil
	}

	windows := make([]Window, 0, (len(data)+w-1)/w)
	for off := 0; off < len(data); off += w {
		end := off + w
		if end > len(data) {
			end = len(data)
		}
		windows = append(windows, Window{
			Offset: off,
			Length: end - off,
			Bytes:  data[off:end],
		})
	}
	return windows
}
