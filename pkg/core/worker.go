/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: worker.go
Description: Worker implementation for parallel window classification in the isarec
scan engine. Each worker runs the extract-filter-classify pipeline over its assigned
windows against the shared read-only corpus model and tracks per-worker throughput
counters for diagnostics.
*/

package core

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/isarec/pkg/classify"
	"github.com/kleascm/isarec/pkg/filter"
	"github.com/kleascm/isarec/pkg/interfaces"
	"github.com/kleascm/isarec/pkg/stats"
)

// Worker processes windows independently of its siblings. The corpus model
// behind the classifier is immutable during a scan, so workers share it
// without locking.
type Worker struct {
	ID         int
	filter     *filter.Filter
	classifier *classify.Classifier
	logger     *logrus.Logger

	processed int64 // windows processed by this worker
	filtered  int64 // windows the false-positive filter excluded
}

// NewWorker creates a worker bound to the shared filter and classifier.
func NewWorker(id int, f *filter.Filter, c *classify.Classifier, logger *logrus.Logger) *Worker {
	return &Worker{
		ID:         id,
		filter:     f,
		classifier: c,
		logger:     logger,
	}
}

// Process runs the full per-window pipeline: statistics extraction, the
// false-positive filter, and (for informative windows) corpus scoring.
// Filtered windows skip scoring entirely.
func (w *Worker) Process(win Window) (*interfaces.ClassificationResult, error) {
	if win.Length == 0 {
		return nil, fmt.Errorf("%w at offset %d", ErrEmptyWindow, win.Offset)
	}

	atomic.AddInt64(&w.processed, 1)

	ws := stats.Extract(win.Bytes)

	if cat := w.filter.Category(win.Bytes, ws); cat != interfaces.FilterNone {
		atomic.AddInt64(&w.filtered, 1)
		return &interfaces.ClassificationResult{
			Offset:     win.Offset,
			Length:     win.Length,
			FilteredAs: cat,
		}, nil
	}

	return w.classifier.Classify(win.Offset, ws), nil
}

// Processed returns the number of windows this worker has handled.
func (w *Worker) Processed() int64 {
	return atomic.LoadInt64(&w.processed)
}

// Filtered returns the number of windows this worker excluded from
// scoring.
func (w *Worker) Filtered() int64 {
	return atomic.LoadInt64(&w.filtered)
}
