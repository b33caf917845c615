/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Main scan engine implementation for isarec. Partitions a target buffer
into adaptively sized windows, fans them out across a fixed worker pool against the
shared read-only corpus model, collects results by window index so region output is
deterministic regardless of scheduling, and merges them into labeled regions.
*/

package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/isarec/pkg/classify"
	"github.com/kleascm/isarec/pkg/corpus"
	"github.com/kleascm/isarec/pkg/filter"
	"github.com/kleascm/isarec/pkg/interfaces"
)

// Engine is the region-classification engine. It owns no mutable state
// during a scan besides the per-scan result buffer: the corpus model is
// immutable after Initialize, so workers need no locking on the hot path.
type Engine struct {
	config *interfaces.ScanConfig
	logger *logrus.Logger

	// Core components
	model      *corpus.Model
	filter     *filter.Filter
	classifier *classify.Classifier

	// Worker management
	workers []*Worker

	// Telemetry
	reporters []interfaces.Reporter

	// State management
	initialized bool
	mu          sync.RWMutex
}

// NewEngine creates a new scan engine instance.
func NewEngine() *Engine {
	return &Engine{
		logger: logrus.New(),
	}
}

// SetModel injects the corpus model. The model must be fully constructed
// and validated; the engine never mutates it.
func (e *Engine) SetModel(model *corpus.Model) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.model = model
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(logger *logrus.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// AddReporter registers a Reporter for scan telemetry.
func (e *Engine) AddReporter(reporter interfaces.Reporter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reporters = append(e.reporters, reporter)
}

// Initialize validates the configuration and prepares the filter,
// classifier, and worker pool. The corpus model must be set first.
func (e *Engine) Initialize(config *interfaces.ScanConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if config == nil {
		config = interfaces.DefaultScanConfig()
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid scan configuration: %w", err)
	}
	if e.model == nil {
		return ErrModelNotSet
	}

	e.config = config
	e.setupLogging()

	e.filter = filter.New(config)
	e.classifier = classify.New(e.model, config, e.logger)

	numWorkers := config.Workers()
	e.workers = make([]*Worker, numWorkers)
	for i := 0; i < numWorkers; i++ {
		e.workers[i] = NewWorker(i, e.filter, e.classifier, e.logger)
	}

	e.initialized = true
	e.logger.WithFields(logrus.Fields{
		"workers":        numWorkers,
		"corpus_entries": e.model.Len(),
	}).Info("Scan engine initialized")
	return nil
}

// setupLogging configures the engine logger from the scan configuration.
func (e *Engine) setupLogging() {
	level, err := logrus.ParseLevel(e.config.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	e.logger.SetLevel(level)

	if e.config.JSONLogs {
		e.logger.SetFormatter(&logrus.JSONFormatter{})
	}
}

// Model returns the corpus model the engine scans against.
func (e *Engine) Model() *corpus.Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Workers returns the engine's worker pool, for diagnostics.
func (e *Engine) Workers() []*Worker {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.workers
}

// Scan analyzes a target buffer and returns its ordered region list.
//
// Results are collected into a fixed slice indexed by window number, so
// the output is deterministic for a given (target, corpus, configuration)
// triple regardless of worker scheduling. A failure in any worker aborts
// the whole scan: partial results are never returned.
func (e *Engine) Scan(ctx context.Context, data []byte) (*ScanResult, error) {
	e.mu.RLock()
	if !e.initialized {
		e.mu.RUnlock()
		return nil, ErrNotInitialized
	}
	config := e.config
	workers := e.workers
	model := e.model
	reporters := e.reporters
	e.mu.RUnlock()

	start := time.Now()
	runID := uuid.New().String()

	w := windowSize(len(data), config)
	windows := partition(data, w)

	for _, r := range reporters {
		r.OnScanStart(runID, len(data), w)
	}

	results := make([]*interfaces.ClassificationResult, len(windows))

	if len(windows) > 0 {
		if err := e.runWindows(ctx, workers, windows, results); err != nil {
			return nil, err
		}
	} else if err := ctx.Err(); err != nil {
		// A cancelled scan never reports success, not even the
		// trivially empty one.
		return nil, fmt.Errorf("%w: %v", ErrScanAborted, err)
	}

	for _, res := range results {
		for _, r := range reporters {
			r.OnWindowClassified(runID, res)
		}
	}

	regions := mergeRegions(results)
	stats := computeStats(results, regions, len(data), w, len(workers), model.Len(), time.Since(start))

	for _, r := range reporters {
		r.OnScanComplete(runID, regions, stats)
	}

	return &ScanResult{
		RunID:      runID,
		TargetSize: len(data),
		WindowSize: w,
		Windows:    results,
		Regions:    regions,
		Stats:      stats,
	}, nil
}

// runWindows fans the window sequence out across the worker pool and
// stores each result at its window index. The first worker error cancels
// the remaining work and is returned as the scan's fatal error.
func (e *Engine) runWindows(ctx context.Context, workers []*Worker, windows []Window, results []*interfaces.ClassificationResult) error {
	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		scanErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			scanErr = err
			cancel()
		})
	}

	for _, worker := range workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			// A panicking worker must not silently corrupt the
			// scan; it aborts the whole run instead.
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("%w: worker %d panicked: %v", ErrScanAborted, w.ID, r))
				}
			}()
			for {
				select {
				case <-scanCtx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					res, err := w.Process(windows[i])
					if err != nil {
						fail(fmt.Errorf("%w: worker %d: %v", ErrScanAborted, w.ID, err))
						return
					}
					results[i] = res
				}
			}
		}(worker)
	}

feed:
	for i := range windows {
		select {
		case jobs <- i:
		case <-scanCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if scanErr != nil {
		e.logger.WithField("error", scanErr).Error("Scan aborted")
		return scanErr
	}
	if err := ctx.Err(); err != nil {
		// External cancellation discards partial output.
		return fmt.Errorf("%w: %v", ErrScanAborted, err)
	}
	return nil
}
