/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: load.go
Description: Corpus loading for the isarec region classifier. Reads reference samples
from a directory or embedded filesystem of <label>.corpus files and builds the model
across a worker pool, since entry construction (dense bigram tables plus sparse
trigram maps) dominates startup time.
*/

package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// CorpusExt is the filename extension that marks a reference sample.
// The basename without the extension becomes the ISA label.
const CorpusExt = ".corpus"

// Sample pairs an ISA label with raw reference bytes. Used when the corpus
// is materialized by the caller (tests, embedded corpora) instead of read
// from disk.
type Sample struct {
	Label string
	Data  []byte
}

// NewModelFromSamples builds a validated model from in-memory samples,
// fanning entry construction out across a worker pool.
func NewModelFromSamples(samples []Sample, logger *logrus.Logger) (*Model, error) {
	if len(samples) == 0 {
		return nil, ErrNoEntries
	}

	entries := make([]*Entry, len(samples))
	errs := make([]error, len(samples))

	workers := runtime.NumCPU()
	if workers > len(samples) {
		workers = len(samples)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s := samples[i]
				if logger != nil {
					logger.WithFields(logrus.Fields{
						"label": s.Label,
						"bytes": len(s.Data),
					}).Debug("Building corpus entry")
				}
				entries[i], errs[i] = NewEntry(s.Label, s.Data, DefaultBaseCount)
			}
		}()
	}
	for i := range samples {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to build corpus entry: %w", err)
		}
	}

	return NewModel(entries)
}

// Load reads every *.corpus file under dir and builds the model.
// Missing directory, unreadable samples, or validation failures are fatal:
// a scan must never start against a partial corpus.
func Load(dir string, logger *logrus.Logger) (*Model, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path %q is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), logger)
}

// LoadFS builds the model from any filesystem, which lets callers hand in
// an embed.FS holding a packaged corpus.
func LoadFS(fsys fs.FS, logger *logrus.Logger) (*Model, error) {
	names, err := fs.Glob(fsys, "*"+CorpusExt)
	if err != nil {
		return nil, fmt.Errorf("failed to glob corpus files: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no %s files found", ErrNoEntries, CorpusExt)
	}

	samples := make([]Sample, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus sample %q: %w", name, err)
		}
		samples = append(samples, Sample{
			Label: strings.TrimSuffix(filepath.Base(name), CorpusExt),
			Data:  data,
		})
	}

	return NewModelFromSamples(samples, logger)
}
