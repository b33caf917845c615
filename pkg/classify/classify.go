/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: classify.go
Description: Divergence classifier for the isarec region classifier. Scores a window's
n-gram statistics against every corpus entry with smoothed KL divergence, picks the
best-matching ISA label per gram order, derives a confidence signal from bigram/trigram
agreement, and demotes windows beyond the divergence ceiling to "unknown".
*/

package classify

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/isarec/pkg/corpus"
	"github.com/kleascm/isarec/pkg/interfaces"
	"github.com/kleascm/isarec/pkg/stats"
)

// trigramCeilingOffset widens the ceiling for trigram divergences, which
// run systematically higher than bigram divergences on short windows
// because the trigram space is so much sparser. Calibrated together with
// the bigram ceiling against the reference corpus.
const trigramCeilingOffset = 1.0

// Classifier scores windows against a shared read-only corpus model.
// Safe for concurrent use by any number of workers.
type Classifier struct {
	model          *corpus.Model
	bigramCeiling  float64
	trigramCeiling float64
	logger         *logrus.Logger
}

// New creates a classifier over the given model and configuration.
func New(model *corpus.Model, config *interfaces.ScanConfig, logger *logrus.Logger) *Classifier {
	return &Classifier{
		model:          model,
		bigramCeiling:  config.DivergenceCeiling,
		trigramCeiling: config.DivergenceCeiling + trigramCeilingOffset,
		logger:         logger,
	}
}

// candidate is one corpus entry's divergence for a single gram order.
type candidate struct {
	label string
	div   float64
}

// Classify scores one window and returns its result. The caller has
// already run the false-positive filter.
func (c *Classifier) Classify(offset int, ws *stats.WindowStats) *interfaces.ClassificationResult {
	// A window too short to carry a full gram histogram (a trailing
	// window of 1 or 2 bytes) scores zero divergence against every
	// entry. That zero is absence of evidence, not an exact match, so
	// no label can be assigned.
	if len(ws.Bigrams) == 0 || len(ws.Trigrams) == 0 {
		return &interfaces.ClassificationResult{
			Offset: offset,
			Length: ws.Length,
			Label:  interfaces.LabelUnknown,
		}
	}

	bestBi := candidate{div: math.Inf(1)}
	nextBi := candidate{div: math.Inf(1)}
	bestTri := candidate{div: math.Inf(1)}
	nextTri := candidate{div: math.Inf(1)}

	for _, e := range c.model.Entries() {
		d := e.Divergence(ws)
		if d.Bigram < bestBi.div {
			nextBi = bestBi
			bestBi = candidate{label: e.Label, div: d.Bigram}
		} else if d.Bigram < nextBi.div {
			nextBi = candidate{label: e.Label, div: d.Bigram}
		}
		if d.Trigram < bestTri.div {
			nextTri = bestTri
			bestTri = candidate{label: e.Label, div: d.Trigram}
		} else if d.Trigram < nextTri.div {
			nextTri = candidate{label: e.Label, div: d.Trigram}
		}
	}

	if c.logger != nil && c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.WithFields(logrus.Fields{
			"offset":      offset,
			"bigram_1":    bestBi.label,
			"bigram_1_kl": bestBi.div,
			"bigram_2":    nextBi.label,
			"bigram_2_kl": nextBi.div,
		}).Debug("Bigram candidates")
		c.logger.WithFields(logrus.Fields{
			"offset":       offset,
			"trigram_1":    bestTri.label,
			"trigram_1_kl": bestTri.div,
			"trigram_2":    nextTri.label,
			"trigram_2_kl": nextTri.div,
		}).Debug("Trigram candidates")
	}

	result := &interfaces.ClassificationResult{
		Offset:       offset,
		Length:       ws.Length,
		BigramScore:  bestBi.div,
		TrigramScore: bestTri.div,
		Agreement:    bestBi.label == bestTri.label,
	}

	// The window looks unlike everything in the corpus: refuse to force
	// a label rather than report the least-bad match.
	if bestBi.div > c.bigramCeiling && bestTri.div > c.trigramCeiling {
		result.Label = interfaces.LabelUnknown
		result.Agreement = false
		return result
	}

	// On disagreement the bigram pick wins: trigram statistics are
	// sparser and noisier per window, so bigram is the more trusted
	// signal. Agreement stays false as the low-confidence marker.
	result.Label = bestBi.label
	return result
}
