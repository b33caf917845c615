/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: corpus.go
Description: Reference corpus model for the isarec region classifier. Holds, per known
ISA label, smoothed bigram and trigram probability distributions precomputed from
corpus samples. Entries are built once with additive smoothing, validated to
normalize, and shared read-only by all scan workers for the process lifetime.
*/

package corpus

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/kleascm/isarec/pkg/stats"
)

const (
	// DefaultBaseCount is the additive smoothing count applied to every
	// gram bucket of a corpus entry. Entries are divisors during scoring,
	// so every bucket must keep non-zero probability mass.
	DefaultBaseCount = 0.01

	// MinSampleSize is the smallest corpus sample that still yields at
	// least one trigram.
	MinSampleSize = 3

	bigramSpace  = 256 * 256
	trigramSpace = 256 * 256 * 256

	// normTolerance bounds the accepted floating error when checking that
	// a distribution sums to 1.
	normTolerance = 1e-6
)

var (
	// ErrNoEntries indicates a corpus source with no usable samples.
	ErrNoEntries = errors.New("corpus contains no entries")
	// ErrDuplicateLabel indicates two corpus samples sharing an ISA label.
	ErrDuplicateLabel = errors.New("duplicate corpus label")
	// ErrShortSample indicates a corpus sample too small to model.
	ErrShortSample = errors.New("corpus sample too short")
	// ErrBadDistribution indicates a distribution that fails to normalize.
	ErrBadDistribution = errors.New("corpus distribution does not normalize")
)

// Entry holds the reference n-gram distributions for one ISA label.
// Bigrams are dense (the full 256x256 table fits in 512KiB and makes the
// scoring lookup branch-free); trigrams stay sparse because their space is
// 16M buckets of which a sample populates a tiny fraction. Immutable after
// construction.
type Entry struct {
	Label      string
	SampleSize int

	Bigrams     []float64 // Dense bigramSpace probabilities, smoothing floor included
	Trigrams    map[uint32]float64
	BigramBase  float64 // Probability of any unobserved bigram
	TrigramBase float64 // Probability of any unobserved trigram
}

// Divergence carries the bigram and trigram KL divergences of one window
// against one corpus entry.
type Divergence struct {
	Bigram  float64
	Trigram float64
}

// NewEntry builds a corpus entry from raw sample bytes using additive
// smoothing with the given base count. Gram counting walks every length-3
// window of the sample, so bigram and trigram totals both equal len(data)-2.
func NewEntry(label string, data []byte, baseCount float64) (*Entry, error) {
	if len(data) < MinSampleSize {
		return nil, fmt.Errorf("%w: %q is %d bytes, need at least %d", ErrShortSample, label, len(data), MinSampleSize)
	}

	bgCounts := make(map[uint16]int)
	tgCounts := make(map[uint32]int)
	for i := 0; i+2 < len(data); i++ {
		bgCounts[stats.BigramKey(data[i], data[i+1])]++
		tgCounts[stats.TrigramKey(data[i], data[i+1], data[i+2])]++
	}

	observations := float64(len(data) - 2)
	bgTotal := baseCount*bigramSpace + observations
	tgTotal := baseCount*trigramSpace + observations

	e := &Entry{
		Label:       label,
		SampleSize:  len(data),
		Bigrams:     make([]float64, bigramSpace),
		Trigrams:    make(map[uint32]float64, len(tgCounts)),
		BigramBase:  baseCount / bgTotal,
		TrigramBase: baseCount / tgTotal,
	}

	for i := range e.Bigrams {
		e.Bigrams[i] = e.BigramBase
	}
	for k, c := range bgCounts {
		e.Bigrams[k] = (float64(c) + baseCount) / bgTotal
	}
	for k, c := range tgCounts {
		e.Trigrams[k] = (float64(c) + baseCount) / tgTotal
	}

	return e, nil
}

// Validate checks that both distributions sum to 1 within floating
// tolerance. A failure here is fatal: it means the entry cannot serve as a
// divisor during scoring.
func (e *Entry) Validate() error {
	var bgSum float64
	for _, p := range e.Bigrams {
		bgSum += p
	}
	if math.Abs(bgSum-1) > normTolerance {
		return fmt.Errorf("%w: %q bigrams sum to %.9f", ErrBadDistribution, e.Label, bgSum)
	}

	tgSum := float64(trigramSpace-len(e.Trigrams)) * e.TrigramBase
	for _, p := range e.Trigrams {
		tgSum += p
	}
	if math.Abs(tgSum-1) > normTolerance {
		return fmt.Errorf("%w: %q trigrams sum to %.9f", ErrBadDistribution, e.Label, tgSum)
	}

	return nil
}

// DistinctBigrams returns the number of bigram buckets observed in the
// sample (above the smoothing floor).
func (e *Entry) DistinctBigrams() int {
	n := 0
	for _, p := range e.Bigrams {
		if p > e.BigramBase {
			n++
		}
	}
	return n
}

// DistinctTrigrams returns the number of trigram buckets observed in the
// sample.
func (e *Entry) DistinctTrigrams() int {
	return len(e.Trigrams)
}

// Divergence computes the smoothed Kullback-Leibler divergence of a window
// against this entry, separately for bigrams and trigrams. Only grams the
// window actually contains contribute; grams the entry never saw fall back
// to its smoothing floor, so the result is always finite and >= 0.
func (e *Entry) Divergence(ws *stats.WindowStats) Divergence {
	var d Divergence
	for k, f := range ws.Bigrams {
		d.Bigram += f * math.Log(f/e.Bigrams[k])
	}
	for k, f := range ws.Trigrams {
		q, ok := e.Trigrams[k]
		if !ok {
			q = e.TrigramBase
		}
		d.Trigram += f * math.Log(f/q)
	}
	return d
}

// Model is the ordered, label-unique set of corpus entries shared
// read-only by all scan workers. Constructed once at startup and never
// mutated afterwards, so no locking is needed during scans.
type Model struct {
	entries []*Entry
	byLabel map[string]*Entry
}

// NewModel builds a model from prebuilt entries. Entries are validated,
// checked for label uniqueness, and ordered by label so iteration order is
// deterministic regardless of the source.
func NewModel(entries []*Entry) (*Model, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	m := &Model{
		entries: make([]*Entry, 0, len(entries)),
		byLabel: make(map[string]*Entry, len(entries)),
	}
	for _, e := range entries {
		if _, exists := m.byLabel[e.Label]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, e.Label)
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		m.byLabel[e.Label] = e
		m.entries = append(m.entries, e)
	}

	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].Label < m.entries[j].Label
	})

	return m, nil
}

// Entries returns the label-ordered corpus entries.
func (m *Model) Entries() []*Entry {
	return m.entries
}

// Len returns the number of corpus entries.
func (m *Model) Len() int {
	return len(m.entries)
}

// Labels returns the ordered ISA labels known to the model.
func (m *Model) Labels() []string {
	labels := make([]string, len(m.entries))
	for i, e := range m.entries {
		labels[i] = e.Label
	}
	return labels
}

// Get returns the entry for a label, or nil if the label is unknown.
func (m *Model) Get(label string) *Entry {
	return m.byLabel[label]
}

// Score computes, for every corpus entry, the bigram and trigram
// divergences of the given window statistics. Pure read access; safe to
// call from any number of workers concurrently.
func (m *Model) Score(ws *stats.WindowStats) map[string]Divergence {
	scores := make(map[string]Divergence, len(m.entries))
	for _, e := range m.entries {
		scores[e.Label] = e.Divergence(ws)
	}
	return scores
}
