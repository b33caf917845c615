/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: corpus_test.go
Description: Tests for the reference corpus model. Covers entry construction and
smoothing, distribution normalization, KL divergence properties, model assembly,
and directory/filesystem loading.
*/

package corpus_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/isarec/pkg/corpus"
	"github.com/kleascm/isarec/pkg/stats"
)

// Synthetic "ISA" alphabets with disjoint byte ranges, so the two
// generated dialects are trivially separable by gram statistics.
var (
	alphaLow = []byte{
		0x01, 0x03, 0x05, 0x07, 0x0b, 0x0e, 0x0f, 0x10,
		0x13, 0x16, 0x19, 0x1c, 0x1f, 0x21, 0x25, 0x29,
		0x2d, 0x31, 0x35, 0x39, 0x3d, 0x41, 0x45, 0x48,
		0x4c, 0x50, 0x55, 0x5a, 0x66, 0x6a, 0x74, 0x7f,
	}
	alphaHigh = []byte{
		0x80, 0x84, 0x88, 0x8c, 0x90, 0x94, 0x98, 0x9c,
		0xa0, 0xa4, 0xa8, 0xac, 0xb0, 0xb4, 0xb8, 0xbc,
		0xc0, 0xc4, 0xc8, 0xcc, 0xd0, 0xd4, 0xd8, 0xdc,
		0xe0, 0xe4, 0xe8, 0xec, 0xf0, 0xf4, 0xf8, 0xfc,
	}
)

// codeBytes produces a deterministic stream over the given alphabet.
func codeBytes(seed uint32, alphabet []byte, n int) []byte {
	out := make([]byte, n)
	s := seed
	for i := range out {
		s = s*1664525 + 1013904223
		out[i] = alphabet[(s>>16)%uint32(len(alphabet))]
	}
	return out
}

const sampleSize = 256 * 1024

// TestNewEntry tests entry construction from a valid sample
func TestNewEntry(t *testing.T) {
	data := codeBytes(1, alphaLow, sampleSize)
	e, err := corpus.NewEntry("lowisa", data, corpus.DefaultBaseCount)
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, "lowisa", e.Label)
	assert.Equal(t, sampleSize, e.SampleSize)
	assert.Greater(t, e.BigramBase, 0.0)
	assert.Greater(t, e.TrigramBase, 0.0)
	assert.Greater(t, e.DistinctBigrams(), 0)
	assert.Greater(t, e.DistinctTrigrams(), 0)
	assert.NoError(t, e.Validate())
}

// TestNewEntryShortSample tests rejection of samples too small to model
func TestNewEntryShortSample(t *testing.T) {
	for _, data := range [][]byte{nil, {0x01}, {0x01, 0x02}} {
		_, err := corpus.NewEntry("tiny", data, corpus.DefaultBaseCount)
		require.Error(t, err)
		assert.ErrorIs(t, err, corpus.ErrShortSample)
	}

	// Exactly the minimum yields one trigram and succeeds.
	e, err := corpus.NewEntry("minimal", []byte{0x01, 0x02, 0x03}, corpus.DefaultBaseCount)
	require.NoError(t, err)
	assert.Equal(t, 1, e.DistinctTrigrams())
	assert.NoError(t, e.Validate())
}

// TestEntryNormalization tests that smoothed distributions sum to 1
func TestEntryNormalization(t *testing.T) {
	e, err := corpus.NewEntry("lowisa", codeBytes(2, alphaLow, 8192), corpus.DefaultBaseCount)
	require.NoError(t, err)

	var bgSum float64
	for _, p := range e.Bigrams {
		require.Greater(t, p, 0.0)
		bgSum += p
	}
	assert.InDelta(t, 1.0, bgSum, 1e-6)

	// Validate checks the trigram side including the smoothing floor mass.
	assert.NoError(t, e.Validate())
}

// TestDivergenceProperties tests non-negativity and self vs cross ordering
func TestDivergenceProperties(t *testing.T) {
	low, err := corpus.NewEntry("lowisa", codeBytes(3, alphaLow, sampleSize), corpus.DefaultBaseCount)
	require.NoError(t, err)
	high, err := corpus.NewEntry("highisa", codeBytes(4, alphaHigh, sampleSize), corpus.DefaultBaseCount)
	require.NoError(t, err)

	// A window drawn from the same dialect but a different seed.
	ws := stats.Extract(codeBytes(99, alphaLow, 4096))

	self := low.Divergence(ws)
	cross := high.Divergence(ws)

	assert.GreaterOrEqual(t, self.Bigram, 0.0)
	assert.GreaterOrEqual(t, self.Trigram, 0.0)
	assert.GreaterOrEqual(t, cross.Bigram, 0.0)
	assert.GreaterOrEqual(t, cross.Trigram, 0.0)

	// The matching entry must be far closer on both gram orders.
	assert.Less(t, self.Bigram, cross.Bigram)
	assert.Less(t, self.Trigram, cross.Trigram)

	// Disjoint alphabets push every cross gram onto the smoothing floor.
	assert.Greater(t, cross.Bigram, 5.0)
	assert.Greater(t, cross.Trigram, 6.0)
	assert.Less(t, self.Bigram, 5.0)
	assert.Less(t, self.Trigram, 6.0)
}

// TestDivergenceEmptyWindow tests that a gramless window scores zero
func TestDivergenceEmptyWindow(t *testing.T) {
	e, err := corpus.NewEntry("lowisa", codeBytes(5, alphaLow, 8192), corpus.DefaultBaseCount)
	require.NoError(t, err)

	d := e.Divergence(stats.Extract([]byte{0x41}))
	assert.Equal(t, 0.0, d.Bigram)
	assert.Equal(t, 0.0, d.Trigram)
}

// TestNewModel tests model assembly, ordering, and lookups
func TestNewModel(t *testing.T) {
	low, err := corpus.NewEntry("x86", codeBytes(6, alphaLow, 8192), corpus.DefaultBaseCount)
	require.NoError(t, err)
	high, err := corpus.NewEntry("arm64", codeBytes(7, alphaHigh, 8192), corpus.DefaultBaseCount)
	require.NoError(t, err)

	model, err := corpus.NewModel([]*corpus.Entry{low, high})
	require.NoError(t, err)

	assert.Equal(t, 2, model.Len())
	assert.Equal(t, []string{"arm64", "x86"}, model.Labels())
	assert.Same(t, low, model.Get("x86"))
	assert.Same(t, high, model.Get("arm64"))
	assert.Nil(t, model.Get("mips"))

	scores := model.Score(stats.Extract(codeBytes(8, alphaLow, 4096)))
	require.Len(t, scores, 2)
	assert.Less(t, scores["x86"].Bigram, scores["arm64"].Bigram)
}

// TestNewModelErrors tests empty and duplicate-label rejection
func TestNewModelErrors(t *testing.T) {
	_, err := corpus.NewModel(nil)
	assert.ErrorIs(t, err, corpus.ErrNoEntries)

	a, err := corpus.NewEntry("x86", codeBytes(9, alphaLow, 8192), corpus.DefaultBaseCount)
	require.NoError(t, err)
	b, err := corpus.NewEntry("x86", codeBytes(10, alphaLow, 8192), corpus.DefaultBaseCount)
	require.NoError(t, err)

	_, err = corpus.NewModel([]*corpus.Entry{a, b})
	assert.ErrorIs(t, err, corpus.ErrDuplicateLabel)
}

// TestNewModelFromSamples tests the parallel sample-to-model path
func TestNewModelFromSamples(t *testing.T) {
	samples := []corpus.Sample{
		{Label: "x86", Data: codeBytes(11, alphaLow, 8192)},
		{Label: "arm64", Data: codeBytes(12, alphaHigh, 8192)},
		{Label: "mips", Data: codeBytes(13, alphaLow, 8192)},
	}

	model, err := corpus.NewModelFromSamples(samples, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"arm64", "mips", "x86"}, model.Labels())

	_, err = corpus.NewModelFromSamples(nil, nil)
	assert.ErrorIs(t, err, corpus.ErrNoEntries)

	_, err = corpus.NewModelFromSamples([]corpus.Sample{{Label: "tiny", Data: []byte{1}}}, nil)
	assert.ErrorIs(t, err, corpus.ErrShortSample)
}

// TestLoadDirectory tests loading *.corpus files from disk
func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x86.corpus"), codeBytes(14, alphaLow, 8192), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arm64.corpus"), codeBytes(15, alphaHigh, 8192), 0644))
	// Non-corpus files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("notes"), 0644))

	model, err := corpus.Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"arm64", "x86"}, model.Labels())
}

// TestLoadErrors tests the fatal loading failure modes
func TestLoadErrors(t *testing.T) {
	_, err := corpus.Load(filepath.Join(t.TempDir(), "absent"), nil)
	assert.Error(t, err)

	// A directory with no samples must not yield a partial model.
	_, err = corpus.Load(t.TempDir(), nil)
	assert.ErrorIs(t, err, corpus.ErrNoEntries)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0644))
	_, err = corpus.Load(file, nil)
	assert.Error(t, err)
}

// TestLoadFS tests loading from an in-memory filesystem
func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"x86.corpus":   {Data: codeBytes(16, alphaLow, 8192)},
		"arm64.corpus": {Data: codeBytes(17, alphaHigh, 8192)},
	}

	model, err := corpus.LoadFS(fsys, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"arm64", "x86"}, model.Labels())

	_, err = corpus.LoadFS(fstest.MapFS{}, nil)
	assert.ErrorIs(t, err, corpus.ErrNoEntries)
}
