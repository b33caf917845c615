/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: filter_test.go
Description: Tests for the false-positive filter. Covers the high-entropy and
string-like exclusion categories, the printable-run coverage rule, and content that
must pass through to corpus scoring untouched.
*/

package filter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/isarec/pkg/filter"
	"github.com/kleascm/isarec/pkg/interfaces"
	"github.com/kleascm/isarec/pkg/stats"
)

// lcgBytes produces a deterministic pseudo-random byte sequence.
func lcgBytes(seed uint32, n int) []byte {
	out := make([]byte, n)
	s := seed
	for i := range out {
		s = s*1664525 + 1013904223
		out[i] = byte(s >> 24)
	}
	return out
}

func newFilter(t *testing.T) *filter.Filter {
	t.Helper()
	return filter.New(interfaces.DefaultScanConfig())
}

func category(f *filter.Filter, data []byte) interfaces.FilterCategory {
	return f.Category(data, stats.Extract(data))
}

// TestFilterHighEntropy tests that random-looking windows are excluded
func TestFilterHighEntropy(t *testing.T) {
	f := newFilter(t)

	data := lcgBytes(0xbeef, 4096)
	require.GreaterOrEqual(t, stats.Entropy(data), 7.5)
	assert.Equal(t, interfaces.FilterHighEntropy, category(f, data))
}

// TestFilterString tests that text-dominated windows are excluded
func TestFilterString(t *testing.T) {
	f := newFilter(t)

	text := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog.\n"), 100)
	assert.Equal(t, interfaces.FilterString, category(f, text))
}

// TestFilterPassThrough tests content that must reach corpus scoring
func TestFilterPassThrough(t *testing.T) {
	f := newFilter(t)

	// Constant content: zero entropy, no printable runs.
	assert.Equal(t, interfaces.FilterNone, category(f, make([]byte, 4096)))

	// Machine-code-like content: isolated printable bytes, but runs stay
	// short, and a 32-symbol alphabet keeps entropy around 5 bits/byte.
	code := make([]byte, 4096)
	for i := range code {
		if i%2 == 0 {
			code[i] = byte(0x41 + i%16) // printable
		} else {
			code[i] = byte(0x01 + i%16) // control range
		}
	}
	assert.Equal(t, interfaces.FilterNone, category(f, code))

	// Empty windows are never filtered.
	assert.Equal(t, interfaces.FilterNone, category(f, nil))
}

// TestFilterRunLength tests the minimum-run rule of string coverage
func TestFilterRunLength(t *testing.T) {
	f := newFilter(t)

	// Printable runs of 7 never count toward coverage, whatever their
	// total share of the window.
	short := bytes.Repeat(append(bytes.Repeat([]byte{'A'}, 7), 0x01), 64)
	assert.Equal(t, interfaces.FilterNone, category(f, short))

	// Runs of 8 count; 15 text bytes out of 16 clears the 0.8 threshold.
	long := bytes.Repeat(append(bytes.Repeat([]byte{'A'}, 15), 0x01), 64)
	assert.Equal(t, interfaces.FilterString, category(f, long))
}

// TestFilterCoverageThreshold tests content just below the string threshold
func TestFilterCoverageThreshold(t *testing.T) {
	f := newFilter(t)

	// 12 text bytes out of 16 per block is 0.75 coverage: below 0.8, so
	// the window still goes to scoring.
	data := bytes.Repeat(append(bytes.Repeat([]byte{'A'}, 12), 0x01, 0x02, 0x03, 0x04), 64)
	assert.Equal(t, interfaces.FilterNone, category(f, data))
}

// TestFilterWhitespace tests that tab, newline, and carriage return count
// as printable inside a text run
func TestFilterWhitespace(t *testing.T) {
	f := newFilter(t)

	text := bytes.Repeat([]byte("key:\tvalue\r\n"), 200)
	assert.Equal(t, interfaces.FilterString, category(f, text))
}
