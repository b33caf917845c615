/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stats.go
Description: Window statistics extractor for the isarec region classifier. Computes
byte, bigram, and trigram frequency histograms plus a Shannon-entropy estimate for a
single window of target bytes. Pure functions with no side effects; one WindowStats
per window on the hot path.
*/

package stats

import (
	"math"
)

// WindowStats holds the local statistics of one window of target bytes.
// Bigram and trigram histograms are sparse: a window only ever contains a few
// thousand grams out of the 65536 / 16M possible ones. Frequencies are
// normalized over the observed gram count (no additive base count on the
// window side), so iterating the maps visits exactly the grams with
// non-zero probability.
type WindowStats struct {
	Length   int                // Window length in bytes
	Bigrams  map[uint16]float64 // Packed (b0<<8 | b1) -> frequency
	Trigrams map[uint32]float64 // Packed (b0<<16 | b1<<8 | b2) -> frequency
	Entropy  float64            // Shannon entropy of the byte histogram, bits per byte
}

// BigramKey packs two consecutive bytes into a histogram key.
func BigramKey(b0, b1 byte) uint16 {
	return uint16(b0)<<8 | uint16(b1)
}

// TrigramKey packs three consecutive bytes into a histogram key.
func TrigramKey(b0, b1, b2 byte) uint32 {
	return uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
}

// Extract computes the statistics of one window. It is a pure function of
// the window bytes and never retains the slice.
func Extract(data []byte) *WindowStats {
	ws := &WindowStats{
		Length:   len(data),
		Bigrams:  make(map[uint16]float64),
		Trigrams: make(map[uint32]float64),
	}

	var byteCounts [256]int
	for _, b := range data {
		byteCounts[b]++
	}
	ws.Entropy = shannonEntropy(byteCounts[:], len(data))

	if len(data) >= 2 {
		bgCounts := make(map[uint16]int, len(data)-1)
		for i := 0; i+1 < len(data); i++ {
			bgCounts[BigramKey(data[i], data[i+1])]++
		}
		total := float64(len(data) - 1)
		for k, c := range bgCounts {
			ws.Bigrams[k] = float64(c) / total
		}
	}

	if len(data) >= 3 {
		tgCounts := make(map[uint32]int, len(data)-2)
		for i := 0; i+2 < len(data); i++ {
			tgCounts[TrigramKey(data[i], data[i+1], data[i+2])]++
		}
		total := float64(len(data) - 2)
		for k, c := range tgCounts {
			ws.Trigrams[k] = float64(c) / total
		}
	}

	return ws
}

// shannonEntropy computes H = -sum(p * log2(p)) over the byte histogram.
// The result ranges from 0 (uniform content) to 8 (every value equally
// likely). Values near 8 indicate compressed, encrypted, or random data.
func shannonEntropy(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}

	var entropy float64
	n := float64(total)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// Entropy computes the Shannon entropy of a raw byte slice in bits per byte.
// Convenience for callers that do not need the full histogram set.
func Entropy(data []byte) float64 {
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	return shannonEntropy(counts[:], len(data))
}
