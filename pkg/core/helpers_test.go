/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: helpers_test.go
Description: Shared fixtures for the scan engine tests. Deterministic synthetic
dialect generators with disjoint byte alphabets and a prebuilt two-entry corpus
model, so engine behavior is reproducible without on-disk corpus files.
*/

package core

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/isarec/pkg/corpus"
	"github.com/kleascm/isarec/pkg/interfaces"
)

// Synthetic "ISA" alphabets with disjoint byte ranges, trivially
// separable by gram statistics.
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

// randomBytes produces a deterministic full-range pseudo-random sequence.
func randomBytes(seed uint32, n int) []byte {
	out := make([]byte, n)
	s := seed
	for i := range out {
		s = s*1664525 + 1013904223
		out[i] = byte(s >> 24)
	}
	return out
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testModel(t *testing.T) *corpus.Model {
	t.Helper()
	model, err := corpus.NewModelFromSamples([]corpus.Sample{
		{Label: "x86", Data: codeBytes(0x100, alphaLow, 256*1024)},
		{Label: "arm64", Data: codeBytes(0x200, alphaHigh, 256*1024)},
	}, nil)
	require.NoError(t, err)
	return model
}

// testConfig pins the worker count so window sizing and scheduling are
// identical across machines.
func testConfig() *interfaces.ScanConfig {
	config := interfaces.DefaultScanConfig()
	config.Parallelism = 4
	config.LogLevel = "error"
	return config
}

func testEngine(t *testing.T, config *interfaces.ScanConfig) *Engine {
	t.Helper()
	engine := NewEngine()
	engine.SetLogger(quietLogger())
	engine.SetModel(testModel(t))
	require.NoError(t, engine.Initialize(config))
	return engine
}
