/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces_test.go
Description: Tests for the shared configuration and region types. Covers scan
configuration validation, worker pool sizing, and region confidence predicates.
*/

package interfaces_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/isarec/pkg/interfaces"
)

// TestDefaultScanConfig tests that the shipped defaults validate
func TestDefaultScanConfig(t *testing.T) {
	config := interfaces.DefaultScanConfig()
	require.NotNil(t, config)
	assert.NoError(t, config.Validate())
	assert.Equal(t, 512, config.WindowMin)
	assert.Equal(t, 4096, config.WindowMax)
}

// TestScanConfigValidate tests each rejection rule
func TestScanConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*interfaces.ScanConfig)
	}{
		{"zero window_min", func(c *interfaces.ScanConfig) { c.WindowMin = 0 }},
		{"negative window_min", func(c *interfaces.ScanConfig) { c.WindowMin = -512 }},
		{"window_max below min", func(c *interfaces.ScanConfig) { c.WindowMax = c.WindowMin - 1 }},
		{"zero entropy threshold", func(c *interfaces.ScanConfig) { c.HighEntropyThreshold = 0 }},
		{"entropy threshold above 8", func(c *interfaces.ScanConfig) { c.HighEntropyThreshold = 8.1 }},
		{"zero string threshold", func(c *interfaces.ScanConfig) { c.StringThreshold = 0 }},
		{"string threshold above 1", func(c *interfaces.ScanConfig) { c.StringThreshold = 1.5 }},
		{"zero string min run", func(c *interfaces.ScanConfig) { c.StringMinRun = 0 }},
		{"zero divergence ceiling", func(c *interfaces.ScanConfig) { c.DivergenceCeiling = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := interfaces.DefaultScanConfig()
			tc.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

// TestScanConfigWorkers tests the worker pool sizing rule
func TestScanConfigWorkers(t *testing.T) {
	config := interfaces.DefaultScanConfig()

	config.Parallelism = 3
	assert.Equal(t, 3, config.Workers())

	config.Parallelism = 0
	assert.Equal(t, runtime.NumCPU(), config.Workers())

	config.Parallelism = -5
	assert.Equal(t, runtime.NumCPU(), config.Workers())
}

// TestRegionSize tests byte-count accounting
func TestRegionSize(t *testing.T) {
	r := interfaces.Region{Start: 4096, End: 12288}
	assert.Equal(t, 8192, r.Size())
}

// TestRegionConfident tests the confidence predicate
func TestRegionConfident(t *testing.T) {
	confident := interfaces.Region{Label: "x86", Agreement: 0.75}
	assert.True(t, confident.Confident())

	exactlyHalf := interfaces.Region{Label: "x86", Agreement: 0.5}
	assert.True(t, exactlyHalf.Confident())

	lowAgreement := interfaces.Region{Label: "x86", Agreement: 0.25}
	assert.False(t, lowAgreement.Confident())

	unknown := interfaces.Region{Label: interfaces.LabelUnknown, Agreement: 1.0}
	assert.False(t, unknown.Confident())

	filtered := interfaces.Region{FilteredAs: interfaces.FilterString}
	assert.False(t, filtered.Confident())
}
