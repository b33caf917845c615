/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: merger.go
Description: Region merger for the isarec scan engine. Coalesces consecutive window
results that share a label and filter category into maximal contiguous regions with
aggregated confidence metrics. The output regions are sorted, non-overlapping, and
cover the target buffer exactly.
*/

package core

import (
	"github.com/kleascm/isarec/pkg/interfaces"
)

// mergeRegions folds the offset-ordered window results into maximal runs
// sharing (Label, FilteredAs). Scores aggregate as means over the filtered
// windows' contributions; Agreement becomes the fraction of member windows
// where bigram and trigram picks agreed. Boundaries sit on window
// boundaries, so a true ISA transition is located with error bounded by
// one window length.
func mergeRegions(results []*interfaces.ClassificationResult) []interfaces.Region {
	if len(results) == 0 {
		return []interfaces.Region{}
	}

	regions := make([]interfaces.Region, 0, 8)

	var cur interfaces.Region
	var biSum, triSum float64
	var agreements int

	flush := func() {
		if cur.WindowCount > 0 {
			if cur.FilteredAs == interfaces.FilterNone {
				n := float64(cur.WindowCount)
				cur.BigramScore = biSum / n
				cur.TrigramScore = triSum / n
				cur.Agreement = float64(agreements) / n
			}
			regions = append(regions, cur)
		}
	}

	for _, r := range results {
		if cur.WindowCount > 0 && r.Label == cur.Label && r.FilteredAs == cur.FilteredAs {
			cur.End = r.Offset + r.Length
			cur.WindowCount++
			biSum += r.BigramScore
			triSum += r.TrigramScore
			if r.Agreement {
				agreements++
			}
			continue
		}

		flush()
		cur = interfaces.Region{
			Start:       r.Offset,
			End:         r.Offset + r.Length,
			Label:       r.Label,
			FilteredAs:  r.FilteredAs,
			WindowCount: 1,
		}
		biSum = r.BigramScore
		triSum = r.TrigramScore
		agreements = 0
		if r.Agreement {
			agreements = 1
		}
	}
	flush()

	return regions
}
