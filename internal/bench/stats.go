package bench

import (
	"slices"
)

// Stats summarizes the corrected units of a case.
type Stats struct {
	Min    uint64  `json:"min"`
	Median uint64  `json:"median"`
	Max    uint64  `json:"max"`
	Mean   float64 `json:"mean"`
}

// Summarize computes Stats for samples. The median of an even count is the
// lower middle sample so that it is always an observed value.
func Summarize(samples []uint64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum float64
	for _, s := range sorted {
		sum += float64(s)
	}

	return Stats{
		Min:    sorted[0],
		Median: sorted[(len(sorted)-1)/2],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
	}
}
