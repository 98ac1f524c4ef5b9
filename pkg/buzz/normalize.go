package buzz

import "sort"

// Normalize maps a raw aggregate into 0-100 by linear rescaling between
// the batch's 5th and 95th percentile values. Values outside the bounds
// clamp to the boundary score; this is not a true percentile rank.
func Normalize(raw float64, peers []float64) float64 {
	if len(peers) < 2 {
		return clamp(raw, 0, 100)
	}

	sorted := append([]float64(nil), peers...)
	sort.Float64s(sorted)

	n := len(sorted)
	p5Idx := int(float64(n) * 0.05)
	p95Idx := int(float64(n) * 0.95)
	if p95Idx > n-1 {
		p95Idx = n - 1
	}

	p5 := sorted[p5Idx]
	p95 := sorted[p95Idx]

	// Degenerate batch: everyone is scoring identically.
	if p95 == p5 {
		return 50.0
	}

	return clamp((raw-p5)/(p95-p5)*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
