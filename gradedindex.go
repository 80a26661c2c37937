package abeles

import "sort"

// QuantizePalette discretizes a continuous index profile onto a fixed
// palette of attainable complex index levels (for example, the discrete
// mixture ratios a graded-index deposition process can actually achieve),
// replacing each profile value with its nearest palette entry by real
// part.
func QuantizePalette(profile []complex128, palette []complex128) []complex128 {
	realPalette := make([]float64, len(palette))
	for i, p := range palette {
		realPalette[i] = real(p)
	}
	sorted := append([]float64(nil), realPalette...)
	order := make([]int, len(palette))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return realPalette[order[a]] < realPalette[order[b]] })
	for i, idx := range order {
		sorted[i] = realPalette[idx]
	}

	out := make([]complex128, len(profile))
	for i, v := range profile {
		target := real(v)
		pos := sort.SearchFloat64s(sorted, target)
		best := order[clampIndex(pos, len(order)-1)]
		if pos > 0 {
			prevIdx := order[clampIndex(pos-1, len(order)-1)]
			if absF(realPalette[prevIdx]-target) <= absF(realPalette[best]-target) {
				best = prevIdx
			}
		}
		out[i] = palette[best]
	}
	return out
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
