package main

import (
	"fmt"
	"sort"
	"strings"
)

// percentile returns the p-th percentile (0-100) of a sorted slice of
// nanosecond latencies, using the same index-by-fraction rule as the
// original benchmark harness.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int((p / 100.0) * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// asciiHistogram renders a fixed-bin ASCII bar chart of sorted
// nanosecond latencies, mirroring the 10-bin histogram the original
// C++ benchmark printed to stdout.
func asciiHistogram(sorted []int64, bins int) string {
	if len(sorted) == 0 {
		return ""
	}
	min, max := sorted[0], sorted[len(sorted)-1]
	spanRange := max - min + 1

	counts := make([]int, bins)
	for _, v := range sorted {
		bin := int((v - min) * int64(bins) / spanRange)
		if bin >= bins {
			bin = bins - 1
		}
		counts[bin]++
	}

	var b strings.Builder
	for i := 0; i < bins; i++ {
		start := min + spanRange*int64(i)/int64(bins)
		end := min + spanRange*int64(i+1)/int64(bins)
		bar := int(50.0 * float64(counts[i]) / float64(len(sorted)))
		fmt.Fprintf(&b, "[%d..%d) : %s\n", start, end, strings.Repeat("#", bar))
	}
	return b.String()
}

func sortedCopy(vs []int64) []int64 {
	out := make([]int64, len(vs))
	copy(out, vs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
