// Package sweep drives the two benchmark harnesses over their workload sizes.
package sweep

import "math"

// LogSizes returns up to count sizes round(base^p), with p evenly spaced over
// [lo, hi]. Rounding collapses neighbouring points, so the result may be
// shorter than count; it is always strictly increasing and positive.
func LogSizes(base, lo, hi float64, count int) []int {
	if count <= 0 {
		return nil
	}
	var out []int
	for i := 0; i < count; i++ {
		p := lo
		if count > 1 {
			p = lo + float64(i)*(hi-lo)/float64(count-1)
		}
		out = appendIncreasing(out, int(math.Round(math.Pow(base, p))))
	}
	return out
}

// LinearSizes returns start, start+step, ... (count values), keeping only
// positive, strictly increasing entries.
func LinearSizes(start, step, count int) []int {
	var out []int
	for i := 0; i < count; i++ {
		out = appendIncreasing(out, start+i*step)
	}
	return out
}

func appendIncreasing(out []int, n int) []int {
	if n <= 0 || (len(out) > 0 && n <= out[len(out)-1]) {
		return out
	}
	return append(out, n)
}
