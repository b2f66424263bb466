package stats

import (
	"gonum.org/v1/gonum/stat"
)

// Reduced is a series collapsed to one value.
type Reduced struct {
	Key
	Value  float64
	StdDev float64 // Diagnostic only; not serialized
}

// Mean is the arithmetic mean of values, or NaN for an empty slice.
// It is accumulated incrementally so a series of identical values reduces
// to exactly that value.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return stat.Mean(values, nil)
	}
	m := values[0]
	for i := 1; i < len(values); i++ {
		m += (values[i] - m) / float64(i+1)
	}
	return m
}

// Means reduces every series of t to its mean, in key order.
func (t *Table) Means() []Reduced {
	out := make([]Reduced, 0, len(t.order))
	for _, k := range t.order {
		s := t.series[k]
		r := Reduced{Key: k, Value: Mean(s)}
		if len(s) > 1 {
			r.StdDev = stat.StdDev(s, nil)
		}
		out = append(out, r)
	}
	return out
}
