package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minTracked = 1                       // 1ns
	maxTracked = int64(10 * time.Minute) // Longest trial we expect to see
	sigFigs    = 3
)

// Summary condenses a latency series for progress logs.
type Summary struct {
	Count int64
	Mean  time.Duration
	P50   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// Histogram tracks durations with bounded memory.
type Histogram struct {
	h *hdrhistogram.Histogram
}

func NewHistogram() *Histogram {
	return &Histogram{h: hdrhistogram.New(minTracked, maxTracked, sigFigs)}
}

// Record adds d. Values outside the tracked range are clamped.
func (h *Histogram) Record(d time.Duration) {
	v := int64(d)
	if v < minTracked {
		v = minTracked
	}
	if v > maxTracked {
		v = maxTracked
	}
	_ = h.h.RecordValue(v)
}

func (h *Histogram) Merge(other *Histogram) {
	h.h.Merge(other.h)
}

// ValueAtQuantile takes q in [0, 100].
func (h *Histogram) ValueAtQuantile(q float64) time.Duration {
	return time.Duration(h.h.ValueAtQuantile(q))
}

func (h *Histogram) Summary() Summary {
	return Summary{
		Count: h.h.TotalCount(),
		Mean:  time.Duration(h.h.Mean()),
		P50:   h.ValueAtQuantile(50),
		P99:   h.ValueAtQuantile(99),
		Max:   time.Duration(h.h.Max()),
	}
}

// Summarize builds a histogram per operation name, merging every size, from
// series recorded in seconds.
func (t *Table) Summarize() map[string]Summary {
	hists := make(map[string]*Histogram)
	for _, k := range t.order {
		h, ok := hists[k.Name]
		if !ok {
			h = NewHistogram()
			hists[k.Name] = h
		}
		for _, v := range t.series[k] {
			h.Record(time.Duration(v * float64(time.Second)))
		}
	}
	out := make(map[string]Summary, len(hists))
	for name, h := range hists {
		out[name] = h.Summary()
	}
	return out
}
