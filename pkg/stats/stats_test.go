package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1.0, 2.0, 3.0}))

	for _, v := range []float64{0, 1e-9, 0.1, 3.75, 12345.678} {
		same := []float64{v, v, v, v, v, v, v}
		assert.Equal(t, v, Mean(same), "mean of identical %v", v)
	}
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestProperty_MeanOfIdenticalValues(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("mean of k copies of v is exactly v", prop.ForAll(
		func(v float64, k int) bool {
			values := make([]float64, k)
			for i := range values {
				values[i] = v
			}
			return Mean(values) == v
		},
		gen.Float64Range(-1e6, 1e6),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}

func TestMeasureAppendsOnePerCall(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < 3; i++ {
		require.NoError(t, Measure(tbl, "sequential.write", 4, func() error {
			time.Sleep(time.Millisecond)
			return nil
		}))
	}
	require.NoError(t, Measure(tbl, "sequential.read", 4, func() error { return nil }))

	assert.Equal(t, []Key{{"sequential.write", 4}, {"sequential.read", 4}}, tbl.Keys())
	w := tbl.Series(Key{"sequential.write", 4})
	require.Len(t, w, 3)
	for _, v := range w {
		assert.GreaterOrEqual(t, v, 0.001)
	}
	assert.Len(t, tbl.Series(Key{"sequential.read", 4}), 1)
}

func TestMeasurePropagatesFailure(t *testing.T) {
	tbl := NewTable()
	boom := errors.New("boom")
	err := Measure(tbl, "random.write", 8, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, tbl.Len())
}

func TestMeans(t *testing.T) {
	tbl := NewTable()
	tbl.Record(Key{"a", 1}, 1)
	tbl.Record(Key{"a", 1}, 3)
	tbl.Record(Key{"b", 2}, 5)

	means := tbl.Means()
	require.Len(t, means, 2)
	assert.Equal(t, Key{"a", 1}, means[0].Key)
	assert.Equal(t, 2.0, means[0].Value)
	assert.InDelta(t, math.Sqrt2, means[0].StdDev, 1e-12)
	assert.Equal(t, Key{"b", 2}, means[1].Key)
	assert.Equal(t, 5.0, means[1].Value)
	assert.Zero(t, means[1].StdDev)
}

func TestSummarize(t *testing.T) {
	tbl := NewTable()
	for i := 1; i <= 100; i++ {
		tbl.Record(Key{"random.read", i % 3}, float64(i)*1e-6)
	}
	sums := tbl.Summarize()
	require.Contains(t, sums, "random.read")
	s := sums["random.read"]
	assert.Equal(t, int64(100), s.Count)
	assert.InDelta(t, float64(50*time.Microsecond), float64(s.P50), float64(time.Microsecond))
	assert.InDelta(t, float64(100*time.Microsecond), float64(s.Max), float64(time.Microsecond))
}

func TestHistogramClamps(t *testing.T) {
	h := NewHistogram()
	h.Record(0)
	h.Record(time.Hour)
	s := h.Summary()
	assert.Equal(t, int64(2), s.Count)
	assert.LessOrEqual(t, s.Max, 11*time.Minute)
}
