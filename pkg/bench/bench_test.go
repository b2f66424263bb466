package bench

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	pgen "github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sink []byte

func TestNextRunsGrowsStrictly(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("next run count is larger and capped", prop.ForAll(
		func(runs int, growth float64) bool {
			r := &Runner{MaxRuns: 10000, Growth: growth}
			next := r.NextRuns(runs)
			if runs >= r.MaxRuns {
				return next == r.MaxRuns
			}
			return next > runs && next <= r.MaxRuns
		},
		pgen.IntRange(1, 20000),
		pgen.Float64Range(1.0001, 3),
	))
	properties.TestingRun(t)
}

func TestRunStopsAtMaxBatches(t *testing.T) {
	r := &Runner{Quota: time.Hour, MaxBatches: 7, MaxRuns: 100, Growth: 1.5}
	prepared := 0
	calls := 0
	res, err := r.Run(context.Background(), Case{
		Name:  "noop",
		Param: 3,
		Prepare: func() func() {
			prepared++
			return func() { calls++ }
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Samples, 7)
	assert.Equal(t, 7, prepared)

	want := []int{1, 2, 3, 5, 8, 12, 18}
	total := 0
	for i, s := range res.Samples {
		assert.Equal(t, want[i], s.Runs)
		total += s.Runs
		for _, ch := range Channels {
			_, ok := s.Values[ch]
			assert.True(t, ok, "channel %s missing", ch)
		}
	}
	assert.Equal(t, total, calls)
}

func TestRunStopsAtQuota(t *testing.T) {
	r := &Runner{Quota: time.Millisecond, MaxBatches: 1000000, MaxRuns: 10, Growth: 2}
	res, err := r.Run(context.Background(), Case{
		Name: "sleep",
		Prepare: func() func() {
			return func() { time.Sleep(100 * time.Microsecond) }
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Samples)
	assert.Less(t, len(res.Samples), 1000)
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	batches := 0
	r := &Runner{Quota: time.Hour, MaxBatches: 100, MaxRuns: 10, Growth: 2}
	r.OnBatch = func(Case, Sample) {
		batches++
		if batches == 3 {
			cancel()
		}
	}
	res, err := r.Run(ctx, Case{Name: "x", Prepare: func() func() { return func() {} }})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Samples, 3)
}

func TestAllocationChannels(t *testing.T) {
	r := &Runner{Quota: time.Hour, MaxBatches: 5, MaxRuns: 1000, Growth: 2}
	res, err := r.Run(context.Background(), Case{
		Name: "alloc",
		Prepare: func() func() {
			return func() { sink = make([]byte, 4096) }
		},
	})
	require.NoError(t, err)
	last := res.Samples[len(res.Samples)-1]
	assert.GreaterOrEqual(t, last.Values[AllocatedBytes], float64(last.Runs*4096))
	assert.GreaterOrEqual(t, last.Values[Allocations], float64(last.Runs))
	assert.Greater(t, last.Values[MonotonicClock], 0.0)
}

func sample(runs int, clock, bytes, allocs float64) Sample {
	return Sample{Runs: runs, Values: map[string]float64{
		MonotonicClock: clock, AllocatedBytes: bytes, Allocations: allocs,
	}}
}

func TestReduceSlopePerChannel(t *testing.T) {
	results := []Result{{
		Name:  "diet/add_interval",
		Param: 1000,
		Samples: []Sample{
			sample(1, 100, 64, 2),
			sample(2, 200, 128, 4),
			sample(4, 400, 256, 8),
		},
	}}

	chans, err := Reduce(results, nil)
	require.NoError(t, err)
	require.Len(t, chans, 3)

	want := map[string]float64{MonotonicClock: 100, AllocatedBytes: 64, Allocations: 2}
	for i, ch := range chans {
		assert.Equal(t, Channels[i], ch.Channel)
		require.Len(t, ch.Records, 1)
		assert.Equal(t, "diet/add_interval", ch.Records[0].Name)
		assert.Equal(t, 1000, ch.Records[0].Param)
		assert.InDelta(t, want[ch.Channel], ch.Records[0].Value, 1e-9)
	}
}

func TestReduceDropsMultiCoefficientFits(t *testing.T) {
	results := []Result{{
		Name:    "diet/take_interval",
		Param:   2000,
		Samples: []Sample{sample(1, 10, 0, 0), sample(2, 20, 0, 0), sample(3, 31, 0, 0)},
	}}
	chans, err := Reduce(results, []string{PredictRuns, PredictOne})
	require.NoError(t, err)
	require.Len(t, chans, 3)
	for _, ch := range chans {
		assert.Empty(t, ch.Records)
	}
}

func TestReduceDropsUndefinedFits(t *testing.T) {
	chans, err := Reduce([]Result{{Name: "empty", Param: 1}}, nil)
	require.NoError(t, err)
	for _, ch := range chans {
		assert.Empty(t, ch.Records)
	}
}

func TestReduceUnknownPredictor(t *testing.T) {
	_, err := Reduce([]Result{{Name: "x", Samples: []Sample{sample(1, 1, 1, 1)}}}, []string{"size"})
	assert.Error(t, err)
}
