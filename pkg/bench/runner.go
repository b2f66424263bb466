// Package bench runs single-operation cases in batches of growing run counts
// and samples several instrumentation channels around each batch.
package bench

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Instrumentation channels, in output order.
const (
	MonotonicClock = "monotonic-clock" // Nanoseconds
	AllocatedBytes = "allocated-bytes" // Heap bytes allocated
	Allocations    = "allocations"     // Heap objects allocated
)

var Channels = []string{MonotonicClock, AllocatedBytes, Allocations}

// Case is one indexed benchmark: an operation at a fixture size.
type Case struct {
	Name  string
	Param int

	// Prepare builds a fresh fixture outside the timed region and returns the
	// operation to time against it. The operation may run many times on the
	// same fixture, so it must not mutate it.
	Prepare func() func()
}

// Sample is the channel totals for one batch of Runs calls.
type Sample struct {
	Runs   int
	Values map[string]float64
}

// Result holds every batch sample of one case.
type Result struct {
	Name    string
	Param   int
	Samples []Sample
}

// Runner controls batch sizing. The zero value is not usable; see Defaults.
type Runner struct {
	Quota      time.Duration // Wall-clock budget per case, fixture building included
	MaxBatches int
	MaxRuns    int     // Cap on runs in a single batch
	Growth     float64 // Run-count growth factor between batches

	// OnBatch, if set, is called after every batch outside the timed region.
	OnBatch func(c Case, s Sample)
}

func Defaults() *Runner {
	return &Runner{Quota: time.Second, MaxBatches: 300, MaxRuns: 10000, Growth: 1.05}
}

// NextRuns is the run count of the batch after one of runs calls.
func (r *Runner) NextRuns(runs int) int {
	next := int(math.Ceil(float64(runs) * r.Growth))
	if next < runs+1 {
		next = runs + 1
	}
	if next > r.MaxRuns {
		next = r.MaxRuns
	}
	return next
}

// Run executes batches of c until the quota or the batch limit is reached.
// ctx is checked between batches.
func (r *Runner) Run(ctx context.Context, c Case) (Result, error) {
	if r.MaxBatches <= 0 || r.MaxRuns <= 0 {
		return Result{}, errors.Errorf("invalid runner limits (max_batches=%d, max_runs=%d)", r.MaxBatches, r.MaxRuns)
	}
	res := Result{Name: c.Name, Param: c.Param}
	start := time.Now()
	runs := 1
	for b := 0; b < r.MaxBatches; b++ {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "%s/%d interrupted after %d batches", c.Name, c.Param, b)
		}
		s := measure(c.Prepare(), runs)
		res.Samples = append(res.Samples, s)
		if r.OnBatch != nil {
			r.OnBatch(c, s)
		}
		if time.Since(start) >= r.Quota {
			break
		}
		runs = r.NextRuns(runs)
	}
	log.WithFields(log.Fields{
		"case":    c.Name,
		"size":    c.Param,
		"batches": len(res.Samples),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("Case finished")
	return res, nil
}

// RunAll runs every case in order.
func (r *Runner) RunAll(ctx context.Context, cases []Case) ([]Result, error) {
	out := make([]Result, 0, len(cases))
	for _, c := range cases {
		res, err := r.Run(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func measure(op func(), runs int) Sample {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	t0 := time.Now()
	for i := 0; i < runs; i++ {
		op()
	}
	elapsed := time.Since(t0)
	runtime.ReadMemStats(&after)

	return Sample{
		Runs: runs,
		Values: map[string]float64{
			MonotonicClock: float64(elapsed.Nanoseconds()),
			AllocatedBytes: float64(after.TotalAlloc - before.TotalAlloc),
			Allocations:    float64(after.Mallocs - before.Mallocs),
		},
	}
}
