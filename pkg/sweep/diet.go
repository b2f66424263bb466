package sweep

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/runningwild/microbench/pkg/bench"
	"github.com/runningwild/microbench/pkg/config"
	"github.com/runningwild/microbench/pkg/diet"
	"github.com/runningwild/microbench/pkg/gen"
	"github.com/runningwild/microbench/pkg/report"
)

// Case names of the interval-set harness.
const (
	AddInterval    = "diet/add_interval"
	RemoveInterval = "diet/remove_interval"
	TakeInterval   = "diet/take_interval"
)

// sink keeps timed results reachable.
var sink diet.Set

// GenerateTree inserts size random intervals from src into an empty set.
func GenerateTree(src *gen.Source, size int) diet.Set {
	var s diet.Set
	for i := 0; i < size; i++ {
		s = s.Add(src.Interval())
	}
	return s
}

// Diet runs the add/remove/take cases over linearly spaced tree sizes.
type Diet struct {
	cfg      config.Diet
	progress Progress
}

func NewDiet(cfg config.Diet, progress Progress) *Diet {
	return &Diet{cfg: cfg, progress: orNop(progress)}
}

func (d *Diet) Sizes() []int {
	return LinearSizes(d.cfg.Start, d.cfg.Step, d.cfg.Points)
}

// Cases returns one indexed case per operation and size, operation-major.
func (d *Diet) Cases(src *gen.Source) []bench.Case {
	sizes := d.Sizes()
	width := d.cfg.TakeWidth
	cases := make([]bench.Case, 0, 3*len(sizes))
	for _, n := range sizes {
		cases = append(cases, bench.Case{Name: AddInterval, Param: n, Prepare: func() func() {
			fixture := GenerateTree(src, n)
			iv := src.Interval()
			return func() { sink = fixture.Add(iv) }
		}})
	}
	for _, n := range sizes {
		cases = append(cases, bench.Case{Name: RemoveInterval, Param: n, Prepare: func() func() {
			fixture := GenerateTree(src, n)
			iv, _ := fixture.Choose()
			return func() { sink = fixture.Remove(iv) }
		}})
	}
	for _, n := range sizes {
		cases = append(cases, bench.Case{Name: TakeInterval, Param: n, Prepare: func() func() {
			fixture := GenerateTree(src, n)
			return func() { sink, _, _ = fixture.Take(width) }
		}})
	}
	return cases
}

// Run executes every case and reduces the batches to per-channel estimates.
func (d *Diet) Run(ctx context.Context) ([]report.ChannelRecords, error) {
	src := gen.New(d.cfg.Seed)
	src.Domain = d.cfg.Domain
	src.MaxSpan = d.cfg.MaxSpan

	r := &bench.Runner{
		Quota:      d.cfg.Quota,
		MaxBatches: d.cfg.MaxBatches,
		MaxRuns:    d.cfg.MaxRuns,
		Growth:     d.cfg.Growth,
		OnBatch: func(c bench.Case, _ bench.Sample) {
			d.progress.Trial(c.Name, 0, 0)
		},
	}

	cases := d.Cases(src)
	log.WithFields(log.Fields{
		"cases": len(cases),
		"quota": d.cfg.Quota,
		"seed":  src.Seed(),
	}).Info("Starting interval-set sweep")

	results := make([]bench.Result, 0, len(cases))
	for _, c := range cases {
		d.progress.Size(c.Name, c.Param)
		res, err := r.Run(ctx, c)
		if err != nil {
			return nil, errors.Wrapf(err, "case %s", c.Name)
		}
		results = append(results, res)
	}
	return bench.Reduce(results, d.cfg.Predictors)
}
