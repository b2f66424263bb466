package sweep

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/runningwild/microbench/pkg/analyze"
	"github.com/runningwild/microbench/pkg/config"
	"github.com/runningwild/microbench/pkg/engine"
	"github.com/runningwild/microbench/pkg/gen"
	"github.com/runningwild/microbench/pkg/stats"
)

// Disk runs every configured access pattern over the log-spaced sizes.
type Disk struct {
	cfg      config.Disk
	progress Progress
}

func NewDisk(cfg config.Disk, progress Progress) *Disk {
	return &Disk{cfg: cfg, progress: orNop(progress)}
}

// Sizes is the workload size space, in blocks.
func (d *Disk) Sizes() []int {
	return LogSizes(d.cfg.Base, d.cfg.MinExp, d.cfg.MaxExp, d.cfg.Points)
}

// Run executes the whole sweep and returns the raw table. Patterns run in
// order; for each pattern every size runs all its trials before the next
// size starts. Any I/O error aborts the sweep.
func (d *Disk) Run(ctx context.Context) (*stats.Table, error) {
	sizes := d.Sizes()
	src := gen.New(d.cfg.Seed)
	log.WithFields(log.Fields{
		"sizes":  len(sizes),
		"trials": d.cfg.Trials,
		"engine": d.cfg.Engine,
		"seed":   src.Seed(),
	}).Info("Starting disk sweep")

	tbl := stats.NewTable()
	for _, name := range d.cfg.Patterns {
		if err := d.runPattern(ctx, tbl, engine.Pattern(name), sizes, src); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (d *Disk) open(p engine.Pattern, src *gen.Source) (*engine.Driver, error) {
	f, err := engine.Open(engine.Params{
		Engine: d.cfg.Engine,
		Dir:    d.cfg.TempDir,
		Prefix: string(p),
		Append: p.NeedsAppend(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %s", p)
	}
	drv, err := engine.NewDriver(f, p, d.cfg.BlockSize, src)
	if err != nil {
		f.Close()
		return nil, err
	}
	log.WithFields(log.Fields{"pattern": p, "file": f.Name()}).Debug("Opened backing file")
	return drv, nil
}

func (d *Disk) runPattern(ctx context.Context, tbl *stats.Table, p engine.Pattern, sizes []int, src *gen.Source) error {
	var drv *engine.Driver
	closeDrv := func() error {
		if drv == nil {
			return nil
		}
		err := drv.Close()
		drv = nil
		return errors.Wrapf(err, "pattern %s: close", p)
	}
	defer closeDrv()

	start := time.Now()
	for _, n := range sizes {
		if drv == nil || d.cfg.HandleScope == config.ScopeSize {
			if err := closeDrv(); err != nil {
				return err
			}
			var err error
			if drv, err = d.open(p, src); err != nil {
				return err
			}
		}
		d.progress.Size(string(p), n)

		for i := 0; i < d.cfg.Trials; i++ {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "pattern %s size %d", p, n)
			}
			if err := drv.Trial(tbl, n); err != nil {
				return errors.Wrapf(err, "pattern %s size %d trial %d", p, n, i)
			}
			w, r := drv.Bytes()
			d.progress.Trial(string(p), w, r)
		}
		log.WithFields(log.Fields{"pattern": p, "size": n}).Debug("Size done")
	}
	log.WithFields(log.Fields{"pattern": p, "elapsed": time.Since(start).Round(time.Millisecond)}).Info("Pattern done")
	return closeDrv()
}

// LogSummary logs latency percentiles per operation and the size at which
// each operation's throughput stops scaling.
func LogSummary(tbl *stats.Table, blockSize int) {
	sums := tbl.Summarize()
	sizes := make(map[string][]int)
	means := make(map[string][]float64)
	var order []string
	for _, r := range tbl.Means() {
		if _, ok := sizes[r.Name]; !ok {
			order = append(order, r.Name)
		}
		sizes[r.Name] = append(sizes[r.Name], r.Param)
		means[r.Name] = append(means[r.Name], r.Value)
	}

	for _, op := range order {
		s := sums[op]
		knee := analyze.FindKnee(analyze.Throughput(sizes[op], means[op], blockSize))
		log.WithFields(log.Fields{
			"op":       op,
			"trials":   s.Count,
			"p50":      s.P50,
			"p99":      s.P99,
			"max":      s.Max,
			"knee":     int(knee.X),
			"knee_Bps": int64(knee.Y),
		}).Info("Latency summary")
	}
}
