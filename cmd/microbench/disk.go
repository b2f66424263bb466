package main

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runningwild/microbench/pkg/config"
	"github.com/runningwild/microbench/pkg/fio"
	"github.com/runningwild/microbench/pkg/report"
	"github.com/runningwild/microbench/pkg/sweep"
)

type diskOptions struct {
	engine      string
	blockSize   int
	trials      int
	handleScope string
	tempDir     string
	patterns    []string
	seed        int64
	fioJobs     string
}

func newDiskCmd(root *rootOptions) *cobra.Command {
	o := &diskOptions{}
	cmd := &cobra.Command{
		Use:   "disk",
		Short: "Time sequential, append and random-offset I/O over log-spaced sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			o.apply(cmd, &cfg.Disk)
			if err := root.finish(cfg); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return runDisk(ctx, cfg, o.fioJobs)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.engine, "engine", config.EngineSync, "I/O engine: 'sync' or 'uring'")
	f.IntVar(&o.blockSize, "block-size", 128, "Bytes per read/write call")
	f.IntVar(&o.trials, "trials", 10, "Timed trials per pattern and size")
	f.StringVar(&o.handleScope, "handle-scope", config.ScopeSize, "File handle lifetime: 'size' or 'pattern'")
	f.StringVar(&o.tempDir, "temp-dir", "", "Directory for backing files (default: system temp dir)")
	f.StringSliceVar(&o.patterns, "patterns", nil, "Patterns to run (default: sequential,append,random)")
	f.Int64Var(&o.seed, "seed", 0, "Random seed (0 means time-based)")
	f.StringVar(&o.fioJobs, "fio-jobs", "", "Also write equivalent fio job files to this directory")
	return cmd
}

// apply copies the flags set on the command line over d.
func (o *diskOptions) apply(cmd *cobra.Command, d *config.Disk) {
	f := cmd.Flags()
	if f.Changed("engine") {
		d.Engine = o.engine
	}
	if f.Changed("block-size") {
		d.BlockSize = o.blockSize
	}
	if f.Changed("trials") {
		d.Trials = o.trials
	}
	if f.Changed("handle-scope") {
		d.HandleScope = o.handleScope
	}
	if f.Changed("temp-dir") {
		d.TempDir = o.tempDir
	}
	if f.Changed("patterns") {
		d.Patterns = o.patterns
	}
	if f.Changed("seed") {
		d.Seed = o.seed
	}
}

func runDisk(ctx context.Context, cfg *config.Config, fioDir string) error {
	progress, stop, err := startAgent(cfg.Output.Listen)
	if err != nil {
		return err
	}
	defer stop()

	d := sweep.NewDisk(cfg.Disk, progress)
	if fioDir != "" {
		paths, err := fio.WriteJobs(fioDir, cfg.Disk, d.Sizes())
		if err != nil {
			return err
		}
		log.WithField("files", paths).Info("Wrote fio jobs")
	}

	tbl, err := d.Run(ctx)
	if err != nil {
		return err
	}
	sweep.LogSummary(tbl, cfg.Disk.BlockSize)

	recs := report.FromMeans(tbl.Means())
	path, err := report.WriteMeans(cfg.Output.Dir, "disk", recs)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": path, "records": len(recs)}).Info("Results written")

	if cfg.Output.SQLite == "" {
		return nil
	}
	sink, err := report.OpenSQLite(cfg.Output.SQLite, uuid.NewString())
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.InsertMeans(ctx, "disk", recs); err != nil {
		return err
	}
	log.WithFields(log.Fields{"db": cfg.Output.SQLite, "run": sink.Run()}).Info("Results stored")
	return nil
}
