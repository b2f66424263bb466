package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runningwild/microbench/pkg/config"
	"github.com/runningwild/microbench/pkg/report"
	"github.com/runningwild/microbench/pkg/sweep"
)

type dietOptions struct {
	points     int
	quota      time.Duration
	predictors []string
	seed       int64
}

func newDietCmd(root *rootOptions) *cobra.Command {
	o := &dietOptions{}
	cmd := &cobra.Command{
		Use:   "diet",
		Short: "Regress interval-set add, remove and take costs against tree size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			o.apply(cmd, &cfg.Diet)
			if err := root.finish(cfg); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return runDiet(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.points, "points", 20, "Number of tree sizes")
	f.DurationVar(&o.quota, "quota", time.Second, "Time budget per case")
	f.StringSliceVar(&o.predictors, "predictors", nil, "Regression predictors: 'runs', 'one' (default: runs)")
	f.Int64Var(&o.seed, "seed", 0, "Random seed (0 means time-based)")
	return cmd
}

func (o *dietOptions) apply(cmd *cobra.Command, d *config.Diet) {
	f := cmd.Flags()
	if f.Changed("points") {
		d.Points = o.points
	}
	if f.Changed("quota") {
		d.Quota = o.quota
	}
	if f.Changed("predictors") {
		d.Predictors = o.predictors
	}
	if f.Changed("seed") {
		d.Seed = o.seed
	}
}

func runDiet(ctx context.Context, cfg *config.Config) error {
	progress, stop, err := startAgent(cfg.Output.Listen)
	if err != nil {
		return err
	}
	defer stop()

	chans, err := sweep.NewDiet(cfg.Diet, progress).Run(ctx)
	if err != nil {
		return err
	}
	path, err := report.WriteRegression(cfg.Output.Dir, "diet", chans)
	if err != nil {
		return err
	}
	log.WithField("path", path).Info("Results written")

	if cfg.Output.SQLite == "" {
		return nil
	}
	sink, err := report.OpenSQLite(cfg.Output.SQLite, uuid.NewString())
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.InsertRegression(ctx, "diet", chans); err != nil {
		return err
	}
	log.WithFields(log.Fields{"db": cfg.Output.SQLite, "run": sink.Run()}).Info("Results stored")
	return nil
}
