package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runningwild/microbench/pkg/agent"
	"github.com/runningwild/microbench/pkg/config"
	"github.com/runningwild/microbench/pkg/sweep"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("Benchmark failed")
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile  string
	writeConfig string
	logLevel    string
	logFormat   string
	listen      string
	sqlite      string
	outDir      string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "microbench",
		Short:         "Disk access-pattern and interval-set micro-benchmarks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "Path to a YAML configuration file")
	pf.StringVar(&o.writeConfig, "write-config", "", "Save the effective configuration to this YAML file")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&o.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&o.listen, "listen", "", "Serve /health and /metrics on this address while running")
	pf.StringVar(&o.sqlite, "sqlite", "", "Also append results to this SQLite database")
	pf.StringVar(&o.outDir, "out-dir", "", "Directory for the JSON result file")

	cmd.AddCommand(newDiskCmd(o), newDietCmd(o))
	return cmd
}

// load builds the effective configuration: defaults, then the config file,
// then any flags set on the command line.
func (o *rootOptions) load() (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.listen != "" {
		cfg.Output.Listen = o.listen
	}
	if o.sqlite != "" {
		cfg.Output.SQLite = o.sqlite
	}
	if o.outDir != "" {
		cfg.Output.Dir = o.outDir
	}
	return cfg, nil
}

// finish validates cfg after subcommand overrides, applies logging and
// writes the config file if requested.
func (o *rootOptions) finish(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	if o.writeConfig != "" {
		if err := cfg.Write(o.writeConfig); err != nil {
			return err
		}
		log.WithField("path", o.writeConfig).Info("Configuration saved")
	}
	return nil
}

func setupLogging(c config.Log) error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(level)
	switch c.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("unknown log format %q", c.Format)
	}
	return nil
}

// startAgent starts the metrics server when an address is configured. The
// returned Progress is nil without one.
func startAgent(addr string) (sweep.Progress, func(), error) {
	if addr == "" {
		return nil, func() {}, nil
	}
	m := agent.NewMetrics()
	srv := agent.NewServer(addr, m)
	if err := srv.Start(); err != nil {
		return nil, nil, err
	}
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}
	return m, stop, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
