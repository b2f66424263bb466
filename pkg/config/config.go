package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration for a benchmark run.
type Config struct {
	Disk   Disk   `yaml:"disk"`
	Diet   Diet   `yaml:"diet"`
	Output Output `yaml:"output"`
	Log    Log    `yaml:"log"`
}

// Disk configures the filesystem access-pattern sweep.
type Disk struct {
	Engine      string   `yaml:"engine"`       // "sync" or "uring"
	BlockSize   int      `yaml:"block_size"`   // Bytes per write/read call
	Base        float64  `yaml:"base"`         // Base of the log-spaced size range
	MinExp      float64  `yaml:"min_exp"`      // Lowest exponent
	MaxExp      float64  `yaml:"max_exp"`      // Highest exponent
	Points      int      `yaml:"points"`       // Requested sample count before dedup
	Trials      int      `yaml:"trials"`       // Timed trials per (pattern, size)
	HandleScope string   `yaml:"handle_scope"` // "size" or "pattern"
	TempDir     string   `yaml:"temp_dir"`     // Empty means os.TempDir()
	Patterns    []string `yaml:"patterns"`     // Subset of sequential, append, random
	Seed        int64    `yaml:"seed"`         // 0 means time-based
}

// Diet configures the interval-set regression sweep.
type Diet struct {
	Start      int           `yaml:"start"`
	Step       int           `yaml:"step"`
	Points     int           `yaml:"points"`
	TakeWidth  int           `yaml:"take_width"`
	Domain     int           `yaml:"domain"`   // Interval lower bounds are drawn from [0, domain)
	MaxSpan    int           `yaml:"max_span"` // Interval widths are drawn from [0, max_span]
	Quota      time.Duration `yaml:"quota"`    // Time budget per case
	MaxBatches int           `yaml:"max_batches"`
	MaxRuns    int           `yaml:"max_runs"` // Cap on runs in a single batch
	Growth     float64       `yaml:"growth"`   // Run-count growth factor between batches
	Predictors []string      `yaml:"predictors"`
	Seed       int64         `yaml:"seed"`
}

// Output controls where artifacts go.
type Output struct {
	Dir    string `yaml:"dir"`
	SQLite string `yaml:"sqlite,omitempty"` // Optional secondary sink
	Listen string `yaml:"listen,omitempty"` // Optional /metrics address
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

const (
	EngineSync  = "sync"
	EngineUring = "uring"

	ScopeSize    = "size"
	ScopePattern = "pattern"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s failed", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s failed", path)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	d := &c.Disk
	if d.Engine == "" {
		d.Engine = EngineSync
	}
	if d.BlockSize == 0 {
		d.BlockSize = 128
	}
	if d.Base == 0 {
		d.Base = 2
	}
	// MinExp defaults to 0 already.
	if d.MaxExp == 0 {
		d.MaxExp = 14
	}
	if d.Points == 0 {
		d.Points = 64
	}
	if d.Trials == 0 {
		d.Trials = 10
	}
	if d.HandleScope == "" {
		d.HandleScope = ScopeSize
	}
	if len(d.Patterns) == 0 {
		d.Patterns = []string{"sequential", "append", "random"}
	}

	t := &c.Diet
	if t.Start == 0 {
		t.Start = 1000
	}
	if t.Step == 0 {
		t.Step = 1000
	}
	if t.Points == 0 {
		t.Points = 20
	}
	if t.TakeWidth == 0 {
		t.TakeWidth = 100
	}
	if t.Domain == 0 {
		t.Domain = 1 << 30
	}
	if t.MaxSpan == 0 {
		t.MaxSpan = 8
	}
	if t.Quota == 0 {
		t.Quota = 1 * time.Second
	}
	if t.MaxBatches == 0 {
		t.MaxBatches = 300
	}
	if t.MaxRuns == 0 {
		t.MaxRuns = 10000
	}
	if t.Growth == 0 {
		t.Growth = 1.05
	}
	if len(t.Predictors) == 0 {
		t.Predictors = []string{"runs"}
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects settings the sweeps cannot run with.
func (c *Config) Validate() error {
	d := c.Disk
	switch d.Engine {
	case EngineSync, EngineUring:
	default:
		return errors.Errorf("unknown engine %q", d.Engine)
	}
	switch d.HandleScope {
	case ScopeSize, ScopePattern:
	default:
		return errors.Errorf("unknown handle scope %q", d.HandleScope)
	}
	if d.BlockSize <= 0 {
		return errors.Errorf("invalid block size: %d", d.BlockSize)
	}
	if d.Base <= 1 {
		return errors.Errorf("log base must be > 1, got %v", d.Base)
	}
	if d.MaxExp < d.MinExp {
		return errors.Errorf("max_exp (%v) below min_exp (%v)", d.MaxExp, d.MinExp)
	}
	if d.Points <= 0 || d.Trials <= 0 {
		return errors.Errorf("points and trials must be positive (points=%d, trials=%d)", d.Points, d.Trials)
	}
	for _, p := range d.Patterns {
		switch p {
		case "sequential", "append", "random":
		default:
			return errors.Errorf("unknown pattern %q", p)
		}
	}

	t := c.Diet
	if t.Step <= 0 || t.Points <= 0 {
		return errors.Errorf("diet step and points must be positive (step=%d, points=%d)", t.Step, t.Points)
	}
	if t.Domain <= 0 || t.MaxSpan < 0 || t.TakeWidth <= 0 {
		return errors.Errorf("invalid interval generator settings (domain=%d, max_span=%d, take_width=%d)",
			t.Domain, t.MaxSpan, t.TakeWidth)
	}
	if t.Growth <= 1 {
		return errors.Errorf("growth must be > 1, got %v", t.Growth)
	}
	if t.MaxRuns <= 0 || t.MaxBatches <= 0 {
		return errors.Errorf("max_runs and max_batches must be positive")
	}
	for _, p := range t.Predictors {
		switch p {
		case "runs", "one":
		default:
			return errors.Errorf("unknown predictor %q", p)
		}
	}
	return nil
}

// Write saves the effective configuration as YAML.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "failed to write %s", path)
}
