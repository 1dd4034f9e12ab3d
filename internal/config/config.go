// Package config holds the knobs of a training run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/ecgnet/internal/seed"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Seed      int64   `yaml:"seed"`
	Epochs    int     `yaml:"epochs"`
	BatchSize int     `yaml:"batch_size"`
	Threshold float64 `yaml:"threshold"`
	Workers   int     `yaml:"workers"`
	LogLevel  string  `yaml:"log_level"`

	Model     ModelConfig     `yaml:"model"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Data      DataConfig      `yaml:"data"`
}

// ModelConfig selects the backbone depth and head width.
type ModelConfig struct {
	Layers  []int `yaml:"layers"`
	Classes int   `yaml:"classes"`
}

// OptimizerConfig selects the optimizer.
type OptimizerConfig struct {
	Name        string  `yaml:"name"`
	LR          float64 `yaml:"lr"`
	Momentum    float64 `yaml:"momentum"`
	WeightDecay float64 `yaml:"weight_decay"`
}

// DataConfig shapes the synthetic dataset and its split.
type DataConfig struct {
	Samples    int     `yaml:"samples"`
	Length     int     `yaml:"length"`
	SampleRate float64 `yaml:"sample_rate"`
	Noise      float64 `yaml:"noise"`
	ValFrac    float64 `yaml:"val_frac"`
	TestFrac   float64 `yaml:"test_frac"`
}

// Overrides captures CLI supplied values. Zero values leave the config as is.
type Overrides struct {
	Seed      int64
	Epochs    int
	BatchSize int
	LR        float64
	Threshold float64
	Optimizer string
	Samples   int
	Length    int
	Classes   int
	Workers   int
	LogLevel  string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Seed:      seed.DefaultSeed,
		Epochs:    5,
		BatchSize: 16,
		Threshold: 0.5,
		LogLevel:  "info",
		Model: ModelConfig{
			Layers:  []int{3, 4, 6, 3},
			Classes: 5,
		},
		Optimizer: OptimizerConfig{
			Name: "adam",
			LR:   1e-3,
		},
		Data: DataConfig{
			Samples:    200,
			Length:     1000,
			SampleRate: 500,
			Noise:      0.5,
			ValFrac:    0.15,
			TestFrac:   0.15,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.LR > 0 {
		c.Optimizer.LR = o.LR
	}
	if o.Threshold > 0 {
		c.Threshold = o.Threshold
	}
	if o.Optimizer != "" {
		c.Optimizer.Name = o.Optimizer
	}
	if o.Samples > 0 {
		c.Data.Samples = o.Samples
	}
	if o.Length > 0 {
		c.Data.Length = o.Length
	}
	if o.Classes > 0 {
		c.Model.Classes = o.Classes
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold must be in (0, 1) (got %g)", c.Threshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	if len(c.Model.Layers) != 4 {
		return fmt.Errorf("model.layers must list 4 stage depths (got %v)", c.Model.Layers)
	}
	for i, n := range c.Model.Layers {
		if n <= 0 {
			return fmt.Errorf("model.layers[%d] must be > 0 (got %d)", i, n)
		}
	}
	if c.Model.Classes <= 0 {
		return fmt.Errorf("model.classes must be > 0 (got %d)", c.Model.Classes)
	}
	if c.Optimizer.LR <= 0 {
		return fmt.Errorf("optimizer.lr must be > 0 (got %g)", c.Optimizer.LR)
	}
	switch c.Optimizer.Name {
	case "adam", "sgd":
	default:
		return fmt.Errorf("optimizer.name must be adam or sgd (got %q)", c.Optimizer.Name)
	}
	if c.Data.Samples <= 0 {
		return fmt.Errorf("data.samples must be > 0 (got %d)", c.Data.Samples)
	}
	// The stem and three strided stages shrink the length 32-fold.
	if c.Data.Length < 32 {
		return fmt.Errorf("data.length must be >= 32 (got %d)", c.Data.Length)
	}
	if c.Data.ValFrac <= 0 || c.Data.TestFrac <= 0 || c.Data.ValFrac+c.Data.TestFrac >= 1 {
		return fmt.Errorf("data.val_frac and data.test_frac must be > 0 and sum below 1 (got %g, %g)",
			c.Data.ValFrac, c.Data.TestFrac)
	}
	return nil
}
