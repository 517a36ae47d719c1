package core

import (
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds the tunable constants of the stress engine. The defaults
// match protocol behavior; dashboards normally ship them unchanged.
type Config struct {
	// WatchBufferPct is the simulated buffer below which a non-liquidated
	// position is marked WATCH instead of SAFE.
	WatchBufferPct decimal.Decimal `yaml:"watch_buffer_pct"`

	// Sweep bounds and step, in signed percent.
	SweepMinPct  decimal.Decimal `yaml:"sweep_min_pct"`
	SweepMaxPct  decimal.Decimal `yaml:"sweep_max_pct"`
	SweepStepPct decimal.Decimal `yaml:"sweep_step_pct"`

	// RangeStepPct is the sampling step of the existential range test.
	RangeStepPct decimal.Decimal `yaml:"range_step_pct"`

	// A sweep point is a cliff when debt at risk grows by at least
	// CliffMinMultiplier over the previous point and exceeds
	// CliffMinDebtUsd in absolute terms.
	CliffMinMultiplier decimal.Decimal `yaml:"cliff_min_multiplier"`
	CliffMinDebtUsd    decimal.Decimal `yaml:"cliff_min_debt_usd"`
}

func DefaultConfig() Config {
	return Config{
		WatchBufferPct:     decimal.NewFromInt(15),
		SweepMinPct:        decimal.NewFromInt(-50),
		SweepMaxPct:        decimal.NewFromInt(20),
		SweepStepPct:       decimal.NewFromInt(2),
		RangeStepPct:       decimal.NewFromInt(2),
		CliffMinMultiplier: decimal.NewFromInt(2),
		CliffMinDebtUsd:    decimal.NewFromInt(100),
	}
}

// LoadConfig reads a yaml config file. Fields omitted from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if c.WatchBufferPct.IsNegative() {
		return errors.Wrap(ErrInvalidConfig, "watch_buffer_pct must not be negative")
	}
	if !c.SweepStepPct.IsPositive() {
		return errors.Wrap(ErrInvalidConfig, "sweep_step_pct must be positive")
	}
	if !c.RangeStepPct.IsPositive() {
		return errors.Wrap(ErrInvalidConfig, "range_step_pct must be positive")
	}
	if c.SweepMinPct.GreaterThan(c.SweepMaxPct) {
		return errors.Wrap(ErrInvalidConfig, "sweep_min_pct exceeds sweep_max_pct")
	}
	if c.CliffMinMultiplier.LessThan(ONE) {
		return errors.Wrap(ErrInvalidConfig, "cliff_min_multiplier must be at least 1")
	}
	if c.CliffMinDebtUsd.IsNegative() {
		return errors.Wrap(ErrInvalidConfig, "cliff_min_debt_usd must not be negative")
	}
	return nil
}
