package grove

import (
	"math"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v2"
)

/*
Config holds the parameters to grow trees and forests. It can be parsed from
YAML with ParseConfig and adjusted with Options.

Features is the number of columns sampled at every node, all of them when 0.
MaxDepth limits the depth of the trees, unlimited when 0. Nodes with fewer than
MinRows training rows, or whose best split gains less than MinGain, become
leaves. When Bagging is set every tree is grown from a sample with replacement
of BagFraction times the rows of the training view. MultiwayCategorical makes
categorical columns branch once per code instead of isolating a single code.
*/
type Config struct {
	Trees               int     `yaml:"trees"`
	Features            int     `yaml:"features"`
	BagFraction         float64 `yaml:"bag_fraction"`
	Bagging             bool    `yaml:"bagging"`
	MaxDepth            int     `yaml:"max_depth"`
	MinRows             int     `yaml:"min_rows"`
	MinGain             float64 `yaml:"min_gain"`
	Workers             int     `yaml:"workers"`
	Seed                int64   `yaml:"seed"`
	MultiwayCategorical bool    `yaml:"multiway_categorical"`

	logger *zap.Logger
	rules  []StoppingRule
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Trees:       10,
		BagFraction: 1.0,
		Bagging:     true,
		MinRows:     1,
		Workers:     runtime.GOMAXPROCS(0),
		Seed:        1,
	}
}

/*
ParseConfig takes a slice of bytes with a configuration in YAML and returns the
default configuration overridden with it, or an error if the YAML cannot be
parsed, has unknown fields or yields an invalid configuration.
*/
func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing yaml config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns an error describing the first invalid parameter of the
// configuration, if any.
func (c Config) Validate() error {
	switch {
	case c.Trees < 1:
		return errors.Errorf("invalid config: trees must be at least 1, got %d", c.Trees)
	case c.Features < 0:
		return errors.Errorf("invalid config: features cannot be negative, got %d", c.Features)
	case !(c.BagFraction > 0) || math.IsInf(c.BagFraction, 1):
		return errors.Errorf("invalid config: bag_fraction must be positive and finite, got %g", c.BagFraction)
	case c.MaxDepth < 0:
		return errors.Errorf("invalid config: max_depth cannot be negative, got %d", c.MaxDepth)
	case c.MinRows < 1:
		return errors.Errorf("invalid config: min_rows must be at least 1, got %d", c.MinRows)
	case !(c.MinGain >= 0):
		return errors.Errorf("invalid config: min_gain cannot be negative, got %g", c.MinGain)
	case c.Workers < 1:
		return errors.Errorf("invalid config: workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Logger returns the logger set with the Logger option, or a no-op logger.
func (c Config) Logger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// StoppingRules returns the rules that decide whether a node becomes a leaf:
// those derived from MaxDepth, MinRows and MinGain followed by the ones added
// with the Stop option.
func (c Config) StoppingRules() []StoppingRule {
	rules := []StoppingRule{MinRowsRule(c.MinRows)}
	if c.MaxDepth > 0 {
		rules = append(rules, MaxDepthRule(c.MaxDepth))
	}
	if c.MinGain > 0 {
		rules = append(rules, MinGainRule(c.MinGain))
	}
	return append(rules, c.rules...)
}

// Option modifies a Config.
type Option func(*Config)

// With returns a copy of the configuration with the given options applied.
func (c Config) With(opts ...Option) Config {
	c.rules = append([]StoppingRule(nil), c.rules...)
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Trees sets the number of trees of a forest.
func Trees(n int) Option {
	return func(c *Config) { c.Trees = n }
}

// Features sets the number of columns sampled at every node.
func Features(n int) Option {
	return func(c *Config) { c.Features = n }
}

// Bagging enables or disables bagging with the given fraction of rows.
func Bagging(enabled bool, fraction float64) Option {
	return func(c *Config) {
		c.Bagging = enabled
		c.BagFraction = fraction
	}
}

// MaxDepth sets the maximum depth of trees.
func MaxDepth(n int) Option {
	return func(c *Config) { c.MaxDepth = n }
}

// MinRows sets the minimum number of rows of a node to split it.
func MinRows(n int) Option {
	return func(c *Config) { c.MinRows = n }
}

// MinGain sets the minimum fitness of a split to use it.
func MinGain(g float64) Option {
	return func(c *Config) { c.MinGain = g }
}

// Workers sets the number of goroutines growing every tree.
func Workers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// RandomSeed sets the seed all randomness derives from.
func RandomSeed(n int64) Option {
	return func(c *Config) { c.Seed = n }
}

// MultiwayCategorical enables or disables one branch per code on categorical
// columns.
func MultiwayCategorical(enabled bool) Option {
	return func(c *Config) { c.MultiwayCategorical = enabled }
}

// Logger sets the logger builds report to.
func Logger(l *zap.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// Stop adds a stopping rule.
func Stop(r StoppingRule) Option {
	return func(c *Config) { c.rules = append(c.rules, r) }
}
