// Package config loads simulator settings from defaults,
// an optional config file, the environment, and command flags.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strings"

	lruipv "github.com/djdv/go-lruipv"
	"github.com/djdv/go-lruipv/internal/logging"
	"github.com/djdv/go-lruipv/internal/workload"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names,
// e.g. IPVSIM_SETS or IPVSIM_LOGGING_LEVEL.
const EnvPrefix = "IPVSIM"

var vectors = map[string]lruipv.Vector{
	"ipv": lruipv.DefaultVector,
	"lru": lruipv.LRUVector,
}

// Config holds simulator settings.
type Config struct {
	Sets          int            `mapstructure:"sets"`
	BlockSize     int            `mapstructure:"block_size"`
	Pattern       string         `mapstructure:"pattern"`
	Seed          int64          `mapstructure:"seed"`
	Vector        string         `mapstructure:"vector"`
	InsertionRank int            `mapstructure:"insertion_rank"`
	Logging       logging.Config `mapstructure:"logging"`
}

// Loader reads [Config] through viper.
type Loader struct {
	viper *viper.Viper
	file  string
}

// NewLoader creates a loader with defaults and environment support.
// If file is not empty it is read during [Loader.Load].
func NewLoader(file string) *Loader {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file) // Format is taken from the extension.
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Loader{viper: v, file: file}
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("sets", defaults.Sets)
	v.SetDefault("block_size", defaults.BlockSize)
	v.SetDefault("pattern", defaults.Pattern)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("vector", defaults.Vector)
	v.SetDefault("insertion_rank", defaults.InsertionRank)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.time_format", defaults.Logging.TimeFormat)
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Sets:          64,
		BlockSize:     64,
		Pattern:       "zipf",
		Seed:          1,
		Vector:        "ipv",
		InsertionRank: int(lruipv.InsertionRank),
		Logging:       logging.DefaultConfig(),
	}
}

// BindFlag binds a command flag to key, so a changed flag
// takes precedence over the environment and config file.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if err := l.viper.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", key, err)
	}
	return nil
}

// Load reads the config file (if any) and returns a validated [Config].
func (l *Loader) Load() (*Config, error) {
	if l.file != "" {
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.file, err)
		}
	}
	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if !isPow2(c.Sets) || c.Sets > lruipv.MaxSets {
		errs = append(errs, fmt.Errorf("sets must be a power of two up to %d, got %d",
			lruipv.MaxSets, c.Sets))
	}
	if !isPow2(c.BlockSize) {
		errs = append(errs, fmt.Errorf("block_size must be a power of two, got %d", c.BlockSize))
	}
	if c.Pattern != "all" && !slices.Contains(workload.Names(), c.Pattern) {
		errs = append(errs, fmt.Errorf("pattern must be all or one of %v, got %q",
			workload.Names(), c.Pattern))
	}
	if _, ok := LookupVector(c.Vector); !ok && c.Vector != "all" {
		errs = append(errs, fmt.Errorf("vector must be all or one of %v, got %q",
			VectorNames(), c.Vector))
	}
	if c.InsertionRank < 0 || c.InsertionRank >= lruipv.Associativity {
		errs = append(errs, fmt.Errorf("insertion_rank must be in [0,%d), got %d",
			lruipv.Associativity, c.InsertionRank))
	}
	return errors.Join(errs...)
}

// LookupVector returns the promotion vector configured as name.
func LookupVector(name string) (lruipv.Vector, bool) {
	vector, ok := vectors[name]
	return vector, ok
}

// VectorNames returns every name accepted by [LookupVector], sorted.
func VectorNames() []string {
	names := make([]string, 0, len(vectors))
	for name := range vectors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func isPow2(x int) bool {
	return x > 0 && bits.OnesCount(uint(x)) == 1
}
