// Package config loads and validates pdforce settings from config file,
// environment, and defaults.
package config

import (
	"errors"
	"time"

	"github.com/ferroclast/pdforce/internal/generator"
)

// Config is the top-level configuration struct for pdforce.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Search     SearchConfig     `mapstructure:"search"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Output     OutputConfig     `mapstructure:"output"`
}

// SearchConfig holds candidate generation and probing knobs.
type SearchConfig struct {
	Types     []string `mapstructure:"types"`
	MinLength int      `mapstructure:"min_length"`
	MaxLength int      `mapstructure:"max_length"`
	Digits    int      `mapstructure:"digits"`
	Case      string   `mapstructure:"case"`
	Symbols   bool     `mapstructure:"symbols"`
	Wordlist  string   `mapstructure:"wordlist"`
	Workers   int      `mapstructure:"workers"`
	ChunkSize int      `mapstructure:"chunk_size"`
}

// CheckpointConfig holds progress persistence settings.
type CheckpointConfig struct {
	Dir          string        `mapstructure:"dir"`
	SaveInterval time.Duration `mapstructure:"save_interval"`
	Ignore       bool          `mapstructure:"ignore"`
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// OutputConfig holds result reporting settings.
type OutputConfig struct {
	Silent  bool   `mapstructure:"silent"`
	File    string `mapstructure:"file"`
	LogFile string `mapstructure:"log_file"`
}

// Defaults applied when neither config file nor environment set a value.
const (
	DefaultMinLength    = 3
	DefaultMaxLength    = 6
	DefaultCase         = "lower"
	DefaultChunkSize    = 5000
	DefaultStateDir     = ".pdforce-state"
	DefaultSaveInterval = 5 * time.Second
	DefaultMetricsAddr  = "localhost:9464"
)

// DefaultTypes are the password types tried when none are selected
// explicitly: common patterns first, then numeric PINs. Brute-force
// alphabetic and alphanumeric sweeps are opt-in because of their size.
// Dictionary is added automatically when a wordlist is supplied.
var DefaultTypes = []string{"smart", "numeric"}

// Sentinel errors for configuration validation.
var (
	// ErrNoTypes indicates an empty password type selection.
	ErrNoTypes = errors.New("search.types must select at least one type")
	// ErrInvalidType indicates an unrecognized password type.
	ErrInvalidType = errors.New("search.types contains an unknown type")
	// ErrInvalidLengthBounds indicates min/max length out of order or non-positive.
	ErrInvalidLengthBounds = errors.New("search length bounds must satisfy 1 <= min <= max")
	// ErrInvalidDigits indicates a negative exact digit count.
	ErrInvalidDigits = errors.New("search.digits must be non-negative")
	// ErrInvalidCase indicates an unrecognized case mode.
	ErrInvalidCase = errors.New("search.case must be lower, upper, or mixed")
	// ErrInvalidWorkers indicates a negative worker count.
	ErrInvalidWorkers = errors.New("search.workers must be non-negative")
	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("search.chunk_size must be positive")
	// ErrInvalidSaveInterval indicates a non-positive save interval.
	ErrInvalidSaveInterval = errors.New("checkpoint.save_interval must be positive")
	// ErrWordlistMissing indicates a dictionary search without a wordlist path.
	ErrWordlistMissing = errors.New("search.wordlist is required for dictionary searches")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	searchErr := c.validateSearch()
	if searchErr != nil {
		return searchErr
	}

	if c.Checkpoint.SaveInterval <= 0 {
		return ErrInvalidSaveInterval
	}

	return nil
}

func (c *Config) validateSearch() error {
	if len(c.Search.Types) == 0 {
		return ErrNoTypes
	}

	for _, t := range c.Search.Types {
		kind, err := generator.ParseKind(t)
		if err != nil {
			return ErrInvalidType
		}

		if kind == generator.KindDictionary && c.Search.Wordlist == "" {
			return ErrWordlistMissing
		}
	}

	if c.Search.MinLength < 1 || c.Search.MaxLength < c.Search.MinLength {
		return ErrInvalidLengthBounds
	}

	if c.Search.Digits < 0 {
		return ErrInvalidDigits
	}

	switch generator.CaseMode(c.Search.Case) {
	case generator.CaseLower, generator.CaseUpper, generator.CaseMixed:
	default:
		return ErrInvalidCase
	}

	if c.Search.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.Search.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}

	return nil
}

// Kinds returns the selected password types in lineup order. Validate must
// have passed.
func (c *Config) Kinds() []generator.Kind {
	kinds := make([]generator.Kind, 0, len(c.Search.Types))
	for _, t := range c.Search.Types {
		kinds = append(kinds, generator.Kind(t))
	}

	return kinds
}

// CaseMode returns the selected alphabetic case mode. Validate must have
// passed.
func (c *Config) CaseMode() generator.CaseMode {
	return generator.CaseMode(c.Search.Case)
}
