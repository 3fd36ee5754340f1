package sana

import (
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/songlinshu/sana/dfa"
	"github.com/songlinshu/sana/nfa"
)

// log is the package logger. Config.Logger replaces it per compilation.
var log = logrus.WithField("subsys", "sana")

// Config controls rule set compilation.
//
// Example:
//
//	config := sana.DefaultConfig().WithMaxStates(50_000)
//	ir, err := sana.CompileWithConfig(rules, config)
type Config struct {
	// MaxStates caps the number of DFA states subset construction may create.
	// Default: 10,000
	MaxStates int

	// MaxRecursionDepth limits expression nesting during NFA compilation.
	// Default: 250
	MaxRecursionDepth int

	// Minimize merges equivalent DFA states before flattening.
	// Default: true
	Minimize bool

	// Parallelism bounds the goroutines used by CompileAll.
	// Default: runtime.GOMAXPROCS(0)
	Parallelism int

	// Logger receives compilation diagnostics at debug level.
	// Default: the package logger (logrus standard logger, subsys=sana)
	Logger logrus.FieldLogger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates:         10_000,
		MaxRecursionDepth: 250,
		Minimize:          true,
		Parallelism:       runtime.GOMAXPROCS(0),
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MaxStates: 1 to 1,000,000
//   - MaxRecursionDepth: 10 to 1,000
//   - Parallelism: at least 1
func (c Config) Validate() error {
	if c.MaxStates < 1 || c.MaxStates > 1_000_000 {
		return invalidConfig("MaxStates", "must be between 1 and 1,000,000")
	}
	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 1_000 {
		return invalidConfig("MaxRecursionDepth", "must be between 10 and 1,000")
	}
	if c.Parallelism < 1 {
		return invalidConfig("Parallelism", "must be at least 1")
	}
	return nil
}

func invalidConfig(field, message string) error {
	return &CompileError{
		Kind:     InvalidConfig,
		Rule:     -1,
		Conflict: -1,
		Message:  "invalid config",
		Cause:    &ConfigError{Field: field, Message: message},
	}
}

// WithMaxStates returns a new config with the specified state limit
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}

// WithMaxRecursionDepth returns a new config with the specified nesting limit
func (c Config) WithMaxRecursionDepth(depth int) Config {
	c.MaxRecursionDepth = depth
	return c
}

// WithMinimize returns a new config with minimization enabled/disabled
func (c Config) WithMinimize(enabled bool) Config {
	c.Minimize = enabled
	return c
}

// WithParallelism returns a new config with the specified goroutine bound
func (c Config) WithParallelism(n int) Config {
	c.Parallelism = n
	return c
}

// WithLogger returns a new config logging to l
func (c Config) WithLogger(l logrus.FieldLogger) Config {
	c.Logger = l
	return c
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return log
}

// dfaConfig returns the determinization settings. Minimization is run by
// the caller so the pre-minimization size can be logged.
func (c Config) dfaConfig() dfa.Config {
	return dfa.DefaultConfig().
		WithMaxStates(c.MaxStates).
		WithMinimize(false)
}

func (c Config) compilerConfig() nfa.CompilerConfig {
	return nfa.CompilerConfig{MaxRecursionDepth: c.MaxRecursionDepth}
}
