package dfa

// Config configures DFA construction.
type Config struct {
	// MaxStates is the maximum number of DFA states subset construction may
	// create before giving up with ErrStateLimitExceeded. The limit applies
	// before minimization.
	//
	// Default: 10,000 states
	MaxStates int

	// Minimize merges states with indistinguishable behavior after
	// construction and drops states that can never reach an accept.
	//
	// Default: true
	Minimize bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates: 10_000,
		Minimize:  true,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxStates <= 0 {
		return &DFAError{
			Kind:     InvalidConfig,
			Message:  "MaxStates must be > 0",
			Pattern:  noPattern,
			Conflict: noPattern,
		}
	}
	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}

// WithMinimize returns a new config with minimization enabled/disabled
func (c Config) WithMinimize(enabled bool) Config {
	c.Minimize = enabled
	return c
}
