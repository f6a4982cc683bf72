// Package config holds the tunables the read-query core threads through a
// Subarray rather than baking in as package-level constants, grounded on the
// teacher's TOML-tagged Config struct convention.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
)

// EstimationPolicy carries the result-size estimator's tunables. Per §9's
// design note, the amplification constant that the source hard-codes as a
// process-wide global is a field here instead, so callers can vary it per
// subarray (e.g. a higher amplification for a known-skewed workload).
type EstimationPolicy struct {
	// Amplification is applied to size_fixed and size_var only, never to
	// mem_fixed/mem_var. Must be >= 1.0.
	Amplification float64 `toml:"amplification"`
}

// DefaultEstimationPolicy is the policy used when a Subarray is not given
// one explicitly: no amplification.
func DefaultEstimationPolicy() EstimationPolicy {
	return EstimationPolicy{Amplification: 1.0}
}

// ExecutorConfig tunes the parallel-for collaborator (C8).
type ExecutorConfig struct {
	// MaxConcurrency bounds how many goroutines a single ForEach/ForEach2D
	// dispatch may run at once. Zero means "let the runtime decide"
	// (GOMAXPROCS), matching errgroup.SetLimit(-1) semantics.
	MaxConcurrency int `toml:"max-concurrency"`
}

// Config is the top-level, TOML-loadable configuration for a process
// embedding the read-query core, mirroring the shape of the teacher's
// Config struct and ctl config file convention.
type Config struct {
	Estimation EstimationPolicy `toml:"estimation"`
	Executor   ExecutorConfig   `toml:"executor"`
}

// DefaultConfig returns the zero-tuning configuration.
func DefaultConfig() Config {
	return Config{
		Estimation: DefaultEstimationPolicy(),
		Executor:   ExecutorConfig{MaxConcurrency: 0},
	}
}

// Load reads and parses a TOML config file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse parses TOML-encoded configuration bytes.
func Parse(b []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
