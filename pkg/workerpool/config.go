package workerpool

import (
	"fmt"
	"runtime"
	"time"
)

// Config for the worker pool
type Config struct {
	Workers         int           // Number of workers, fixed for the pool lifetime
	ShutdownTimeout time.Duration // Max wait time for graceful shutdown; 0 waits forever
	ErrorHandler    func(error)   // Callback for job failures (panics)
}

// DefaultConfig returns a configuration with sensible defaults.
// Workers = runtime.NumCPU()
// ShutdownTimeout = 30s
func DefaultConfig() Config {
	return Config{
		Workers:         runtime.NumCPU(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// Validate validates the configuration.
// A pool with zero capacity can never make progress, so a non-positive
// worker count is rejected outright.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be > 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown timeout must be >= 0, got %v", ErrInvalidConfig, c.ShutdownTimeout)
	}
	return nil
}
