// Package config provides configuration structures for the execution engine.
package config

// Config holds the complete engine configuration.
type Config struct {
	// Logging: "trace", "debug", "info", "warn", "error" or "crit".
	// Empty means info.
	LogLevel string

	// Fork selects the built-in rule set: "frontier", "byzantium" or
	// "constantinople".
	Fork string

	// Virtual machine limits
	VM *VMConfig

	// Transaction and block execution
	Executor *ExecutorConfig
}

// VMConfig holds the limits applied on top of the selected fork.
type VMConfig struct {
	MaxCallDepth int // 1024
	StackLimit   int // 1024
	MaxCodeSize  int // 0 keeps the fork's limit

	// Fraction of the available gas kept by the caller: available/divisor.
	// 0 keeps the fork's policy.
	CallGasRetainDivisor   uint64
	CreateGasRetainDivisor uint64

	// Number of jump destination analyses kept across transactions.
	// 0 disables the cache.
	AnalysisCacheSize int
}

// ExecutorConfig holds the transaction executor settings.
type ExecutorConfig struct {
	BlockGasLimit  uint64
	RefundQuotient uint64 // refund is capped at gasUsed/RefundQuotient
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Fork:     "constantinople",

		VM:       DefaultVMConfig(),
		Executor: DefaultExecutorConfig(),
	}
}

// DefaultVMConfig returns the default machine limits.
func DefaultVMConfig() *VMConfig {
	return &VMConfig{
		MaxCallDepth:      1024,
		StackLimit:        1024,
		AnalysisCacheSize: 256,
	}
}

// DefaultExecutorConfig returns the default executor settings.
func DefaultExecutorConfig() *ExecutorConfig {
	return &ExecutorConfig{
		BlockGasLimit:  8_000_000,
		RefundQuotient: 2,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.VM == nil {
		return ErrNilVMConfig
	}
	if c.Executor == nil {
		return ErrNilExecutorConfig
	}
	switch c.LogLevel {
	case "", "trace", "debug", "info", "warn", "error", "crit":
	default:
		return ErrUnknownLogLevel
	}
	switch c.Fork {
	case "", "frontier", "byzantium", "constantinople":
	default:
		return ErrUnknownFork
	}
	if c.VM.MaxCallDepth <= 0 {
		return ErrInvalidCallDepth
	}
	if c.VM.StackLimit <= 0 {
		return ErrInvalidStackLimit
	}
	if c.VM.MaxCodeSize < 0 {
		return ErrInvalidCodeSize
	}
	if c.Executor.RefundQuotient == 0 {
		return ErrInvalidRefundQuotient
	}
	return nil
}

// Error types for configuration validation.
var (
	ErrNilVMConfig           = configError("vm config is nil")
	ErrNilExecutorConfig     = configError("executor config is nil")
	ErrUnknownLogLevel       = configError("unknown log level")
	ErrUnknownFork           = configError("unknown fork")
	ErrInvalidCallDepth      = configError("max call depth must be positive")
	ErrInvalidStackLimit     = configError("stack limit must be positive")
	ErrInvalidCodeSize       = configError("max code size must not be negative")
	ErrInvalidRefundQuotient = configError("refund quotient must be positive")
)

type configError string

func (e configError) Error() string {
	return string(e)
}
