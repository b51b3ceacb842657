package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/typerep"
)

// Config holds process construction options.
type Config struct {
	// Engine builds and queries datatype representations.
	// nil means a fresh typerep.LocalEngine.
	Engine typerep.Constructor

	// HookBinder produces the attribute dup/free hook pair bound on the first
	// keyval creation. nil means attr.DefaultBinder.
	HookBinder attr.Binder

	// Logger receives process logs. nil means the package logger.
	Logger *zap.Logger

	// KeyvalCapacity caps the number of live keyvals.
	// 0 means unbounded (limited by the 16-bit handle index).
	KeyvalCapacity int

	// DatatypeCapacity caps the number of live derived datatypes.
	// 0 means unbounded.
	DatatypeCapacity int
}

// DefaultConfig returns the configuration used by Default.
func DefaultConfig() *Config {
	return &Config{
		Engine:     typerep.NewLocalEngine(),
		HookBinder: attr.DefaultBinder,
	}
}
