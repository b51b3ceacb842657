// Package errors provides structured error types for the mpi-runtime library.
//
// Errors are categorized by Phase (the subsystem that failed) and Kind (error category).
// The Error type carries the offending argument or handle, a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseKeyval, errors.KindInvalidArgument).
//		Arg("win_keyval").
//		Detail("null argument").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NullArgument(errors.PhaseKeyval, "win_keyval")
//	err := errors.OutOfMemory(errors.PhasePool, "keyval", 1024)
//
// All errors implement the standard error interface and support errors.Is/As.
// The sentinels ErrArgument, ErrOutOfMemory and ErrInternal match any phase.
// CodeOf converts an error into the MPI error class reported at the API boundary.
package errors
