// Package runtime provides the process-level entry points of the MPI object
// model: attribute keyval management and datatype representation binding.
//
// # Quick Start
//
//	p := runtime.Default()
//
//	var kv handle.Handle
//	if err := p.CreateWinKeyval(attr.DupFn, attr.NullDeleteFn, &kv, state); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.FreeWinKeyval(&kv)
//
//	// Bind the static representation of a predefined pair type
//	if err := p.CommitDatatypeRepresentation(datatype.DoubleInt); err != nil {
//	    log.Fatal(err)
//	}
//
// # Critical Section
//
// Every exported method of Process acquires one process-wide mutex for its
// whole duration and releases it on every exit path. Pools, keyval reference
// counts and the hook registration below this package perform no locking of
// their own.
//
// Attribute callbacks and pool observers run with the mutex held. They must
// not call back into the same Process.
//
// # Errors
//
// Entry points return *errors.Error values. errors.CodeOf maps them to MPI
// error classes:
//
//	nil output location          MPI_ERR_ARG
//	pool exhausted               MPI_ERR_OTHER
//	representation engine fault  MPI_ERR_INTERN
//	wrong or stale keyval        MPI_ERR_KEYVAL
//
// No failure leaves a handle written or a pool slot allocated.
//
// # Configuration
//
// New accepts a *Config; nil selects DefaultConfig. A custom typerep engine,
// hook binder, logger and pool capacities can be supplied:
//
//	p := runtime.New(&runtime.Config{
//	    Engine:         typerep.NewLocalEngine(),
//	    KeyvalCapacity: 64,
//	    Logger:         zap.NewExample(),
//	})
package runtime
