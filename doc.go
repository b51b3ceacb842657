// Package mpiruntime provides a Go implementation of the MPI opaque-handle
// object model for attribute keys and datatype representations.
//
// Objects are named by 32-bit handles that encode their class, object kind
// and pool slot, allocated from per-kind object pools. On top of the pools
// the library implements keyval creation with the process-wide attribute
// hooks, and the binding of datatype objects to representations held by a
// type representation engine.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	mpiruntime/          Root package (documentation only)
//	├── runtime/         Process context, critical section and entry points
//	├── attr/            Keyvals, callback proxies and attribute hooks
//	├── datatype/        Datatype objects, representation commit and free
//	├── typerep/         Representation engine interface and local engine
//	├── pool/            Generic handle object pool
//	├── handle/          Handle bit layout and object kinds
//	├── errors/          Structured error types and MPI error classes
//	└── cmd/mpiobj/      Command line inspector
//
// # Quick Start
//
// Create a window keyval:
//
//	p := runtime.Default()
//
//	var kv handle.Handle
//	err := p.CreateWinKeyval(attr.DupFn, attr.NullDeleteFn, &kv, extraState)
//
// Commit a predefined pair datatype:
//
//	err := p.CommitDatatypeRepresentation(datatype.DoubleInt)
//	info, _ := p.DatatypeInfo(datatype.DoubleInt)
//	// info.NumContigBlocks == 1
//
// # Handles
//
// A handle packs the object class in bits 30-31, the object kind in bits
// 26-29, the owning object kind of a keyval in bits 22-25, a slot generation in
// bits 16-21 and the slot index in bits 0-15. A window keyval therefore
// decodes to handle.WinKeyval:
//
//	kv.Kind() == handle.WinKeyval
//	kv.Owner() == handle.ObjectWin
//
// # Concurrency
//
// runtime.Process serializes every entry point with one mutex. The pool,
// keyval and datatype packages are not safe for concurrent use on their own.
//
// # Error Handling
//
// Errors are structured with phase and kind context:
//
//	var e *errors.Error
//	if stderrors.As(err, &e) {
//	    fmt.Printf("Phase: %s, Kind: %s\n", e.Phase, e.Kind)
//	}
//	code := errors.CodeOf(err) // e.g. MPI_ERR_KEYVAL
package mpiruntime
