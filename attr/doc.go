// Package attr creates attribute keys (keyvals) and installs the hooks that
// duplicate and tear down attribute lists.
//
// A keyval binds a copy callback, a delete callback and opaque extra state to
// a handle whose kind records the object class it attaches to:
//
//	m := attr.NewManager(0, nil)
//	kv, err := m.Create(handle.ObjectWin, attr.DupFn, attr.NullDeleteFn, state)
//	kv.Kind() == handle.WinKeyval // true
//
// # Callback proxies
//
// Callbacks are stored behind the Copier and Deleter interfaces, so the
// calling convention of a callback is fixed at creation. NewCopier and
// NewDeleter wrap Go callbacks; NewLegacyCopier and NewLegacyDeleter wrap
// MPI-1 style callbacks that report failure with a nonzero status. A nil
// callback is a no-op. NullCopyFn, NullDeleteFn and DupFn are the standard
// installable callbacks.
//
// # Reference counting
//
// A new keyval holds one reference. Each duplicated attribute holding the key
// adds a reference and each deleted attribute drops one. Free marks the key as
// freed by the user and drops the creation reference; the key returns to the
// pool when the last reference is gone.
//
// # Hooks
//
// The first keyval creation binds the process-wide duplication and teardown
// hooks exactly once (see Hooks). The owning object subsystems run them
// through Manager.DupAttributes and Manager.DeleteAttributes.
//
// Manager is not safe for concurrent use; the runtime package serializes all
// calls with the process critical section.
package attr
