package attr

import (
	"fmt"

	"github.com/wippyai/mpi-runtime/handle"
)

// CopyFunc is a user copy callback, invoked when an object holding an
// attribute under keyval is duplicated. The attribute is copied to the new
// object only when keep is true.
type CopyFunc func(owner, keyval handle.Handle, extraState, attrIn any) (attrOut any, keep bool, err error)

// DeleteFunc is a user delete callback, invoked when an attribute is removed
// from an object or the object is destroyed.
type DeleteFunc func(owner, keyval handle.Handle, attrVal, extraState any) error

// LegacyCopyFunc is an MPI-1 style copy callback reporting failure through a
// nonzero status code.
type LegacyCopyFunc func(owner, keyval handle.Handle, extraState, attrIn any) (attrOut any, flag bool, code int)

// LegacyDeleteFunc is an MPI-1 style delete callback.
type LegacyDeleteFunc func(owner, keyval handle.Handle, attrVal, extraState any) int

// Standard installable callbacks.
var (
	// NullCopyFn never copies the attribute.
	NullCopyFn CopyFunc = func(_, _ handle.Handle, _, _ any) (any, bool, error) {
		return nil, false, nil
	}

	// NullDeleteFn does nothing.
	NullDeleteFn DeleteFunc = func(_, _ handle.Handle, _, _ any) error {
		return nil
	}

	// DupFn copies the attribute value unchanged.
	DupFn CopyFunc = func(_, _ handle.Handle, _, attrIn any) (any, bool, error) {
		return attrIn, true, nil
	}
)

// Copier invokes a keyval's copy callback with the calling convention the
// callback was registered with.
type Copier interface {
	InvokeCopy(owner handle.Handle, kv *Keyval, attrIn any) (attrOut any, keep bool, err error)
}

// Deleter invokes a keyval's delete callback.
type Deleter interface {
	InvokeDelete(owner handle.Handle, kv *Keyval, attrVal any) error
}

// NewCopier wraps a Go copy callback. A nil callback never copies.
func NewCopier(fn CopyFunc) Copier {
	return funcCopier{fn: fn}
}

// NewDeleter wraps a Go delete callback. A nil callback does nothing.
func NewDeleter(fn DeleteFunc) Deleter {
	return funcDeleter{fn: fn}
}

// NewLegacyCopier wraps an MPI-1 style copy callback.
func NewLegacyCopier(fn LegacyCopyFunc) Copier {
	return legacyCopier{fn: fn}
}

// NewLegacyDeleter wraps an MPI-1 style delete callback.
func NewLegacyDeleter(fn LegacyDeleteFunc) Deleter {
	return legacyDeleter{fn: fn}
}

type funcCopier struct{ fn CopyFunc }

func (c funcCopier) InvokeCopy(owner handle.Handle, kv *Keyval, attrIn any) (any, bool, error) {
	if c.fn == nil {
		return nil, false, nil
	}
	return c.fn(owner, kv.Handle, kv.ExtraState, attrIn)
}

type funcDeleter struct{ fn DeleteFunc }

func (d funcDeleter) InvokeDelete(owner handle.Handle, kv *Keyval, attrVal any) error {
	if d.fn == nil {
		return nil
	}
	return d.fn(owner, kv.Handle, attrVal, kv.ExtraState)
}

// StatusError carries the nonzero code returned by a legacy callback.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("callback returned status %d", e.Code)
}

type legacyCopier struct{ fn LegacyCopyFunc }

func (c legacyCopier) InvokeCopy(owner handle.Handle, kv *Keyval, attrIn any) (any, bool, error) {
	if c.fn == nil {
		return nil, false, nil
	}
	out, flag, code := c.fn(owner, kv.Handle, kv.ExtraState, attrIn)
	if code != 0 {
		return nil, false, &StatusError{Code: code}
	}
	return out, flag, nil
}

type legacyDeleter struct{ fn LegacyDeleteFunc }

func (d legacyDeleter) InvokeDelete(owner handle.Handle, kv *Keyval, attrVal any) error {
	if d.fn == nil {
		return nil
	}
	if code := d.fn(owner, kv.Handle, attrVal, kv.ExtraState); code != 0 {
		return &StatusError{Code: code}
	}
	return nil
}
