package attr

import (
	"sync"
	"sync/atomic"

	"github.com/wippyai/mpi-runtime/handle"
)

// DupListFunc duplicates the attribute list of owner for newOwner.
type DupListFunc func(m *Manager, owner, newOwner handle.Handle, src List) (List, error)

// FreeListFunc tears down the attribute list of owner.
type FreeListFunc func(m *Manager, owner handle.Handle, list List) error

// Binder produces the hook pair installed on first keyval creation.
type Binder func() (DupListFunc, FreeListFunc)

// DefaultBinder installs DupList and DeleteList.
func DefaultBinder() (DupListFunc, FreeListFunc) {
	return DupList, DeleteList
}

// Hooks is the process-wide attribute hook registration shared by every
// keyval kind. The pair is bound at most once and never rebound.
type Hooks struct {
	bind  Binder
	dup   DupListFunc
	free  FreeListFunc
	once  sync.Once
	bound atomic.Bool
}

// NewHooks creates an unbound registration. A nil binder uses DefaultBinder.
func NewHooks(bind Binder) *Hooks {
	if bind == nil {
		bind = DefaultBinder
	}
	return &Hooks{bind: bind}
}

// Ensure binds the hook pair if it is not bound yet.
func (h *Hooks) Ensure() {
	h.once.Do(func() {
		h.dup, h.free = h.bind()
		h.bound.Store(true)
	})
}

// Bound reports whether the hook pair has been installed.
func (h *Hooks) Bound() bool {
	return h.bound.Load()
}

// Dup returns the installed duplication hook, or nil before binding.
func (h *Hooks) Dup() DupListFunc {
	if !h.Bound() {
		return nil
	}
	return h.dup
}

// Free returns the installed teardown hook, or nil before binding.
func (h *Hooks) Free() FreeListFunc {
	if !h.Bound() {
		return nil
	}
	return h.free
}
