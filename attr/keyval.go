package attr

import (
	"go.uber.org/zap"

	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
	"github.com/wippyai/mpi-runtime/pool"
)

// Keyval is an attribute key. It stays allocated while attribute
// lists still reference it, even after the user has freed it.
type Keyval struct {
	ExtraState any
	Copy       Copier
	Delete     Deleter
	Handle     handle.Handle
	refcount   int
	wasFreed   bool
}

// Owner returns the object class this key attaches to.
func (k *Keyval) Owner() handle.Object {
	return k.Handle.Owner()
}

func (k *Keyval) RefCount() int { return k.refcount }

func (k *Keyval) WasFreed() bool { return k.wasFreed }

// Info is a read-only snapshot of a keyval.
type Info struct {
	ExtraState any
	Handle     handle.Handle
	Owner      handle.Object
	RefCount   int
	WasFreed   bool
}

func (k *Keyval) info() Info {
	return Info{
		Handle:     k.Handle,
		Owner:      k.Owner(),
		ExtraState: k.ExtraState,
		RefCount:   k.refcount,
		WasFreed:   k.wasFreed,
	}
}

// Manager creates and tracks keyvals.
// Not safe for concurrent use; callers hold the process critical section.
type Manager struct {
	keyvals *pool.Pool[Keyval]
	hooks   *Hooks
}

// NewManager creates a manager with its own keyval pool. A nil hooks value
// uses a private registration with the default hooks.
func NewManager(capacity int, hooks *Hooks) *Manager {
	if hooks == nil {
		hooks = NewHooks(nil)
	}
	return &Manager{
		keyvals: pool.New[Keyval](handle.ObjectKeyval, capacity),
		hooks:   hooks,
	}
}

// Hooks returns the attribute hook registration used by the manager.
func (m *Manager) Hooks() *Hooks {
	return m.hooks
}

// Create creates a keyval for objects of class owner with Go callbacks.
func (m *Manager) Create(owner handle.Object, copyFn CopyFunc, deleteFn DeleteFunc, extraState any) (handle.Handle, error) {
	return m.CreateWithProxies(owner, NewCopier(copyFn), NewDeleter(deleteFn), extraState)
}

// CreateWithProxies creates a keyval whose callbacks are invoked through the
// given proxies. On failure nothing stays allocated.
func (m *Manager) CreateWithProxies(owner handle.Object, copier Copier, deleter Deleter, extraState any) (handle.Handle, error) {
	switch owner {
	case handle.ObjectComm, handle.ObjectWin, handle.ObjectDatatype:
	default:
		return handle.Null, errors.InvalidArgument(errors.PhaseKeyval, "owner", owner,
			"keyvals attach to communicators, windows or datatypes")
	}
	if copier == nil {
		copier = NewCopier(nil)
	}
	if deleter == nil {
		deleter = NewDeleter(nil)
	}

	h, kv, err := m.keyvals.Allocate(handle.KeyvalKind(owner))
	if err != nil {
		return handle.Null, errors.New(errors.PhaseKeyval, errors.KindOutOfMemory).
			Detail("allocate %s", handle.KeyvalKind(owner)).
			Cause(err).
			Build()
	}

	m.hooks.Ensure()

	kv.Handle = h
	kv.refcount = 1
	kv.wasFreed = false
	kv.ExtraState = extraState
	kv.Copy = copier
	kv.Delete = deleter

	Logger().Debug("keyval created", zap.Stringer("handle", h))
	return h, nil
}

// Get returns the live keyval named by h.
func (m *Manager) Get(h handle.Handle) (*Keyval, error) {
	kv, ok := m.keyvals.Get(h)
	if !ok {
		return nil, errors.InvalidHandle(errors.PhaseKeyval, h, "keyval")
	}
	return kv, nil
}

// Info returns a snapshot of the keyval named by h.
func (m *Manager) Info(h handle.Handle) (Info, error) {
	kv, err := m.Get(h)
	if err != nil {
		return Info{}, err
	}
	return kv.info(), nil
}

// Retain adds a reference held by an attribute list.
func (m *Manager) Retain(h handle.Handle) error {
	kv, err := m.Get(h)
	if err != nil {
		return err
	}
	kv.refcount++
	return nil
}

// Release drops a reference taken by Retain. The keyval returns to the pool
// once the user has freed it and no attribute list references it. The
// creation reference is only dropped by Free.
func (m *Manager) Release(h handle.Handle) error {
	kv, err := m.Get(h)
	if err != nil {
		return err
	}
	if err := checkRelease(kv); err != nil {
		return err
	}
	m.release(kv)
	return nil
}

// Free marks the keyval named by h as freed by the user and drops the
// creation reference. owner must match the class the key was created for.
func (m *Manager) Free(h handle.Handle, owner handle.Object) error {
	kv, err := m.Get(h)
	if err != nil {
		return err
	}
	if kv.Owner() != owner {
		return errors.InvalidHandle(errors.PhaseKeyval, h, handle.KeyvalKind(owner).String())
	}
	if kv.wasFreed {
		return errors.New(errors.PhaseKeyval, errors.KindInvalidHandle).
			Handle(h).
			Detail("keyval already freed").
			Build()
	}
	kv.wasFreed = true
	m.release(kv)
	Logger().Debug("keyval freed", zap.Stringer("handle", h))
	return nil
}

// Len returns the number of allocated keyvals, including freed keyvals that
// are still referenced.
func (m *Manager) Len() int {
	return m.keyvals.Len()
}

// Each iterates over allocated keyvals.
func (m *Manager) Each(fn func(Info) bool) {
	m.keyvals.Each(func(_ handle.Handle, kv *Keyval) bool {
		return fn(kv.info())
	})
}

// Subscribe adds an observer for keyval allocation events.
func (m *Manager) Subscribe(o pool.Observer) {
	m.keyvals.Subscribe(o)
}

// Unsubscribe removes an observer.
func (m *Manager) Unsubscribe(o pool.Observer) {
	m.keyvals.Unsubscribe(o)
}

// DupAttributes runs the installed duplication hook. Before any keyval exists
// no attribute can exist either, so an unbound hook yields an empty list.
func (m *Manager) DupAttributes(owner, newOwner handle.Handle, src List) (List, error) {
	dup := m.hooks.Dup()
	if dup == nil {
		return nil, nil
	}
	return dup(m, owner, newOwner, src)
}

// DeleteAttributes runs the installed teardown hook.
func (m *Manager) DeleteAttributes(owner handle.Handle, list List) error {
	free := m.hooks.Free()
	if free == nil {
		return nil
	}
	return free(m, owner, list)
}

// checkRelease rejects a release that would consume the creation reference
// of a keyval the user has not freed.
func checkRelease(kv *Keyval) error {
	if kv.wasFreed || kv.refcount > 1 {
		return nil
	}
	return errors.New(errors.PhaseKeyval, errors.KindInvalidHandle).
		Handle(kv.Handle).
		Detail("no attribute reference to release").
		Build()
}

func (m *Manager) release(kv *Keyval) {
	kv.refcount--
	if kv.refcount > 0 {
		return
	}
	m.keyvals.Release(kv.Handle)
	Logger().Debug("keyval released", zap.Stringer("handle", kv.Handle))
}
