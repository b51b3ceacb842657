package datatype

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
	"github.com/wippyai/mpi-runtime/pool"
	"github.com/wippyai/mpi-runtime/typerep"
)

// Registry owns the predefined datatype objects and the pool of derived ones.
// Not safe for concurrent use; callers hold the process critical section.
type Registry struct {
	engine   typerep.Constructor
	binder   *Binder
	types    *pool.Pool[Datatype]
	builtins map[handle.Handle]*Datatype
}

// NewRegistry creates a registry whose derived datatypes are built by engine.
func NewRegistry(engine typerep.Constructor, capacity int) *Registry {
	r := &Registry{
		engine:   engine,
		binder:   NewBinder(engine),
		types:    pool.New[Datatype](handle.ObjectDatatype, capacity),
		builtins: make(map[handle.Handle]*Datatype, len(primitives)+len(pairs)),
	}
	for h, p := range primitives {
		r.builtins[h] = &Datatype{
			Handle:    h,
			Name:      p.name,
			Typerep:   Binding{Rep: p.rep, NumContigBlocks: 1},
			Committed: true,
		}
	}
	for h, p := range pairs {
		r.builtins[h] = &Datatype{Handle: h, Name: p.Name}
	}
	return r
}

// Get returns the datatype object named by h.
func (r *Registry) Get(h handle.Handle) (*Datatype, error) {
	if h.IsBuiltin() {
		if dt, ok := r.builtins[h]; ok {
			return dt, nil
		}
	} else if dt, ok := r.types.Get(h); ok {
		return dt, nil
	}
	return nil, errors.InvalidHandle(errors.PhaseDatatype, h, "datatype")
}

// Commit commits the datatype named by h.
func (r *Registry) Commit(h handle.Handle) error {
	dt, err := r.Get(h)
	if err != nil {
		return err
	}
	if err := r.binder.Commit(dt); err != nil {
		return err
	}
	dt.Committed = true
	Logger().Debug("datatype committed",
		zap.Stringer("handle", h),
		zap.Stringer("rep", dt.Typerep.Rep),
		zap.Int64("blocks", dt.Typerep.NumContigBlocks))
	return nil
}

// FreeRepresentation releases the representation bound to the datatype named by h.
func (r *Registry) FreeRepresentation(h handle.Handle) error {
	dt, err := r.Get(h)
	if err != nil {
		return err
	}
	return r.binder.Free(dt)
}

// Contiguous creates a datatype of count consecutive old elements.
func (r *Registry) Contiguous(count int, old handle.Handle) (handle.Handle, error) {
	base, err := r.repOf(old)
	if err != nil {
		return handle.Null, err
	}
	return r.derive(fmt.Sprintf("contiguous(%d)", count), func() (typerep.Type, error) {
		return r.engine.Contiguous(count, base)
	})
}

// Vector creates a strided datatype.
func (r *Registry) Vector(count, blocklen, stride int, old handle.Handle) (handle.Handle, error) {
	base, err := r.repOf(old)
	if err != nil {
		return handle.Null, err
	}
	return r.derive(fmt.Sprintf("vector(%d,%d,%d)", count, blocklen, stride), func() (typerep.Type, error) {
		return r.engine.Vector(count, blocklen, stride, base)
	})
}

// Indexed creates a datatype from blocks at displacements counted in old extents.
func (r *Registry) Indexed(blocklens, displs []int, old handle.Handle) (handle.Handle, error) {
	base, err := r.repOf(old)
	if err != nil {
		return handle.Null, err
	}
	return r.derive(fmt.Sprintf("indexed(%d)", len(blocklens)), func() (typerep.Type, error) {
		return r.engine.Indexed(blocklens, displs, base)
	})
}

// Struct creates a datatype from typed blocks at byte displacements.
func (r *Registry) Struct(blocklens []int, displs []int64, types []handle.Handle) (handle.Handle, error) {
	reps := make([]typerep.Type, len(types))
	for i, t := range types {
		rep, err := r.repOf(t)
		if err != nil {
			return handle.Null, err
		}
		reps[i] = rep
	}
	return r.derive(fmt.Sprintf("struct(%d)", len(blocklens)), func() (typerep.Type, error) {
		return r.engine.Struct(blocklens, displs, reps)
	})
}

// Dup creates a datatype with the same layout as old.
func (r *Registry) Dup(old handle.Handle) (handle.Handle, error) {
	base, err := r.repOf(old)
	if err != nil {
		return handle.Null, err
	}
	return r.derive("dup", func() (typerep.Type, error) {
		return r.engine.Dup(base)
	})
}

// Free destroys a derived datatype. The slot is released even when the
// engine fails to free the representation; that failure is returned.
func (r *Registry) Free(h handle.Handle) error {
	if h.IsBuiltin() {
		return errors.InvalidArgument(errors.PhaseDatatype, "datatype", h, "predefined datatypes cannot be freed")
	}
	dt, ok := r.types.Get(h)
	if !ok {
		return errors.InvalidHandle(errors.PhaseDatatype, h, "datatype")
	}
	err := r.binder.Free(dt)
	r.types.Release(h)
	Logger().Debug("datatype freed", zap.Stringer("handle", h), zap.Error(err))
	return err
}

// Len returns the number of live derived datatypes.
func (r *Registry) Len() int {
	return r.types.Len()
}

// Each iterates over live derived datatypes.
func (r *Registry) Each(fn func(*Datatype) bool) {
	r.types.Each(func(_ handle.Handle, dt *Datatype) bool {
		return fn(dt)
	})
}

// Subscribe adds an observer for derived datatype allocation events.
func (r *Registry) Subscribe(o pool.Observer) {
	r.types.Subscribe(o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o pool.Observer) {
	r.types.Unsubscribe(o)
}

// repOf resolves the representation a derived type is built from.
// Predefined pair types resolve to their static representation even before
// they are committed.
func (r *Registry) repOf(h handle.Handle) (typerep.Type, error) {
	dt, err := r.Get(h)
	if err != nil {
		return typerep.TypeNull, err
	}
	if dt.Typerep.Rep != typerep.TypeNull {
		return dt.Typerep.Rep, nil
	}
	if p, ok := pairs[h]; ok {
		return p.Rep, nil
	}
	return typerep.TypeNull, errors.InvalidArgument(errors.PhaseDatatype, "oldtype", h, "datatype has no representation")
}

func (r *Registry) derive(name string, build func() (typerep.Type, error)) (handle.Handle, error) {
	rep, err := build()
	if err != nil {
		return handle.Null, engineError(name, err)
	}

	n, err := r.engine.IOVLen(1, rep)
	if err != nil {
		r.discard(rep)
		return handle.Null, errors.Internal(errors.PhaseTyperep, "query contiguous block count of "+name, err)
	}

	h, dt, err := r.types.Allocate(handle.Datatype)
	if err != nil {
		r.discard(rep)
		return handle.Null, err
	}
	dt.Handle = h
	dt.Name = name
	dt.Typerep = Binding{Rep: rep, NumContigBlocks: int64(n)}

	Logger().Debug("datatype created",
		zap.Stringer("handle", h),
		zap.String("name", name),
		zap.Uint64("blocks", n))
	return h, nil
}

func (r *Registry) discard(rep typerep.Type) {
	if err := r.engine.Free(rep); err != nil {
		Logger().Warn("failed to discard representation",
			zap.Stringer("rep", rep),
			zap.Error(err))
	}
}

func engineError(name string, err error) error {
	switch {
	case stderrors.Is(err, typerep.ErrInvalidArgument):
		return errors.Wrap(errors.PhaseDatatype, errors.KindInvalidArgument, err, name)
	case stderrors.Is(err, typerep.ErrUnknownType):
		return errors.Wrap(errors.PhaseDatatype, errors.KindInvalidHandle, err, name)
	default:
		return errors.Internal(errors.PhaseTyperep, name, err)
	}
}
