package datatype

import (
	"go.uber.org/zap"

	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/typerep"
)

// Binder commits and frees datatype representations against an engine.
// Not safe for concurrent use; callers hold the process critical section.
type Binder struct {
	engine typerep.Engine
}

// NewBinder creates a binder for the given engine.
func NewBinder(engine typerep.Engine) *Binder {
	return &Binder{engine: engine}
}

// Commit binds a predefined pair type to its static representation and caches
// its contiguous block count. Other datatypes are left untouched: their
// representation is bound by the construction path.
//
// Calling Commit again on a pair type re-derives the same binding.
func (b *Binder) Commit(dt *Datatype) error {
	p, ok := pairs[dt.Handle]
	if !ok {
		return nil
	}

	n, err := b.engine.IOVLen(1, p.Rep)
	if err != nil {
		return errors.New(errors.PhaseTyperep, errors.KindInternal).
			Handle(dt.Handle).
			Detail("query contiguous block count of %s", p.Name).
			Cause(err).
			Build()
	}
	dt.Typerep = Binding{Rep: p.Rep, NumContigBlocks: int64(n)}

	if int64(n) != p.Blocks {
		Logger().Warn("unexpected block count for predefined pair type",
			zap.String("type", p.Name),
			zap.Uint64("blocks", n),
			zap.Int64("expected", p.Blocks))
	}
	return nil
}

// Free releases the representation bound to dt. Static representations are
// owned by no datatype object and are left alone. The binding is cleared
// whether or not the engine succeeds.
func (b *Binder) Free(dt *Datatype) error {
	rep := dt.Typerep.Rep
	if rep == typerep.TypeNull || typerep.IsStatic(rep) {
		return nil
	}

	dt.Typerep = Binding{}
	if err := b.engine.Free(rep); err != nil {
		return errors.New(errors.PhaseTyperep, errors.KindInternal).
			Handle(dt.Handle).
			Detail("free representation %s", rep).
			Cause(err).
			Build()
	}
	return nil
}
