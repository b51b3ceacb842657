package runtime

import (
	stderrors "errors"

	"github.com/wippyai/mpi-runtime/datatype"
	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
	"github.com/wippyai/mpi-runtime/typerep"
)

// DatatypeInfo is a read-only snapshot of a datatype object.
type DatatypeInfo struct {
	Name            string
	Handle          handle.Handle
	Rep             typerep.Type
	NumContigBlocks int64
	Committed       bool
	Builtin         bool
}

func datatypeInfo(dt *datatype.Datatype) DatatypeInfo {
	return DatatypeInfo{
		Name:            dt.Name,
		Handle:          dt.Handle,
		Rep:             dt.Typerep.Rep,
		NumContigBlocks: dt.Typerep.NumContigBlocks,
		Committed:       dt.Committed,
		Builtin:         dt.Handle.IsBuiltin(),
	}
}

// CommitDatatypeRepresentation binds the engine representation of the
// datatype named by h. Predefined pair types are bound to their static
// representation; for every other type this is a no-op.
func (p *Process) CommitDatatypeRepresentation(h handle.Handle) error {
	p.cs.Lock()
	defer p.cs.Unlock()
	return p.types.Commit(h)
}

// FreeDatatypeRepresentation releases the representation bound to the
// datatype named by h. Static representations are never handed to the
// engine.
func (p *Process) FreeDatatypeRepresentation(h handle.Handle) error {
	p.cs.Lock()
	defer p.cs.Unlock()
	return p.types.FreeRepresentation(h)
}

// TypeContiguous creates a datatype of count consecutive oldType elements.
func (p *Process) TypeContiguous(count int, oldType handle.Handle, newType *handle.Handle) error {
	return p.derive(newType, func() (handle.Handle, error) {
		return p.types.Contiguous(count, oldType)
	})
}

// TypeVector creates a strided datatype.
func (p *Process) TypeVector(count, blocklen, stride int, oldType handle.Handle, newType *handle.Handle) error {
	return p.derive(newType, func() (handle.Handle, error) {
		return p.types.Vector(count, blocklen, stride, oldType)
	})
}

// TypeIndexed creates a datatype from blocks at displacements counted in
// oldType extents.
func (p *Process) TypeIndexed(blocklens, displs []int, oldType handle.Handle, newType *handle.Handle) error {
	if len(blocklens) != len(displs) {
		return errors.InvalidArgument(errors.PhaseRuntime, "displacements", len(displs), "length differs from block lengths")
	}
	return p.derive(newType, func() (handle.Handle, error) {
		return p.types.Indexed(blocklens, displs, oldType)
	})
}

// TypeStruct creates a datatype from typed blocks at byte displacements.
func (p *Process) TypeStruct(blocklens []int, displs []int64, types []handle.Handle, newType *handle.Handle) error {
	if len(blocklens) != len(displs) || len(blocklens) != len(types) {
		return errors.InvalidArgument(errors.PhaseRuntime, "types", len(types), "argument arrays differ in length")
	}
	return p.derive(newType, func() (handle.Handle, error) {
		return p.types.Struct(blocklens, displs, types)
	})
}

// TypeDup creates a datatype with the same layout as oldType.
func (p *Process) TypeDup(oldType handle.Handle, newType *handle.Handle) error {
	return p.derive(newType, func() (handle.Handle, error) {
		return p.types.Dup(oldType)
	})
}

func (p *Process) derive(out *handle.Handle, build func() (handle.Handle, error)) error {
	p.cs.Lock()
	defer p.cs.Unlock()

	if out == nil {
		return errors.NullArgument(errors.PhaseRuntime, "newtype")
	}
	h, err := build()
	if err != nil {
		return err
	}
	*out = h
	return nil
}

// TypeFree destroys the derived datatype *dt and sets *dt to handle.Null.
// The handle is cleared even when the engine fails to free the
// representation; that failure is returned.
func (p *Process) TypeFree(dt *handle.Handle) error {
	p.cs.Lock()
	defer p.cs.Unlock()

	if dt == nil {
		return errors.NullArgument(errors.PhaseRuntime, "datatype")
	}
	err := p.types.Free(*dt)
	if err == nil || stderrors.Is(err, errors.ErrInternal) {
		*dt = handle.Null
	}
	return err
}

// DatatypeInfo returns a snapshot of the datatype named by h.
func (p *Process) DatatypeInfo(h handle.Handle) (DatatypeInfo, error) {
	p.cs.Lock()
	defer p.cs.Unlock()

	dt, err := p.types.Get(h)
	if err != nil {
		return DatatypeInfo{}, err
	}
	return datatypeInfo(dt), nil
}

// Datatypes returns snapshots of every live derived datatype.
func (p *Process) Datatypes() []DatatypeInfo {
	p.cs.Lock()
	defer p.cs.Unlock()

	out := make([]DatatypeInfo, 0, p.types.Len())
	p.types.Each(func(dt *datatype.Datatype) bool {
		out = append(out, datatypeInfo(dt))
		return true
	})
	return out
}
