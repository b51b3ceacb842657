package datatype

import (
	"github.com/wippyai/mpi-runtime/handle"
	"github.com/wippyai/mpi-runtime/typerep"
)

// Binding ties a datatype object to its engine representation.
type Binding struct {
	Rep             typerep.Type
	NumContigBlocks int64
}

// Datatype is a datatype object.
type Datatype struct {
	Name      string
	Typerep   Binding
	Handle    handle.Handle
	Committed bool
}

// Predefined datatypes.
var (
	Char       = handle.Builtin(handle.Datatype, 1)
	Short      = handle.Builtin(handle.Datatype, 2)
	Int        = handle.Builtin(handle.Datatype, 3)
	Long       = handle.Builtin(handle.Datatype, 4)
	Float      = handle.Builtin(handle.Datatype, 5)
	Double     = handle.Builtin(handle.Datatype, 6)
	LongDouble = handle.Builtin(handle.Datatype, 7)
	Byte       = handle.Builtin(handle.Datatype, 8)

	FloatInt      = handle.Builtin(handle.Datatype, 0x40)
	DoubleInt     = handle.Builtin(handle.Datatype, 0x41)
	LongInt       = handle.Builtin(handle.Datatype, 0x42)
	ShortInt      = handle.Builtin(handle.Datatype, 0x43)
	LongDoubleInt = handle.Builtin(handle.Datatype, 0x44)
)

type primitive struct {
	name string
	rep  typerep.Type
}

var primitives = map[handle.Handle]primitive{
	Char:       {"MPI_CHAR", typerep.TypeChar},
	Short:      {"MPI_SHORT", typerep.TypeShort},
	Int:        {"MPI_INT", typerep.TypeInt},
	Long:       {"MPI_LONG", typerep.TypeLong},
	Float:      {"MPI_FLOAT", typerep.TypeFloat},
	Double:     {"MPI_DOUBLE", typerep.TypeDouble},
	LongDouble: {"MPI_LONG_DOUBLE", typerep.TypeLongDouble},
	Byte:       {"MPI_BYTE", typerep.TypeByte},
}

// PairRep is the static representation bound to a predefined pair type.
type PairRep struct {
	Name   string
	Rep    typerep.Type
	Blocks int64
}

// pairs maps each predefined value+index pair type to its static
// representation and the block count one instance is known to occupy.
var pairs = map[handle.Handle]PairRep{
	FloatInt:      {"MPI_FLOAT_INT", typerep.TypeFloatInt, 1},
	DoubleInt:     {"MPI_DOUBLE_INT", typerep.TypeDoubleInt, 1},
	LongInt:       {"MPI_LONG_INT", typerep.TypeLongInt, 1},
	ShortInt:      {"MPI_SHORT_INT", typerep.TypeShortInt, 1},
	LongDoubleInt: {"MPI_LONG_DOUBLE_INT", typerep.TypeLongDoubleInt, 1},
}

// Pair returns the static representation of a predefined pair type.
func Pair(h handle.Handle) (PairRep, bool) {
	p, ok := pairs[h]
	return p, ok
}

// Pairs returns the predefined pair type handles.
func Pairs() []handle.Handle {
	return []handle.Handle{FloatInt, DoubleInt, LongInt, ShortInt, LongDoubleInt}
}

// Predefined returns every predefined datatype handle.
func Predefined() []handle.Handle {
	return append([]handle.Handle{Char, Short, Int, Long, Float, Double, LongDouble, Byte}, Pairs()...)
}
