package typerep

import "fmt"

// Type is a handle into a representation engine.
// TypeNull is reserved and always invalid.
type Type uint64

const TypeNull Type = 0

// Predefined representations. They are shared by every process and owned by
// no datatype object, so they are never freed.
const (
	TypeChar Type = iota + 1
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeLongDouble
	TypeByte
	TypeFloatInt
	TypeDoubleInt
	TypeLongInt
	TypeShortInt
	TypeLongDoubleInt

	numStatic
)

// dynamicBit marks engine-allocated representations.
const dynamicBit Type = 1 << 63

// IsStatic reports whether t is one of the predefined representations.
func IsStatic(t Type) bool {
	return t != TypeNull && t < numStatic
}

// IsPair reports whether t is one of the value+index pair representations.
func IsPair(t Type) bool {
	return t >= TypeFloatInt && t <= TypeLongDoubleInt
}

func (t Type) String() string {
	if IsStatic(t) {
		return staticLayouts[t].name
	}
	if t&dynamicBit != 0 {
		idx, gen := decodeDynamic(t)
		return fmt.Sprintf("dynamic#%d.%d", idx, gen)
	}
	return fmt.Sprintf("typerep(0x%x)", uint64(t))
}

func encodeDynamic(idx, gen uint32) Type {
	return dynamicBit | Type(gen)<<32 | Type(idx)
}

func decodeDynamic(t Type) (idx, gen uint32) {
	return uint32(t), uint32(t>>32) &^ uint32(dynamicBit>>32)
}

// Engine is the interface consumed by datatype objects.
type Engine interface {
	// IOVLen returns the number of contiguous memory runs occupied by count
	// consecutive instances of t.
	IOVLen(count uint64, t Type) (uint64, error)

	// Free releases an engine-allocated representation.
	Free(t Type) error
}

// Constructor extends Engine with the type construction calls used by the
// general datatype construction path.
type Constructor interface {
	Engine

	// Contiguous replicates old count times.
	Contiguous(count int, old Type) (Type, error)

	// Vector places count blocks of blocklen elements, stride elements apart.
	Vector(count, blocklen, stride int, old Type) (Type, error)

	// Indexed places blocks at displacements measured in old extents.
	Indexed(blocklens, displs []int, old Type) (Type, error)

	// Struct places blocks of possibly different types at byte displacements.
	Struct(blocklens []int, displs []int64, types []Type) (Type, error)

	// Dup creates a new representation with the same layout as old.
	Dup(old Type) (Type, error)

	// Size returns the number of data bytes in one instance.
	Size(t Type) (int64, error)

	// Extent returns the span of one instance in bytes.
	Extent(t Type) (int64, error)
}
