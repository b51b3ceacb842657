package handle

import "fmt"

// Handle is an opaque reference to a runtime object.
// Handle 0 is reserved and always invalid.
//
// Layout:
//
//	bits 30-31  class
//	bits 26-29  object
//	bits 22-25  owner (keyvals only)
//	bits 16-21  generation
//	bits  0-15  index
type Handle uint32

const (
	classShift = 30
	objShift   = 26
	ownerShift = 22
	genShift   = 16

	classMask = 0x3
	objMask   = 0xf
	ownerMask = 0xf
	genMask   = 0x3f
	indexMask = 0xffff
)

// MaxIndex is the largest slot index a handle can carry.
const MaxIndex = indexMask

// MaxGeneration is the largest generation a handle can carry.
const MaxGeneration = genMask

// Null is the invalid handle.
const Null Handle = 0

// KeyvalInvalid is written back to a keyval location after the keyval is freed.
const KeyvalInvalid Handle = Handle(ClassBuiltin)<<classShift | Handle(ObjectKeyval)<<objShift

// Class tells where the object backing a handle lives.
type Class uint8

const (
	ClassInvalid Class = iota
	ClassBuiltin
	ClassDirect
	ClassIndirect
)

func (c Class) String() string {
	switch c {
	case ClassBuiltin:
		return "builtin"
	case ClassDirect:
		return "direct"
	case ClassIndirect:
		return "indirect"
	default:
		return "invalid"
	}
}

// New packs a handle. Out of range fields are truncated.
func New(class Class, kind Kind, gen uint8, index uint16) Handle {
	return Handle(class&classMask)<<classShift |
		Handle(kind.Object()&objMask)<<objShift |
		Handle(kind.Owner()&ownerMask)<<ownerShift |
		Handle(gen&genMask)<<genShift |
		Handle(index)
}

// Builtin returns the handle of a predefined object.
func Builtin(kind Kind, index uint16) Handle {
	return New(ClassBuiltin, kind, 0, index)
}

func (h Handle) Class() Class {
	return Class(h>>classShift) & classMask
}

func (h Handle) Object() Object {
	return Object(h>>objShift) & objMask
}

func (h Handle) Owner() Object {
	return Object(h>>ownerShift) & ownerMask
}

// Kind returns the discriminant (object, owner) encoded in the handle.
func (h Handle) Kind() Kind {
	return MakeKind(h.Object(), h.Owner())
}

func (h Handle) Generation() uint8 {
	return uint8(h>>genShift) & genMask
}

func (h Handle) Index() uint16 {
	return uint16(h & indexMask)
}

// Valid reports whether h could name a live object.
func (h Handle) Valid() bool {
	return h.Class() != ClassInvalid && h.Object() != ObjectNone
}

func (h Handle) IsBuiltin() bool {
	return h.Class() == ClassBuiltin
}

func (h Handle) String() string {
	if !h.Valid() {
		return fmt.Sprintf("invalid(0x%08x)", uint32(h))
	}
	return fmt.Sprintf("%s/%s#%d.%d", h.Kind(), h.Class(), h.Index(), h.Generation())
}
