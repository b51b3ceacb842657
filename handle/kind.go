package handle

// Object identifies an object class. Values match the MPICH object kinds.
type Object uint8

const (
	ObjectNone Object = iota
	ObjectComm
	ObjectGroup
	ObjectDatatype
	ObjectFile
	ObjectErrhandler
	ObjectOp
	ObjectInfo
	ObjectWin
	ObjectKeyval
	ObjectAttr
	ObjectRequest
)

var objectNames = [...]string{
	ObjectNone:       "none",
	ObjectComm:       "communicator",
	ObjectGroup:      "group",
	ObjectDatatype:   "datatype",
	ObjectFile:       "file",
	ObjectErrhandler: "errhandler",
	ObjectOp:         "op",
	ObjectInfo:       "info",
	ObjectWin:        "window",
	ObjectKeyval:     "keyval",
	ObjectAttr:       "attr",
	ObjectRequest:    "request",
}

func (o Object) String() string {
	if int(o) < len(objectNames) {
		return objectNames[o]
	}
	return "unknown"
}

// Kind is the discriminant carried by a handle: the object class, and for
// keyvals the class of object the key attaches to.
type Kind uint8

// Well-known kinds.
var (
	CommKeyval     = KeyvalKind(ObjectComm)
	WinKeyval      = KeyvalKind(ObjectWin)
	DatatypeKeyval = KeyvalKind(ObjectDatatype)
	Datatype       = ObjectKind(ObjectDatatype)
)

// MakeKind combines an object class and an owner class.
func MakeKind(object, owner Object) Kind {
	return Kind(object&objMask)<<4 | Kind(owner&ownerMask)
}

// ObjectKind returns the kind of a plain (non-keyval) object.
func ObjectKind(object Object) Kind {
	return MakeKind(object, ObjectNone)
}

// KeyvalKind returns the kind of a keyval attaching to owner objects.
func KeyvalKind(owner Object) Kind {
	return MakeKind(ObjectKeyval, owner)
}

func (k Kind) Object() Object {
	return Object(k >> 4)
}

func (k Kind) Owner() Object {
	return Object(k & ownerMask)
}

func (k Kind) IsKeyval() bool {
	return k.Object() == ObjectKeyval
}

func (k Kind) String() string {
	if k.IsKeyval() {
		return k.Owner().String() + "-keyval"
	}
	return k.Object().String()
}
