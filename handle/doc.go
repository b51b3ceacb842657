// Package handle defines the opaque integer identity shared by every runtime object.
//
// A handle packs a class (builtin, direct or indirect), an object kind, an
// owner kind used by keyvals, a slot generation and a slot index:
//
//	h := handle.New(handle.ClassDirect, handle.WinKeyval, 0, 7)
//	h.Kind() == handle.WinKeyval // true
//	h.Index()                    // 7
//
// The layout is the only externally visible identity of an object and stays
// stable for the object's lifetime. All encoding and decoding goes through
// New and the accessors on Handle; callers never shift bits themselves.
package handle
