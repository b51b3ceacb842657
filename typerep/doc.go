// Package typerep defines the datatype representation engine consumed by datatype objects.
//
// An engine materializes a datatype's memory layout behind an opaque Type
// handle. Datatype objects only ever use two calls:
//
//	n, err := engine.IOVLen(1, t) // contiguous block count of one instance
//	err := engine.Free(t)         // release an engine-allocated representation
//
// # Static representations
//
// The predefined representations (TypeInt, TypeFloatInt, ...) are shared by
// every datatype object and are never freed. IsStatic identifies them.
//
// # LocalEngine
//
// LocalEngine is the in-memory engine used by the runtime. It also implements
// Constructor, which the general datatype construction path uses:
//
//	eng := typerep.NewLocalEngine()
//	vec, _ := eng.Vector(3, 2, 4, typerep.TypeInt) // 3 runs of 8 bytes
//	n, _ := eng.IOVLen(1, vec)                     // 3
//	_ = eng.Free(vec)
package typerep
