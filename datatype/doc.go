// Package datatype binds datatype objects to representation engine handles.
//
// Every datatype object carries a Binding: the engine representation and the
// number of contiguous memory runs one instance occupies. The Binder owns the
// two lifecycle calls:
//
//   - Commit binds the predefined pair types (MPI_FLOAT_INT, MPI_DOUBLE_INT,
//     MPI_LONG_INT, MPI_SHORT_INT, MPI_LONG_DOUBLE_INT) to their static
//     representations and caches the block count reported by the engine.
//   - Free releases engine-allocated representations exactly once and never
//     touches static ones.
//
// Any engine failure during either call is reported as an internal error.
//
// The Registry holds the predefined datatype objects and the pool of derived
// datatypes built through Contiguous, Vector, Indexed, Struct and Dup.
package datatype
