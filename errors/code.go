package errors

import stderrors "errors"

// Code is an MPI error class.
type Code int

// Error classes reported at the API boundary. Values follow mpi.h.
const (
	Success   Code = 0
	ErrType   Code = 3
	ErrArg    Code = 12
	ErrOther  Code = 15
	ErrIntern Code = 16
	ErrKeyval Code = 48
)

func (c Code) String() string {
	switch c {
	case Success:
		return "MPI_SUCCESS"
	case ErrType:
		return "MPI_ERR_TYPE"
	case ErrArg:
		return "MPI_ERR_ARG"
	case ErrOther:
		return "MPI_ERR_OTHER"
	case ErrIntern:
		return "MPI_ERR_INTERN"
	case ErrKeyval:
		return "MPI_ERR_KEYVAL"
	default:
		return "MPI_ERR_UNKNOWN"
	}
}

// CodeOf maps err to its error class. A nil error is Success and errors
// that did not originate in this module are ErrOther.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if !stderrors.As(err, &e) {
		return ErrOther
	}
	switch e.Kind {
	case KindInvalidArgument:
		return ErrArg
	case KindInternal:
		return ErrIntern
	case KindInvalidHandle:
		switch e.Phase {
		case PhaseKeyval, PhaseAttr:
			return ErrKeyval
		case PhaseDatatype, PhaseTyperep:
			return ErrType
		}
		return ErrArg
	default:
		// MPICH reports exhausted object pools as MPI_ERR_OTHER ("**nomem").
		return ErrOther
	}
}
