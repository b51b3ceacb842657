package errors

import (
	"errors"
	"strings"
	"testing"
)

type name string

func (n name) String() string { return string(n) }

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseKeyval,
				Kind:   KindInvalidArgument,
				Arg:    "win_keyval",
				Handle: "window-keyval/direct#1.0",
				Detail: "null argument",
			},
			contains: []string{"[keyval]", "invalid_argument", "win_keyval", "window-keyval/direct#1.0", "null argument"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhasePool,
				Kind:  KindOutOfMemory,
			},
			contains: []string{"[pool]", "out_of_memory"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseTyperep,
				Kind:   KindInternal,
				Detail: "engine query failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[typerep]", "internal", "engine query failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseTyperep,
		Kind:  KindInternal,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseKeyval,
		Kind:  KindOutOfMemory,
		Arg:   "x",
	}

	if !err.Is(&Error{Phase: PhaseKeyval, Kind: KindOutOfMemory}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhasePool, Kind: KindOutOfMemory}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseKeyval, Kind: KindInternal}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrOutOfMemory) {
		t.Error("sentinel without phase should match any phase")
	}
	if errors.Is(err, ErrArgument) {
		t.Error("sentinel of a different kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDatatype, KindInvalidHandle).
		Arg("datatype").
		Handle(name("datatype/builtin#7.0")).
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "datatype", "keyval").
		Build()

	if err.Phase != PhaseDatatype {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDatatype)
	}
	if err.Kind != KindInvalidHandle {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidHandle)
	}
	if err.Arg != "datatype" {
		t.Errorf("Arg = %v, want 'datatype'", err.Arg)
	}
	if err.Handle != "datatype/builtin#7.0" {
		t.Errorf("Handle = %v", err.Handle)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected datatype, got keyval" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NullArgument", func(t *testing.T) {
		err := NullArgument(PhaseKeyval, "win_keyval")
		if err.Kind != KindInvalidArgument || err.Arg != "win_keyval" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("OutOfMemory", func(t *testing.T) {
		err := OutOfMemory(PhasePool, "keyval", 16)
		if err.Kind != KindOutOfMemory {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfMemory)
		}
		if !strings.Contains(err.Detail, "16") {
			t.Errorf("Detail = %v, should contain capacity", err.Detail)
		}
	})

	t.Run("Internal", func(t *testing.T) {
		cause := errors.New("engine")
		err := Internal(PhaseTyperep, "free failed", cause)
		if err.Kind != KindInternal || !errors.Is(err, cause) {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("InvalidHandle", func(t *testing.T) {
		err := InvalidHandle(PhaseKeyval, name("h"), "window-keyval")
		if err.Kind != KindInvalidHandle || err.Handle != "h" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Callback", func(t *testing.T) {
		cause := errors.New("user")
		err := Callback(PhaseAttr, name("k"), cause)
		if err.Kind != KindCallback || !errors.Is(err, cause) {
			t.Errorf("got %+v", err)
		}
	})
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, Success},
		{"foreign", errors.New("x"), ErrOther},
		{"argument", NullArgument(PhaseKeyval, "k"), ErrArg},
		{"out of memory", OutOfMemory(PhasePool, "keyval", 1), ErrOther},
		{"internal", Internal(PhaseTyperep, "x", nil), ErrIntern},
		{"bad keyval", InvalidHandle(PhaseKeyval, name("k"), "keyval"), ErrKeyval},
		{"bad datatype", InvalidHandle(PhaseDatatype, name("d"), "datatype"), ErrType},
		{"wrapped", Wrap(PhaseRuntime, KindInternal, errors.New("x"), "wrapped"), ErrIntern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
