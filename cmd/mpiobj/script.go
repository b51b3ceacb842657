package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/datatype"
	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
	"github.com/wippyai/mpi-runtime/runtime"
)

// scenario is a scripted sequence of object operations:
//
//	steps:
//	  - op: create_win_keyval
//	    name: cache
//	    copy: dup
//	    extra: 42
//	  - op: commit
//	    type: MPI_DOUBLE_INT
//	  - op: contiguous
//	    name: row
//	    type: MPI_INT
//	    count: 4
//	  - op: type_free
//	    name: row
//	  - op: free_win_keyval
//	    name: cache
//	  - op: expect
//	    keyvals: 0
//	    datatypes: 0
type scenario struct {
	Steps []step `yaml:"steps"`
}

type step struct {
	Extra       any    `yaml:"extra"`
	Keyvals     *int   `yaml:"keyvals"`
	Datatypes   *int   `yaml:"datatypes"`
	Op          string `yaml:"op"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Copy        string `yaml:"copy"`
	Delete      string `yaml:"delete"`
	ExpectError string `yaml:"expect_error"`
	Count       int    `yaml:"count"`
	Blocklen    int    `yaml:"blocklen"`
	Stride      int    `yaml:"stride"`
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (*scenario, error) {
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i, s := range sc.Steps {
		if s.Op == "" {
			return nil, fmt.Errorf("step %d: missing op", i+1)
		}
	}
	return &sc, nil
}

// Run executes the steps against p, writing one line per step to w.
// A step whose error class differs from expect_error stops the run.
func (sc *scenario) Run(p *runtime.Process, w io.Writer) error {
	env := &scriptEnv{
		p:     p,
		names: make(map[string]handle.Handle),
		types: make(map[string]handle.Handle),
	}
	for _, h := range datatype.Predefined() {
		if info, err := p.DatatypeInfo(h); err == nil {
			env.types[info.Name] = h
		}
	}

	for i, s := range sc.Steps {
		err := env.exec(s)
		var mismatch *mismatchError
		if stderrors.As(err, &mismatch) {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
		got := errors.CodeOf(err)
		want := errors.Success
		if s.ExpectError != "" {
			c, ok := codeByName(s.ExpectError)
			if !ok {
				return fmt.Errorf("step %d: unknown error class %q", i+1, s.ExpectError)
			}
			want = c
		}
		if got != want {
			if err == nil {
				return fmt.Errorf("step %d (%s): succeeded, want %s", i+1, s.Op, want)
			}
			return fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}

		if err != nil {
			fmt.Fprintf(w, "%3d %-20s %s\n", i+1, s.Op, errorStyle.Render(got.String()))
		} else {
			fmt.Fprintf(w, "%3d %-20s %s\n", i+1, s.Op, resultStyle.Render(env.last))
		}
	}
	return nil
}

// mismatchError reports a failed expect step. It never matches expect_error.
type mismatchError struct {
	msg string
}

func (e *mismatchError) Error() string {
	return "expectation failed: " + e.msg
}

type scriptEnv struct {
	p     *runtime.Process
	names map[string]handle.Handle
	types map[string]handle.Handle
	last  string
}

func (e *scriptEnv) exec(s step) error {
	e.last = "ok"
	switch s.Op {
	case "create_win_keyval", "create_comm_keyval", "create_type_keyval":
		copyFn, err := copyByName(s.Copy)
		if err != nil {
			return err
		}
		deleteFn, err := deleteByName(s.Delete)
		if err != nil {
			return err
		}
		var h handle.Handle
		switch s.Op {
		case "create_win_keyval":
			err = e.p.CreateWinKeyval(copyFn, deleteFn, &h, s.Extra)
		case "create_comm_keyval":
			err = e.p.CreateCommKeyval(copyFn, deleteFn, &h, s.Extra)
		default:
			err = e.p.CreateTypeKeyval(copyFn, deleteFn, &h, s.Extra)
		}
		if err != nil {
			return err
		}
		e.bind(s.Name, h)
		return nil

	case "free_win_keyval", "free_comm_keyval", "free_type_keyval":
		h, ok := e.names[s.Name]
		if !ok {
			return errors.NotFound(errors.PhaseRuntime, "keyval", s.Name)
		}
		var err error
		switch s.Op {
		case "free_win_keyval":
			err = e.p.FreeWinKeyval(&h)
		case "free_comm_keyval":
			err = e.p.FreeCommKeyval(&h)
		default:
			err = e.p.FreeTypeKeyval(&h)
		}
		e.names[s.Name] = h
		return err

	case "commit":
		h, err := e.datatype(s.Type)
		if err != nil {
			return err
		}
		if err := e.p.CommitDatatypeRepresentation(h); err != nil {
			return err
		}
		info, _ := e.p.DatatypeInfo(h)
		e.last = fmt.Sprintf("%s rep=%s blocks=%d", info.Name, info.Rep, info.NumContigBlocks)
		return nil

	case "free_rep":
		h, err := e.datatype(s.Type)
		if err != nil {
			return err
		}
		return e.p.FreeDatatypeRepresentation(h)

	case "contiguous", "vector", "dup":
		old, err := e.datatype(s.Type)
		if err != nil {
			return err
		}
		var h handle.Handle
		switch s.Op {
		case "contiguous":
			err = e.p.TypeContiguous(s.Count, old, &h)
		case "vector":
			err = e.p.TypeVector(s.Count, s.Blocklen, s.Stride, old, &h)
		default:
			err = e.p.TypeDup(old, &h)
		}
		if err != nil {
			return err
		}
		e.types[s.Name] = h
		e.bind(s.Name, h)
		return nil

	case "type_free":
		h, err := e.datatype(s.Name)
		if err != nil {
			return err
		}
		if err := e.p.TypeFree(&h); err != nil {
			return err
		}
		delete(e.types, s.Name)
		return nil

	case "expect":
		st := e.p.Stats()
		if s.Keyvals != nil && st.Keyvals != *s.Keyvals {
			return &mismatchError{fmt.Sprintf("keyvals = %d, want %d", st.Keyvals, *s.Keyvals)}
		}
		if s.Datatypes != nil && st.Datatypes != *s.Datatypes {
			return &mismatchError{fmt.Sprintf("datatypes = %d, want %d", st.Datatypes, *s.Datatypes)}
		}
		e.last = fmt.Sprintf("keyvals=%d datatypes=%d", st.Keyvals, st.Datatypes)
		return nil

	default:
		return errors.Unsupported(errors.PhaseRuntime, "scenario op "+s.Op)
	}
}

func (e *scriptEnv) bind(name string, h handle.Handle) {
	if name != "" {
		e.names[name] = h
	}
	e.last = h.String()
}

func (e *scriptEnv) datatype(name string) (handle.Handle, error) {
	h, ok := e.types[name]
	if !ok {
		return handle.Null, errors.NotFound(errors.PhaseRuntime, "datatype", name)
	}
	return h, nil
}

func copyByName(name string) (attr.CopyFunc, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "null":
		return attr.NullCopyFn, nil
	case "dup":
		return attr.DupFn, nil
	}
	return nil, errors.InvalidArgument(errors.PhaseRuntime, "copy", name, "expected none, null or dup")
}

func deleteByName(name string) (attr.DeleteFunc, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "null":
		return attr.NullDeleteFn, nil
	}
	return nil, errors.InvalidArgument(errors.PhaseRuntime, "delete", name, "expected none or null")
}

func codeByName(name string) (errors.Code, bool) {
	for _, c := range []errors.Code{
		errors.Success, errors.ErrType, errors.ErrArg,
		errors.ErrOther, errors.ErrIntern, errors.ErrKeyval,
	} {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}
