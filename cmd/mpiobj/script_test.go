package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wippyai/mpi-runtime/runtime"
)

const lifecycleScenario = `
steps:
  - op: create_win_keyval
    name: cache
    copy: dup
    delete: null
    extra: 42
  - op: create_comm_keyval
    name: comm
  - op: free_comm_keyval
    name: cache
    expect_error: MPI_ERR_KEYVAL
  - op: commit
    type: MPI_LONG_DOUBLE_INT
  - op: contiguous
    name: row
    type: MPI_DOUBLE_INT
    count: 3
  - op: expect
    keyvals: 2
    datatypes: 1
  - op: type_free
    name: row
  - op: type_free
    name: MPI_INT
    expect_error: MPI_ERR_ARG
  - op: free_win_keyval
    name: cache
  - op: free_comm_keyval
    name: comm
  - op: expect
    keyvals: 0
    datatypes: 0
`

func TestScenario_Lifecycle(t *testing.T) {
	sc, err := parseScenario([]byte(lifecycleScenario))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Steps) != 11 {
		t.Fatalf("parsed %d steps, want 11", len(sc.Steps))
	}
	if sc.Steps[0].Extra != 42 {
		t.Errorf("extra = %#v, want 42", sc.Steps[0].Extra)
	}

	var out bytes.Buffer
	if err := sc.Run(runtime.New(nil), &out); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "MPI_LONG_DOUBLE_INT") {
		t.Errorf("commit step not reported:\n%s", out.String())
	}
	if lines := strings.Count(out.String(), "\n"); lines != 11 {
		t.Errorf("got %d output lines, want 11", lines)
	}
}

func TestScenario_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "missing op",
			script: "steps:\n  - name: x\n",
			want:   "missing op",
		},
		{
			name:   "unknown op",
			script: "steps:\n  - op: spawn\n",
			want:   "spawn",
		},
		{
			name:   "unexpected success",
			script: "steps:\n  - op: create_win_keyval\n    expect_error: MPI_ERR_ARG\n",
			want:   "succeeded",
		},
		{
			name:   "unknown error class",
			script: "steps:\n  - op: expect\n    expect_error: MPI_ERR_NOPE\n",
			want:   "unknown error class",
		},
		{
			name:   "failed expectation",
			script: "steps:\n  - op: expect\n    keyvals: 3\n",
			want:   "keyvals = 0, want 3",
		},
		{
			name:   "failed expectation is not an expected internal error",
			script: "steps:\n  - op: expect\n    keyvals: 3\n    expect_error: MPI_ERR_INTERN\n",
			want:   "keyvals = 0, want 3",
		},
		{
			name:   "failed expectation is not an expected other error",
			script: "steps:\n  - op: expect\n    datatypes: 1\n    expect_error: MPI_ERR_OTHER\n",
			want:   "datatypes = 0, want 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := parseScenario([]byte(tt.script))
			if err == nil {
				err = sc.Run(runtime.New(nil), &bytes.Buffer{})
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	p := runtime.New(nil)
	sc, err := parseScenario([]byte("steps:\n  - op: create_win_keyval\n    extra: hello\n  - op: commit\n    type: MPI_FLOAT_INT\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.Run(p, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	out := renderReport(p)
	for _, want := range []string{"extra=hello", "MPI_FLOAT_INT", "blocks=1", "uncommitted"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
