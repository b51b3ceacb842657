package runtime

import (
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
)

func TestCreateWinKeyval(t *testing.T) {
	p := New(nil)

	var kv handle.Handle
	if err := p.CreateWinKeyval(attr.DupFn, attr.NullDeleteFn, &kv, 42); err != nil {
		t.Fatalf("CreateWinKeyval: %v", err)
	}

	if kv.Kind() != handle.WinKeyval {
		t.Fatalf("Kind() = %v, want %v", kv.Kind(), handle.WinKeyval)
	}
	if kv.Class() != handle.ClassDirect {
		t.Errorf("Class() = %v, want direct", kv.Class())
	}

	info, err := p.KeyvalInfo(kv)
	if err != nil {
		t.Fatal(err)
	}
	if info.RefCount != 1 || info.WasFreed {
		t.Errorf("refcount=%d wasFreed=%v, want 1 false", info.RefCount, info.WasFreed)
	}
	if info.ExtraState != 42 {
		t.Errorf("ExtraState = %v, want 42", info.ExtraState)
	}
	if !p.Stats().HooksBound {
		t.Error("hooks not bound after keyval creation")
	}
}

func TestCreateKeyval_OwnerKinds(t *testing.T) {
	p := New(nil)

	tests := []struct {
		name   string
		create func(*handle.Handle) error
		want   handle.Kind
	}{
		{"window", func(h *handle.Handle) error { return p.CreateWinKeyval(nil, nil, h, nil) }, handle.WinKeyval},
		{"communicator", func(h *handle.Handle) error { return p.CreateCommKeyval(nil, nil, h, nil) }, handle.CommKeyval},
		{"datatype", func(h *handle.Handle) error { return p.CreateTypeKeyval(nil, nil, h, nil) }, handle.DatatypeKeyval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h handle.Handle
			if err := tt.create(&h); err != nil {
				t.Fatal(err)
			}
			if h.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", h.Kind(), tt.want)
			}
		})
	}
}

func TestCreateWinKeyval_Distinct(t *testing.T) {
	p := New(nil)

	var a, b handle.Handle
	if err := p.CreateWinKeyval(nil, nil, &a, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.CreateWinKeyval(nil, nil, &b, nil); err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("consecutive keyvals share handle %v", a)
	}
}

func TestCreateWinKeyval_NullOutput(t *testing.T) {
	p := New(nil)

	before := p.Stats()
	err := p.CreateWinKeyval(attr.DupFn, nil, nil, 42)
	if !stderrors.Is(err, errors.ErrArgument) {
		t.Fatalf("err = %v, want argument error", err)
	}
	if errors.CodeOf(err) != errors.ErrArg {
		t.Errorf("CodeOf = %v, want MPI_ERR_ARG", errors.CodeOf(err))
	}

	after := p.Stats()
	if after.Keyvals != before.Keyvals {
		t.Fatalf("pool size changed: %d -> %d", before.Keyvals, after.Keyvals)
	}
	if after.HooksBound {
		t.Fatal("rejected call bound the hooks")
	}
}

func TestCreateWinKeyval_OutOfMemory(t *testing.T) {
	p := New(&Config{KeyvalCapacity: 1})

	var first handle.Handle
	if err := p.CreateWinKeyval(nil, nil, &first, nil); err != nil {
		t.Fatal(err)
	}

	second := handle.Handle(0xdeadbeef)
	err := p.CreateWinKeyval(nil, nil, &second, nil)
	if !stderrors.Is(err, errors.ErrOutOfMemory) {
		t.Fatalf("err = %v, want out of memory", err)
	}
	if second != 0xdeadbeef {
		t.Fatal("output written on failure")
	}
	if n := p.Stats().Keyvals; n != 1 {
		t.Fatalf("Keyvals = %d, want 1", n)
	}

	if err := p.FreeWinKeyval(&first); err != nil {
		t.Fatal(err)
	}
	if err := p.CreateWinKeyval(nil, nil, &second, nil); err != nil {
		t.Fatalf("create after free: %v", err)
	}
}

func TestCreateWinKeyval_ConcurrentBindsOnce(t *testing.T) {
	var bindings atomic.Int32
	p := New(&Config{
		HookBinder: func() (attr.DupListFunc, attr.FreeListFunc) {
			bindings.Add(1)
			return attr.DefaultBinder()
		},
	})

	const n = 64
	handles := make([]handle.Handle, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = p.CreateWinKeyval(nil, nil, &handles[i], i)
		}(i)
	}
	wg.Wait()

	seen := make(map[handle.Handle]bool, n)
	for i, h := range handles {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if seen[h] {
			t.Fatalf("handle %v issued twice", h)
		}
		seen[h] = true
	}
	if got := bindings.Load(); got != 1 {
		t.Fatalf("binder called %d times, want 1", got)
	}
	if !p.Hooks().Bound() {
		t.Fatal("hooks not bound")
	}
	if got := p.Stats().Keyvals; got != n {
		t.Fatalf("Keyvals = %d, want %d", got, n)
	}
}

func TestFreeWinKeyval(t *testing.T) {
	p := New(nil)

	var kv handle.Handle
	if err := p.CreateWinKeyval(nil, nil, &kv, nil); err != nil {
		t.Fatal(err)
	}
	created := kv

	if err := p.FreeCommKeyval(&kv); errors.CodeOf(err) != errors.ErrKeyval {
		t.Fatalf("FreeCommKeyval(window keyval) = %v", err)
	}
	if kv != created {
		t.Fatal("handle cleared on failed free")
	}

	if err := p.FreeWinKeyval(&kv); err != nil {
		t.Fatal(err)
	}
	if kv != handle.KeyvalInvalid {
		t.Fatalf("handle = %v, want KeyvalInvalid", kv)
	}
	if _, err := p.KeyvalInfo(created); err == nil {
		t.Fatal("unreferenced keyval still allocated")
	}

	if err := p.FreeWinKeyval(nil); !stderrors.Is(err, errors.ErrArgument) {
		t.Fatalf("FreeWinKeyval(nil) = %v", err)
	}
}

func TestAttributes_Lifecycle(t *testing.T) {
	p := New(nil)
	win := handle.New(handle.ClassDirect, handle.ObjectKind(handle.ObjectWin), 0, 7)
	dup := handle.New(handle.ClassDirect, handle.ObjectKind(handle.ObjectWin), 0, 8)

	out, err := p.DupAttributes(win, dup, nil)
	if err != nil || out != nil {
		t.Fatalf("dup before any keyval = %v, %v", out, err)
	}

	var deleted []any
	var kv handle.Handle
	err = p.CreateWinKeyval(attr.DupFn, func(_, _ handle.Handle, val, _ any) error {
		deleted = append(deleted, val)
		return nil
	}, &kv, nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err = p.DupAttributes(win, dup, attr.List{{Keyval: kv, Value: "x"}})
	if err != nil {
		t.Fatal(err)
	}
	created := kv
	if err := p.FreeWinKeyval(&kv); err != nil {
		t.Fatal(err)
	}
	info, err := p.KeyvalInfo(created)
	if err != nil {
		t.Fatal("referenced keyval released by free")
	}
	if !info.WasFreed || info.RefCount != 1 {
		t.Fatalf("after free: %+v", info)
	}

	if err := p.DeleteAttributes(dup, out); err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 1 || deleted[0] != "x" {
		t.Fatalf("deleted = %v", deleted)
	}
	if n := len(p.Keyvals()); n != 0 {
		t.Fatalf("%d keyvals remain", n)
	}
}

func TestAttributes_FreeWhileDuplicated(t *testing.T) {
	p := New(nil)
	win := handle.New(handle.ClassDirect, handle.ObjectKind(handle.ObjectWin), 0, 7)
	dup := handle.New(handle.ClassDirect, handle.ObjectKind(handle.ObjectWin), 0, 8)

	var deleted []handle.Handle
	var kv handle.Handle
	err := p.CreateWinKeyval(attr.DupFn, func(owner, _ handle.Handle, _, _ any) error {
		deleted = append(deleted, owner)
		return nil
	}, &kv, nil)
	if err != nil {
		t.Fatal(err)
	}
	created := kv

	var orig attr.List
	if err := p.SetAttribute(win, &orig, kv, "x"); err != nil {
		t.Fatal(err)
	}
	copied, err := p.DupAttributes(win, dup, orig)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.FreeWinKeyval(&kv); err != nil {
		t.Fatal(err)
	}

	if err := p.DeleteAttributes(win, orig); err != nil {
		t.Fatal(err)
	}
	info, err := p.KeyvalInfo(created)
	if err != nil {
		t.Fatal("keyval released while the duplicate still references it")
	}
	if !info.WasFreed || info.RefCount != 1 {
		t.Fatalf("after deleting the original: %+v", info)
	}

	if err := p.DeleteAttributes(dup, copied); err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 2 || deleted[0] != win || deleted[1] != dup {
		t.Fatalf("delete callback owners = %v, want [%v %v]", deleted, win, dup)
	}
	if n := p.Stats().Keyvals; n != 0 {
		t.Fatalf("Keyvals = %d, want 0", n)
	}
}

func TestSetAttribute(t *testing.T) {
	p := New(nil)
	win := handle.New(handle.ClassDirect, handle.ObjectKind(handle.ObjectWin), 0, 7)

	var kv handle.Handle
	if err := p.CreateWinKeyval(nil, nil, &kv, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.SetAttribute(win, nil, kv, 1); !stderrors.Is(err, errors.ErrArgument) {
		t.Fatalf("nil list = %v", err)
	}

	var list attr.List
	if err := p.SetAttribute(win, &list, kv, 1); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Keyval != kv {
		t.Fatalf("list = %v", list)
	}

	// the list keeps the freed keyval alive
	created := kv
	if err := p.FreeWinKeyval(&kv); err != nil {
		t.Fatal(err)
	}
	if err := p.SetAttribute(win, &list, created, 2); errors.CodeOf(err) != errors.ErrKeyval {
		t.Fatalf("set with freed keyval = %v", err)
	}
	if err := p.DeleteAttributes(win, list); err != nil {
		t.Fatal(err)
	}
	if len(p.Keyvals()) != 0 {
		t.Fatal("keyval survived its last attribute")
	}
}

func TestCreateKeyval_LegacyProxies(t *testing.T) {
	p := New(nil)

	var kv handle.Handle
	copier := attr.NewLegacyCopier(func(_, _ handle.Handle, _, in any) (any, bool, int) {
		return in, true, 0
	})
	if err := p.CreateKeyval(handle.ObjectComm, copier, nil, &kv, nil); err != nil {
		t.Fatal(err)
	}
	if kv.Kind() != handle.CommKeyval {
		t.Fatalf("Kind() = %v", kv.Kind())
	}
	if err := p.CreateKeyval(handle.ObjectRequest, nil, nil, &kv, nil); !stderrors.Is(err, errors.ErrArgument) {
		t.Fatalf("request keyval = %v", err)
	}
}

func TestProcess_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := New(&Config{Logger: zap.New(core)})

	var kv handle.Handle
	if err := p.CreateWinKeyval(nil, nil, &kv, nil); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("keyval created").All()
	if len(entries) != 1 {
		t.Fatalf("got %d creation entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["process"] != p.ID().String() {
		t.Errorf("process field = %v, want %s", fields["process"], p.ID())
	}
	if fields["handle"] != kv.String() {
		t.Errorf("handle field = %v, want %s", fields["handle"], kv)
	}
}

func TestDefault(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default returned different processes")
	}
	if New(nil).ID() == New(nil).ID() {
		t.Fatal("processes share an ID")
	}
}
