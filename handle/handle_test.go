package handle

import "testing"

func TestHandle_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		class Class
		kind  Kind
		gen   uint8
		index uint16
	}{
		{"window keyval", ClassDirect, WinKeyval, 0, 0},
		{"comm keyval", ClassDirect, CommKeyval, 5, 1234},
		{"datatype keyval", ClassIndirect, DatatypeKeyval, MaxGeneration, MaxIndex},
		{"builtin datatype", ClassBuiltin, Datatype, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.class, tt.kind, tt.gen, tt.index)
			if h.Class() != tt.class {
				t.Errorf("Class() = %v, want %v", h.Class(), tt.class)
			}
			if h.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", h.Kind(), tt.kind)
			}
			if h.Generation() != tt.gen {
				t.Errorf("Generation() = %d, want %d", h.Generation(), tt.gen)
			}
			if h.Index() != tt.index {
				t.Errorf("Index() = %d, want %d", h.Index(), tt.index)
			}
			if !h.Valid() {
				t.Error("expected valid handle")
			}
		})
	}
}

func TestHandle_OwnerField(t *testing.T) {
	h := New(ClassDirect, WinKeyval, 0, 0)
	// owner occupies the 0x03c00000 field
	if got := (uint32(h) & 0x03c00000) >> 22; got != uint32(ObjectWin) {
		t.Fatalf("owner field = %d, want %d", got, ObjectWin)
	}
	if h.Object() != ObjectKeyval {
		t.Fatalf("Object() = %v, want keyval", h.Object())
	}
}

func TestHandle_Null(t *testing.T) {
	if Null.Valid() {
		t.Fatal("Null must be invalid")
	}
	if Null.Class() != ClassInvalid {
		t.Fatal("Null must have invalid class")
	}
	if KeyvalInvalid.Kind() == WinKeyval {
		t.Fatal("KeyvalInvalid must not decode as a window keyval")
	}
}

func TestHandle_DistinctKinds(t *testing.T) {
	a := New(ClassDirect, WinKeyval, 0, 1)
	b := New(ClassDirect, CommKeyval, 0, 1)
	if a == b {
		t.Fatal("same slot in different kinds must give distinct handles")
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		WinKeyval:      "window-keyval",
		CommKeyval:     "communicator-keyval",
		DatatypeKeyval: "datatype-keyval",
		Datatype:       "datatype",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
