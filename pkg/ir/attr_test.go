package ir

import (
	"strings"
	"testing"

	"github.com/matzehuels/irgraph/pkg/errors"
)

func TestAttrDefaultZero(t *testing.T) {
	var bag AttrBag

	n, err := bag.Get("n").Int64()
	if err != nil {
		t.Fatalf("Int64: %v", err)
	}
	if *n != 0 {
		t.Errorf("fresh int64 slot = %d, want 0", *n)
	}

	s, err := bag.Get("s").String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if *s != "" {
		t.Errorf("fresh string slot = %q, want empty", *s)
	}
}

func TestAttrSameSlot(t *testing.T) {
	var bag AttrBag

	b1, err := bag.Get("x").Bool()
	if err != nil {
		t.Fatalf("first Bool: %v", err)
	}
	*b1 = true

	// A second access must return the same stored value, not a reset slot.
	b2, err := bag.Get("x").Bool()
	if err != nil {
		t.Fatalf("second Bool: %v", err)
	}
	if !*b2 {
		t.Error("second access lost the stored value")
	}
	if b1 != b2 {
		t.Error("accesses returned different storage for the same slot")
	}
}

func TestAttrTypeLock(t *testing.T) {
	var bag AttrBag

	if _, err := bag.Get("x").Bool(); err != nil {
		t.Fatalf("Bool: %v", err)
	}

	_, err := bag.Get("x").Int32()
	if err == nil {
		t.Fatal("expected type mismatch, got nil")
	}
	if !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeTypeMismatch)
	}
}

func TestAttrAccessors(t *testing.T) {
	tests := []struct {
		name     string
		access   func(v *AttrValue) error
		mismatch func(v *AttrValue) error
		kind     AttrKind
	}{
		{
			name:     "bool",
			access:   func(v *AttrValue) error { _, err := v.Bool(); return err },
			mismatch: func(v *AttrValue) error { _, err := v.String(); return err },
			kind:     AttrBool,
		},
		{
			name:     "float32",
			access:   func(v *AttrValue) error { _, err := v.Float32(); return err },
			mismatch: func(v *AttrValue) error { _, err := v.Int32(); return err },
			kind:     AttrFloat32,
		},
		{
			name:     "int32",
			access:   func(v *AttrValue) error { _, err := v.Int32(); return err },
			mismatch: func(v *AttrValue) error { _, err := v.Int64(); return err },
			kind:     AttrInt32,
		},
		{
			name:     "int64",
			access:   func(v *AttrValue) error { _, err := v.Int64(); return err },
			mismatch: func(v *AttrValue) error { _, err := v.Bool(); return err },
			kind:     AttrInt64,
		},
		{
			name:     "handle",
			access:   func(v *AttrValue) error { _, err := v.Handle(); return err },
			mismatch: func(v *AttrValue) error { _, err := v.Float32(); return err },
			kind:     AttrHandle,
		},
		{
			name:     "string",
			access:   func(v *AttrValue) error { _, err := v.String(); return err },
			mismatch: func(v *AttrValue) error { _, err := v.Handle(); return err },
			kind:     AttrString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bag AttrBag
			v := bag.Get("a")

			if v.Kind() != attrUnset {
				t.Errorf("fresh slot kind = %v, want unset", v.Kind())
			}
			if err := tt.access(v); err != nil {
				t.Fatalf("first access: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("locked kind = %v, want %v", v.Kind(), tt.kind)
			}

			// Same-typed access keeps working.
			if err := tt.access(v); err != nil {
				t.Errorf("repeat access: %v", err)
			}

			// Differently-typed access is a contract violation.
			err := tt.mismatch(v)
			if !errors.Is(err, errors.ErrCodeTypeMismatch) {
				t.Errorf("mismatch error = %v, want TYPE_MISMATCH", err)
			}
		})
	}
}

func TestAttrMismatchNamesAttribute(t *testing.T) {
	var bag AttrBag
	if _, err := bag.Get("fuse_state").Bool(); err != nil {
		t.Fatal(err)
	}

	_, err := bag.Get("fuse_state").Int64()
	if err == nil {
		t.Fatal("expected error")
	}
	// The diagnostic must identify the failing attribute.
	if got := err.Error(); !strings.Contains(got, "fuse_state") {
		t.Errorf("error %q does not name the attribute", got)
	}
}

func TestAttrKindString(t *testing.T) {
	tests := []struct {
		kind AttrKind
		want string
	}{
		{AttrBool, "bool"},
		{AttrFloat32, "float32"},
		{AttrInt32, "int32"},
		{AttrInt64, "int64"},
		{AttrHandle, "handle"},
		{AttrString, "string"},
		{attrUnset, "unset"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
