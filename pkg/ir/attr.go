package ir

import (
	"github.com/matzehuels/irgraph/pkg/errors"
)

// AttrKind identifies the scalar type stored in an AttrValue.
// A slot's kind is fixed by the first typed access and never changes.
type AttrKind int

const (
	// attrUnset marks a slot that has been created but not yet typed.
	// Get alone does not type a slot; the first typed accessor does.
	attrUnset AttrKind = iota

	AttrBool
	AttrFloat32
	AttrInt32
	AttrInt64
	AttrHandle
	AttrString
)

// String returns the attribute kind name used in diagnostics.
func (k AttrKind) String() string {
	switch k {
	case AttrBool:
		return "bool"
	case AttrFloat32:
		return "float32"
	case AttrInt32:
		return "int32"
	case AttrInt64:
		return "int64"
	case AttrHandle:
		return "handle"
	case AttrString:
		return "string"
	default:
		return "unset"
	}
}

// AttrValue is a tagged scalar holding exactly one of bool, float32, int32,
// int64, an opaque external handle, or string. Passes use it to annotate
// nodes with analysis state.
//
// The typed accessors return a mutable pointer to the stored value. The
// first accessor called on a fresh slot fixes its kind and initializes the
// value to the type's zero value; calling an accessor of a different kind
// afterwards returns a TYPE_MISMATCH error. That error indicates an
// inconsistent attribute schema across passes and is not recoverable.
type AttrValue struct {
	name string
	kind AttrKind

	b   bool
	f32 float32
	i32 int32
	i64 int64
	h   any
	s   string
}

// Kind returns the kind the slot was locked to, or the unset kind if no
// typed accessor has touched it yet.
func (v *AttrValue) Kind() AttrKind { return v.kind }

// lock fixes the slot's kind on first typed access and rejects any
// mismatched access afterwards.
func (v *AttrValue) lock(k AttrKind) error {
	if v.kind == attrUnset {
		v.kind = k
		return nil
	}
	if v.kind != k {
		return errors.New(errors.ErrCodeTypeMismatch,
			"attribute %q: stored as %s, requested as %s", v.name, v.kind, k)
	}
	return nil
}

// Bool returns a mutable reference to the boolean value.
func (v *AttrValue) Bool() (*bool, error) {
	if err := v.lock(AttrBool); err != nil {
		return nil, err
	}
	return &v.b, nil
}

// Float32 returns a mutable reference to the float32 value.
func (v *AttrValue) Float32() (*float32, error) {
	if err := v.lock(AttrFloat32); err != nil {
		return nil, err
	}
	return &v.f32, nil
}

// Int32 returns a mutable reference to the int32 value.
func (v *AttrValue) Int32() (*int32, error) {
	if err := v.lock(AttrInt32); err != nil {
		return nil, err
	}
	return &v.i32, nil
}

// Int64 returns a mutable reference to the int64 value.
func (v *AttrValue) Int64() (*int64, error) {
	if err := v.lock(AttrInt64); err != nil {
		return nil, err
	}
	return &v.i64, nil
}

// Handle returns a mutable reference to the opaque external handle.
// The core stores the handle verbatim and never interprets it.
func (v *AttrValue) Handle() (*any, error) {
	if err := v.lock(AttrHandle); err != nil {
		return nil, err
	}
	return &v.h, nil
}

// String returns a mutable reference to the string value.
func (v *AttrValue) String() (*string, error) {
	if err := v.lock(AttrString); err != nil {
		return nil, err
	}
	return &v.s, nil
}

// AttrBag is a per-node, lazily populated mapping from attribute name to a
// tagged scalar. Slots are created on first access and never removed.
//
// The bag deliberately has no enumeration or presence check: attributes are
// transient pass state, and passes needing existence tracking must do so
// externally. Every Get may grow the bag.
type AttrBag struct {
	attrs map[string]*AttrValue
}

// Get returns the slot for name, creating an untyped slot if name has never
// been touched. The slot's kind is fixed by the first typed accessor called
// on it.
func (b *AttrBag) Get(name string) *AttrValue {
	if b.attrs == nil {
		b.attrs = make(map[string]*AttrValue)
	}
	v, ok := b.attrs[name]
	if !ok {
		v = &AttrValue{name: name}
		b.attrs[name] = v
	}
	return v
}
