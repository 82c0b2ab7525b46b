package ir

import (
	"fmt"
	"testing"

	"github.com/matzehuels/irgraph/pkg/errors"
)

func TestRegistryIdentityDensity(t *testing.T) {
	reg := NewRegistry()

	const n = 12
	for i := 0; i < n; i++ {
		switch i % 3 {
		case 0:
			reg.CreateFunction()
		case 1:
			reg.CreateValue()
		default:
			reg.CreateFunctionBlock()
		}
	}

	if reg.Len() != n {
		t.Fatalf("Len() = %d, want %d", reg.Len(), n)
	}
	for i := 0; i < n; i++ {
		node, err := reg.Get(NodeID(i))
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if node.ID() != NodeID(i) {
			t.Errorf("Get(%d).ID() = %d, want %d", i, node.ID(), i)
		}
	}
}

func TestRegistryGetOutOfRange(t *testing.T) {
	reg := NewRegistry()
	reg.CreateFunction()

	tests := []struct {
		name string
		id   NodeID
	}{
		{"past end", 1},
		{"far past end", 100},
		{"unassigned sentinel", Unassigned},
		{"negative", -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Get(tt.id)
			if !errors.Is(err, errors.ErrCodeOutOfRange) {
				t.Errorf("Get(%d) error = %v, want OUT_OF_RANGE", tt.id, err)
			}
		})
	}
}

func TestRegistryCreateAssignsVariant(t *testing.T) {
	reg := NewRegistry()
	f := reg.CreateFunction()
	v := reg.CreateValue()
	fb := reg.CreateFunctionBlock()

	tests := []struct {
		node Node
		kind Kind
	}{
		{f, KindFunction},
		{v, KindValue},
		{fb, KindFunctionBlock},
	}

	for _, tt := range tests {
		if tt.node.Kind() != tt.kind {
			t.Errorf("Kind() = %v, want %v", tt.node.Kind(), tt.kind)
		}
	}

	// The variant tag survives a round trip through the registry.
	got, err := reg.Get(v.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != KindValue {
		t.Errorf("retrieved Kind() = %v, want %v", got.Kind(), KindValue)
	}
	if got != Node(v) {
		t.Error("Get returned a different instance than Create")
	}
}

func TestRegistryCreateDynamic(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		kind Kind
		ok   bool
	}{
		{KindFunction, true},
		{KindValue, true},
		{KindFunctionBlock, true},
		{KindNone, false},
		{Kind(99), false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			node, err := reg.Create(tt.kind)
			if tt.ok {
				if err != nil {
					t.Fatalf("Create(%v): %v", tt.kind, err)
				}
				if node.Kind() != tt.kind {
					t.Errorf("Kind() = %v, want %v", node.Kind(), tt.kind)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidKind) {
				t.Errorf("Create(%v) error = %v, want INVALID_KIND", tt.kind, err)
			}
		})
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	f := reg.CreateFunction()
	v := reg.CreateValue()
	reg.Link(f.ID(), v.ID())

	if err := reg.Remove(v.ID()); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	// Tombstoning is non-destructive: the node, its identity, and edges
	// referencing it all stay intact.
	got, err := reg.Get(v.ID())
	if err != nil {
		t.Fatalf("Get after Remove: %v", err)
	}
	if !got.Deleted() {
		t.Error("node not marked deleted")
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
	if len(f.Outputs()) != 1 || f.Outputs()[0] != v.ID() {
		t.Errorf("outputs = %v, want [%d]", f.Outputs(), v.ID())
	}

	// Removing twice is a no-op.
	if err := reg.Remove(v.ID()); err != nil {
		t.Errorf("second Remove: %v", err)
	}

	// Removing an identity never assigned is an error.
	if err := reg.Remove(99); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Remove(99) error = %v, want OUT_OF_RANGE", err)
	}
}

func TestRegistryNodesIncludesTombstoned(t *testing.T) {
	reg := NewRegistry()
	reg.CreateFunction()
	v := reg.CreateValue()
	reg.CreateFunctionBlock()
	reg.Remove(v.ID())

	nodes := reg.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("Nodes() returned %d nodes, want 3", len(nodes))
	}
	for i, n := range nodes {
		if n.ID() != NodeID(i) {
			t.Errorf("nodes[%d].ID() = %d, want %d", i, n.ID(), i)
		}
	}
	if !nodes[1].Deleted() {
		t.Error("tombstoned node missing its flag in enumeration")
	}
}

func TestRegistryFindByName(t *testing.T) {
	reg := NewRegistry()

	first := reg.CreateValue()
	first.SetName("w")
	second := reg.CreateValue()
	second.SetName("w")

	// Last claim wins.
	got, ok := reg.FindByName("w")
	if !ok {
		t.Fatal("FindByName(w) = not found")
	}
	if got.ID() != second.ID() {
		t.Errorf("FindByName(w).ID() = %d, want %d", got.ID(), second.ID())
	}

	if _, ok := reg.FindByName("missing"); ok {
		t.Error("FindByName(missing) = found")
	}

	// The index does not evict tombstoned entries.
	reg.Remove(second.ID())
	got, ok = reg.FindByName("w")
	if !ok || !got.Deleted() {
		t.Errorf("FindByName after Remove = (%v, %v), want tombstoned node", got, ok)
	}
}

func TestRegistryLink(t *testing.T) {
	reg := NewRegistry()
	f := reg.CreateFunction()
	a := reg.CreateValue()
	b := reg.CreateValue()

	if err := reg.Link(a.ID(), f.ID()); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if err := reg.Link(b.ID(), f.ID()); err != nil {
		t.Fatalf("Link: %v", err)
	}

	if got := f.Inputs(); len(got) != 2 || got[0] != a.ID() || got[1] != b.ID() {
		t.Errorf("inputs = %v, want [%d %d]", got, a.ID(), b.ID())
	}
	if got := a.Outputs(); len(got) != 1 || got[0] != f.ID() {
		t.Errorf("a outputs = %v, want [%d]", got, f.ID())
	}
	if got := b.Outputs(); len(got) != 1 || got[0] != f.ID() {
		t.Errorf("b outputs = %v, want [%d]", got, f.ID())
	}
}

func TestRegistryLinkStaleEndpoint(t *testing.T) {
	reg := NewRegistry()
	f := reg.CreateFunction()

	tests := []struct {
		name     string
		from, to NodeID
	}{
		{"stale source", 42, f.ID()},
		{"stale target", f.ID(), 42},
		{"unassigned source", Unassigned, f.ID()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Link(tt.from, tt.to)
			if !errors.Is(err, errors.ErrCodeOutOfRange) {
				t.Fatalf("Link error = %v, want OUT_OF_RANGE", err)
			}
			// A failed link must not leave a half-added edge.
			if len(f.Inputs()) != 0 || len(f.Outputs()) != 0 {
				t.Errorf("edges mutated on failed link: in=%v out=%v", f.Inputs(), f.Outputs())
			}
		})
	}
}

func TestRegistryUnlink(t *testing.T) {
	reg := NewRegistry()
	f := reg.CreateFunction()
	a := reg.CreateValue()
	b := reg.CreateValue()
	reg.Link(a.ID(), f.ID())
	reg.Link(b.ID(), f.ID())

	if err := reg.Unlink(a.ID(), f.ID()); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if got := f.Inputs(); len(got) != 1 || got[0] != b.ID() {
		t.Errorf("inputs = %v, want [%d]", got, b.ID())
	}
	if len(a.Outputs()) != 0 {
		t.Errorf("a outputs = %v, want empty", a.Outputs())
	}

	// Unlinking an edge that does not exist is a no-op.
	if err := reg.Unlink(a.ID(), f.ID()); err != nil {
		t.Errorf("repeat Unlink: %v", err)
	}
}

func TestRegistryInstanceIDs(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	if a.InstanceID() == b.InstanceID() {
		t.Error("two registries share an instance tag")
	}
}

func ExampleRegistry() {
	reg := NewRegistry()

	x := reg.CreateValue()
	x.SetName("x")
	x.SetDims([]int{2, 3})

	w := reg.CreateValue()
	w.SetName("w")

	add := reg.CreateFunction()
	add.SetName("add")
	add.SetOpKind("add")
	add.SetInputs([]NodeID{x.ID(), w.ID()})

	fmt.Println(add.Describe())
	fmt.Println(add.Inputs()[0] == x.ID())
	// Output:
	// add(2)
	// true
}
