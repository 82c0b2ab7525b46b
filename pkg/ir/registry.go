package ir

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/irgraph/pkg/errors"
)

// Registry is the owning collection for all nodes of one computation graph.
// It creates nodes, assigns their dense identities, resolves handles, marks
// nodes deleted, and enumerates the full node set. Nothing outside the
// Registry owns node storage; edges, the name index, and block sub-graphs
// hold NodeID handles that are only meaningful against the same Registry.
//
// The node sequence never shrinks: deletion is logical (a tombstone), so
// handles held by other nodes stay resolvable for the Registry's lifetime.
//
// A Registry is not safe for concurrent mutation. One pass at a time is
// expected to hold it.
type Registry struct {
	id     uuid.UUID
	nodes  []Node
	byName map[string]NodeID
}

// NewRegistry creates an empty registry with a fresh instance tag.
func NewRegistry() *Registry {
	return &Registry{
		id:     uuid.New(),
		byName: make(map[string]NodeID),
	}
}

// InstanceID returns the registry's instance tag. It identifies this
// registry in diagnostics and in the interchange header; node identities
// are only comparable between registries with equal tags.
func (r *Registry) InstanceID() uuid.UUID { return r.id }

// CreateFunction creates a Function node and assigns the next identity.
func (r *Registry) CreateFunction() *Function {
	f := &Function{}
	r.register(&f.base, KindFunction)
	r.nodes = append(r.nodes, f)
	return f
}

// CreateValue creates a Value node and assigns the next identity.
func (r *Registry) CreateValue() *Value {
	v := &Value{}
	r.register(&v.base, KindValue)
	r.nodes = append(r.nodes, v)
	return v
}

// CreateFunctionBlock creates a FunctionBlock node and assigns the next
// identity.
func (r *Registry) CreateFunctionBlock() *FunctionBlock {
	fb := &FunctionBlock{}
	r.register(&fb.base, KindFunctionBlock)
	r.nodes = append(r.nodes, fb)
	return fb
}

// Create creates a node of the requested variant. It is the dynamic
// counterpart of the typed constructors, used by producers that read the
// variant from data; it returns INVALID_KIND for a tag outside the closed
// set.
func (r *Registry) Create(kind Kind) (Node, error) {
	switch kind {
	case KindFunction:
		return r.CreateFunction(), nil
	case KindValue:
		return r.CreateValue(), nil
	case KindFunctionBlock:
		return r.CreateFunctionBlock(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidKind, "create: unknown variant %d", int(kind))
	}
}

// register assigns identity, variant, and owner. id and kind are
// write-once: nothing else in the package touches them after this.
func (r *Registry) register(b *base, kind Kind) {
	b.id = NodeID(len(r.nodes))
	b.kind = kind
	b.owner = r
}

// Get returns the node with the given identity. It fails with OUT_OF_RANGE
// for an identity never assigned by this registry, including the
// Unassigned sentinel. Get does not check the tombstone flag; callers must
// inspect Deleted themselves. The returned node is the owned instance and
// may be mutated in place.
func (r *Registry) Get(id NodeID) (Node, error) {
	if id < 0 || int(id) >= len(r.nodes) {
		return nil, errors.New(errors.ErrCodeOutOfRange,
			"registry %s: no node with id %d (have %d)", r.id, id, len(r.nodes))
	}
	return r.nodes[id], nil
}

// Remove tombstones the node with the given identity. The node's storage
// and identity stay valid; edges elsewhere referencing it are not touched,
// and storage is not compacted. Removing an already tombstoned node is a
// no-op. Fails with OUT_OF_RANGE for an identity never assigned.
func (r *Registry) Remove(id NodeID) error {
	n, err := r.Get(id)
	if err != nil {
		return err
	}
	n.SetDeleted()
	return nil
}

// Nodes returns all owned nodes in identity order, tombstoned ones
// included. The slice is a copy; the nodes are the owned instances.
func (r *Registry) Nodes() []Node {
	return slices.Clone(r.nodes)
}

// Len returns the count of nodes ever created, tombstoned ones included.
func (r *Registry) Len() int { return len(r.nodes) }

// FindByName looks a node up in the name index. The index is a best-effort
// cache: it covers only explicitly named nodes, the last node to claim a
// name wins, and tombstoning does not evict. Identity lookup through Get is
// the authoritative path.
func (r *Registry) FindByName(name string) (Node, bool) {
	id, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	n, err := r.Get(id)
	if err != nil {
		return nil, false
	}
	return n, true
}

// indexName records a name claim. Called by Node.SetName.
func (r *Registry) indexName(name string, id NodeID) {
	r.byName[name] = id
}

// Link adds a directed dataflow edge from one node to another, appending to
// the source's outputs and the target's inputs. Both endpoints must be
// identities assigned by this registry; a stale handle fails with
// OUT_OF_RANGE before either list is touched.
func (r *Registry) Link(from, to NodeID) error {
	src, err := r.Get(from)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "link %d->%d", from, to)
	}
	dst, err := r.Get(to)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "link %d->%d", from, to)
	}
	src.AppendOutput(to)
	dst.AppendInput(from)
	return nil
}

// Unlink removes the first occurrence of the edge from->to from both
// adjacency lists. Removing an edge that does not exist is a no-op.
// Fails with OUT_OF_RANGE when either identity was never assigned.
func (r *Registry) Unlink(from, to NodeID) error {
	src, err := r.Get(from)
	if err != nil {
		return err
	}
	dst, err := r.Get(to)
	if err != nil {
		return err
	}
	if i := slices.Index(src.Outputs(), to); i >= 0 {
		src.SetOutputs(slices.Delete(src.Outputs(), i, i+1))
	}
	if i := slices.Index(dst.Inputs(), from); i >= 0 {
		dst.SetInputs(slices.Delete(dst.Inputs(), i, i+1))
	}
	return nil
}
