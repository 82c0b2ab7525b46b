package ir

import (
	"fmt"

	"github.com/matzehuels/irgraph/pkg/errors"
)

// NodeID is a stable, registry-scoped node identity. IDs are dense: the
// Registry assigns them in creation order starting at 0, and an ID doubles
// as the node's position in the owned sequence.
type NodeID int

// Unassigned is the identity of a node that has not been registered.
// It is never a valid argument to Registry lookups.
const Unassigned NodeID = -1

// Kind is the node variant tag. The set is closed: new variants require a
// change to this package.
type Kind int

const (
	// KindNone marks a node whose variant was never assigned. Nodes created
	// through a Registry always carry one of the concrete kinds below.
	KindNone Kind = iota - 1

	KindFunction
	KindValue
	KindFunctionBlock
)

// String returns the variant name used in diagnostics and interchange.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindValue:
		return "value"
	case KindFunctionBlock:
		return "function_block"
	default:
		return "none"
	}
}

// RenderAttr is an ordered (key, value) display pair contributed to the
// external visualization renderer. Order is meaningful and preserved.
type RenderAttr struct {
	Key   string
	Value string
}

// Reserved attribute names for the externally owned serialized description
// carried by a node. The core stores these verbatim and never parses them.
const (
	attrPBDesc = "pb_desc"
	attrPBMsg  = "pb_msg"
)

// Node is the capability set shared by all variants. It is implemented by
// exactly *Function, *Value, and *FunctionBlock; use the checked downcasts
// [AsFunction], [AsValue], and [AsFunctionBlock] to reach variant fields.
//
// Nodes perform no graph traversal or validation themselves; that is a
// pass's responsibility.
type Node interface {
	// ID returns the registry-assigned identity, or Unassigned for a node
	// not created through a Registry. Write-once.
	ID() NodeID
	// Name returns the optional label. Names are not required to be unique.
	Name() string
	// SetName labels the node and registers it in the owning registry's
	// best-effort name index.
	SetName(name string)
	// Kind returns the variant tag. Write-once, fixed at creation.
	Kind() Kind

	// Deleted reports whether the node has been tombstoned.
	Deleted() bool
	// SetDeleted marks the node tombstoned. Idempotent; no other effect.
	SetDeleted()

	// Attrs returns the node's attribute bag.
	Attrs() *AttrBag

	// Inputs returns the ordered dataflow edges into this node, as handles
	// owned by the same registry. The slice is the node's backing storage.
	Inputs() []NodeID
	SetInputs(ids []NodeID)
	AppendInput(id NodeID)

	// Outputs returns the ordered dataflow edges out of this node.
	Outputs() []NodeID
	SetOutputs(ids []NodeID)
	AppendOutput(id NodeID)

	// Describe returns a human-readable label combining name and identity.
	Describe() string
	// RenderAttrs returns the ordered display pairs consumed by the external
	// graph renderer. Every variant contributes the base {"style","filled"}
	// pair plus its own.
	RenderAttrs() []RenderAttr

	// Variant predicates.
	IsFunction() bool
	IsValue() bool
	IsFunctionBlock() bool

	// External serialized-description interchange. The handle and message
	// are stored through the attribute bag under reserved names and
	// returned verbatim.
	SetPBDesc(desc any) error
	PBDesc() (any, error)
	SetPBMsg(msg string) error
	PBMsg() (string, error)
}

// base carries the state shared by all variants. It is embedded by each
// concrete variant; the Registry wires id, kind, and owner at creation.
type base struct {
	id      NodeID
	name    string
	kind    Kind
	deleted bool
	attrs   AttrBag
	inputs  []NodeID
	outputs []NodeID
	owner   *Registry
}

func (b *base) ID() NodeID   { return b.id }
func (b *base) Name() string { return b.name }
func (b *base) Kind() Kind   { return b.kind }

func (b *base) SetName(name string) {
	b.name = name
	if b.owner != nil && name != "" {
		b.owner.indexName(name, b.id)
	}
}

func (b *base) Deleted() bool { return b.deleted }
func (b *base) SetDeleted()   { b.deleted = true }

func (b *base) Attrs() *AttrBag { return &b.attrs }

func (b *base) Inputs() []NodeID       { return b.inputs }
func (b *base) SetInputs(ids []NodeID) { b.inputs = ids }
func (b *base) AppendInput(id NodeID)  { b.inputs = append(b.inputs, id) }

func (b *base) Outputs() []NodeID       { return b.outputs }
func (b *base) SetOutputs(ids []NodeID) { b.outputs = ids }
func (b *base) AppendOutput(id NodeID)  { b.outputs = append(b.outputs, id) }

func (b *base) Describe() string {
	return fmt.Sprintf("%s(%d)", b.name, b.id)
}

func (b *base) RenderAttrs() []RenderAttr {
	return []RenderAttr{{Key: "style", Value: "filled"}}
}

func (b *base) IsFunction() bool      { return b.kind == KindFunction }
func (b *base) IsValue() bool         { return b.kind == KindValue }
func (b *base) IsFunctionBlock() bool { return b.kind == KindFunctionBlock }

func (b *base) SetPBDesc(desc any) error {
	h, err := b.attrs.Get(attrPBDesc).Handle()
	if err != nil {
		return err
	}
	*h = desc
	return nil
}

func (b *base) PBDesc() (any, error) {
	h, err := b.attrs.Get(attrPBDesc).Handle()
	if err != nil {
		return nil, err
	}
	return *h, nil
}

func (b *base) SetPBMsg(msg string) error {
	s, err := b.attrs.Get(attrPBMsg).String()
	if err != nil {
		return err
	}
	*s = msg
	return nil
}

func (b *base) PBMsg() (string, error) {
	s, err := b.attrs.Get(attrPBMsg).String()
	if err != nil {
		return "", err
	}
	return *s, nil
}

// DataType is the element type of a Value node.
type DataType int

const (
	DataTypeInt32 DataType = iota
	DataTypeInt64
	DataTypeFloat32
	DataTypeFloat64
)

// String returns the element type name used in diagnostics and interchange.
func (t DataType) String() string {
	switch t {
	case DataTypeInt32:
		return "int32"
	case DataTypeInt64:
		return "int64"
	case DataTypeFloat32:
		return "float32"
	case DataTypeFloat64:
		return "float64"
	default:
		return fmt.Sprintf("datatype(%d)", int(t))
	}
}

// Device is an opaque placement tag. Its enumeration and semantics are
// owned by an external placement subsystem; the IR stores it unchanged.
type Device int

// Value is a data node: a typed tensor flowing between operators.
type Value struct {
	base

	dtype  DataType
	dims   []int
	device Device
}

// DataType returns the element type.
func (v *Value) DataType() DataType { return v.dtype }

// SetDataType sets the element type.
func (v *Value) SetDataType(t DataType) { v.dtype = t }

// Dims returns the shape as an ordered list of dimension sizes.
// The slice is the node's backing storage and may be mutated by passes.
func (v *Value) Dims() []int { return v.dims }

// SetDims replaces the shape.
func (v *Value) SetDims(dims []int) { v.dims = dims }

// Device returns the placement tag.
func (v *Value) Device() Device { return v.device }

// SetDevice sets the placement tag.
func (v *Value) SetDevice(d Device) { v.device = d }

// RenderAttrs adds the element type, shape, and device to the base pairs.
func (v *Value) RenderAttrs() []RenderAttr {
	return append(v.base.RenderAttrs(),
		RenderAttr{Key: "dtype", Value: v.dtype.String()},
		RenderAttr{Key: "dims", Value: fmt.Sprint(v.dims)},
		RenderAttr{Key: "device", Value: fmt.Sprintf("%d", int(v.device))},
	)
}

// Function is an operator node: it consumes Values and produces Values.
type Function struct {
	base

	opKind string
}

// OpKind returns the string identifying the operator's semantics.
func (f *Function) OpKind() string { return f.opKind }

// SetOpKind sets the operator kind.
func (f *Function) SetOpKind(kind string) { f.opKind = kind }

// RenderAttrs adds the operator kind to the base pairs.
func (f *Function) RenderAttrs() []RenderAttr {
	return append(f.base.RenderAttrs(),
		RenderAttr{Key: "op_kind", Value: f.opKind},
	)
}

// FunctionBlock is a node containing a nested sub-graph.
type FunctionBlock struct {
	base

	// Subgraph is the ordered list of nodes nested within this block's
	// scope, as handles owned by the same registry.
	Subgraph []NodeID
}

// Describe renders a synthetic "block-<id>" label when the block is
// unnamed.
func (fb *FunctionBlock) Describe() string {
	if fb.name == "" {
		return fmt.Sprintf("block-%d", fb.id)
	}
	return fb.base.Describe()
}

// RenderAttrs adds the sub-graph size to the base pairs.
func (fb *FunctionBlock) RenderAttrs() []RenderAttr {
	return append(fb.base.RenderAttrs(),
		RenderAttr{Key: "subgraph", Value: fmt.Sprintf("%d nodes", len(fb.Subgraph))},
	)
}

// AsFunction returns n as a *Function, or an INVALID_DOWNCAST error when
// the node's variant tag differs.
func AsFunction(n Node) (*Function, error) {
	f, ok := n.(*Function)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDowncast,
			"node %s: variant is %s, want %s", n.Describe(), n.Kind(), KindFunction)
	}
	return f, nil
}

// AsValue returns n as a *Value, or an INVALID_DOWNCAST error when the
// node's variant tag differs.
func AsValue(n Node) (*Value, error) {
	v, ok := n.(*Value)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDowncast,
			"node %s: variant is %s, want %s", n.Describe(), n.Kind(), KindValue)
	}
	return v, nil
}

// AsFunctionBlock returns n as a *FunctionBlock, or an INVALID_DOWNCAST
// error when the node's variant tag differs.
func AsFunctionBlock(n Node) (*FunctionBlock, error) {
	fb, ok := n.(*FunctionBlock)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDowncast,
			"node %s: variant is %s, want %s", n.Describe(), n.Kind(), KindFunctionBlock)
	}
	return fb, nil
}
