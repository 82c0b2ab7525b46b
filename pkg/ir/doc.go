// Package ir defines the node model of a computation graph used by the
// analysis and optimization passes of an inference pipeline.
//
// A graph is built from a closed set of node variants: [Function] (an
// operator), [Value] (typed data flowing between operators), and
// [FunctionBlock] (a nested sub-graph). All variants share the [Node]
// capability set: a dense integer identity, an optional name, a tombstone
// flag, an attribute bag for pass-local annotations, and ordered input and
// output edge lists.
//
// # Ownership and identity
//
// All nodes are created through, and owned by, a [Registry]. The Registry
// assigns each node a dense [NodeID] equal to its position in the owned
// sequence, which makes lookups O(1) and lets edges be stored as stable
// integer handles instead of raw references. Edges never dangle silently:
// resolving a stale handle through [Registry.Get] fails loudly with an
// OUT_OF_RANGE error.
//
// Nodes are never destroyed individually. [Registry.Remove] tombstones a
// node, leaving its storage and identity valid and inspectable; edges held
// by other nodes are not repaired and passes must filter tombstoned nodes
// explicitly. Storage lives exactly as long as the Registry.
//
// # Attributes
//
// Each node carries an [AttrBag]: a lazily populated map from attribute
// name to a tagged scalar ([AttrValue]). The first typed access to a name
// creates the slot with that type's zero value and locks the type; any
// later access under a different type fails with a TYPE_MISMATCH error.
// There is no way to enumerate, remove, or retype attributes.
//
// # Concurrency
//
// A Registry and its nodes are not safe for concurrent mutation. The usage
// model is cooperative: one pass at a time holds the Registry.
//
// # Example
//
//	reg := ir.NewRegistry()
//	v1 := reg.CreateValue()
//	v1.SetDims([]int{2, 3})
//	v2 := reg.CreateValue()
//	f := reg.CreateFunction()
//	f.SetOpKind("add")
//	f.SetInputs([]ir.NodeID{v1.ID(), v2.ID()})
package ir
