package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/irgraph/pkg/errors"
	"github.com/matzehuels/irgraph/pkg/ir"
)

var kindFromString = map[string]ir.Kind{
	"function":       ir.KindFunction,
	"value":          ir.KindValue,
	"function_block": ir.KindFunctionBlock,
}

var dataTypeFromString = map[string]ir.DataType{
	"int32":   ir.DataTypeInt32,
	"int64":   ir.DataTypeInt64,
	"float32": ir.DataTypeFloat32,
	"float64": ir.DataTypeFloat64,
}

// ReadJSON decodes a JSON graph from r into a fresh registry.
//
// The input must match the format written by [WriteJSON]: a "nodes" array
// in which each entry's id equals its array position, and each entry names
// one of the three variants. Edges and sub-graphs may only reference
// identities present in the array.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A node's id does not equal its position (identities must stay dense)
//   - A node carries an unknown kind
//   - An edge or sub-graph entry references an identity outside the array
//
// Errors are wrapped with the identity of the node that caused the problem.
//
// The returned registry is independent of r and carries a new instance tag.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*ir.Registry, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	reg := ir.NewRegistry()
	for i, nd := range data.Nodes {
		if nd.ID != i {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"node at position %d has id %d, identities must be dense", i, nd.ID)
		}
		kind, ok := kindFromString[nd.Kind]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidKind,
				"node %d: unknown kind %q", nd.ID, nd.Kind)
		}

		n, err := reg.Create(kind)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "node %d", nd.ID)
		}
		if nd.Name != "" {
			n.SetName(nd.Name)
		}
		if nd.Deleted {
			n.SetDeleted()
		}
		n.SetInputs(nd.Inputs)
		n.SetOutputs(nd.Outputs)

		switch kind {
		case ir.KindFunction:
			f, _ := ir.AsFunction(n)
			f.SetOpKind(nd.OpKind)
		case ir.KindValue:
			v, _ := ir.AsValue(n)
			if nd.DataType != "" {
				dt, ok := dataTypeFromString[nd.DataType]
				if !ok {
					return nil, errors.New(errors.ErrCodeInvalidFormat,
						"node %d: unknown dtype %q", nd.ID, nd.DataType)
				}
				v.SetDataType(dt)
			}
			v.SetDims(nd.Dims)
			v.SetDevice(ir.Device(nd.Device))
		case ir.KindFunctionBlock:
			fb, _ := ir.AsFunctionBlock(n)
			fb.Subgraph = nd.Subgraph
		}
	}

	// Handles are only checked once every node exists, so forward references
	// within the array are allowed.
	for _, nd := range data.Nodes {
		for _, refs := range [][]ir.NodeID{nd.Inputs, nd.Outputs, nd.Subgraph} {
			for _, ref := range refs {
				if _, err := reg.Get(ref); err != nil {
					return nil, errors.Wrap(errors.GetCode(err), err, "node %d", nd.ID)
				}
			}
		}
	}

	return reg, nil
}

// ImportJSON reads a JSON file at path and returns the decoded registry.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. It returns the same validation errors as [ReadJSON] for malformed
// graphs, with the file path added for context on open failures.
func ImportJSON(path string) (*ir.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
