package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/irgraph/pkg/errors"
	"github.com/matzehuels/irgraph/pkg/ir"
)

type document struct {
	Registry string `json:"registry"`
	Nodes    []node `json:"nodes"`
}

type node struct {
	ID      int    `json:"id"`
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`

	Inputs  []ir.NodeID `json:"inputs,omitempty"`
	Outputs []ir.NodeID `json:"outputs,omitempty"`

	// Function payload.
	OpKind string `json:"op_kind,omitempty"`

	// Value payload.
	DataType string `json:"dtype,omitempty"`
	Dims     []int  `json:"dims,omitempty"`
	Device   int    `json:"device,omitempty"`

	// FunctionBlock payload.
	Subgraph []ir.NodeID `json:"subgraph,omitempty"`
}

// WriteJSON encodes a registry's graph as JSON and writes it to w.
// The output includes all nodes in identity order, tombstoned ones
// included, with their edges and variant payloads. Attribute bags are
// not serialized. The format can be re-imported with [ReadJSON].
func WriteJSON(reg *ir.Registry, w io.Writer) error {
	out := document{
		Registry: reg.InstanceID().String(),
		Nodes:    make([]node, reg.Len()),
	}

	for i, n := range reg.Nodes() {
		nd := node{
			ID:      int(n.ID()),
			Kind:    n.Kind().String(),
			Name:    n.Name(),
			Deleted: n.Deleted(),
			Inputs:  n.Inputs(),
			Outputs: n.Outputs(),
		}
		switch n.Kind() {
		case ir.KindFunction:
			f, err := ir.AsFunction(n)
			if err != nil {
				return err
			}
			nd.OpKind = f.OpKind()
		case ir.KindValue:
			v, err := ir.AsValue(n)
			if err != nil {
				return err
			}
			nd.DataType = v.DataType().String()
			nd.Dims = v.Dims()
			nd.Device = int(v.Device())
		case ir.KindFunctionBlock:
			fb, err := ir.AsFunctionBlock(n)
			if err != nil {
				return err
			}
			nd.Subgraph = fb.Subgraph
		}
		out.Nodes[i] = nd
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// ExportJSON writes a registry's graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(reg *ir.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(reg, f)
}
