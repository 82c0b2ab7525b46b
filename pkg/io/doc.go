// Package io provides JSON import and export for computation graphs.
//
// # Overview
//
// This package serializes a graph registry to and from a simple JSON
// format. The format is designed for:
//
//   - Inspecting a graph snapshot outside the pipeline
//   - Integration with external tools that produce or consume graph data
//   - Round-trip preservation: export, re-import, and render identically
//
// # JSON Format
//
// The format is a single object with a registry tag and a node array:
//
//	{
//	  "registry": "6a1f0a2e-...",
//	  "nodes": [
//	    {"id": 0, "kind": "value", "name": "x", "dims": [2, 3], "outputs": [2]},
//	    {"id": 1, "kind": "value", "name": "w", "outputs": [2]},
//	    {"id": 2, "kind": "function", "name": "add", "op_kind": "add", "inputs": [0, 1]}
//	  ]
//	}
//
// Node identities are dense: the id of each entry must equal its position
// in the array. Edges and block sub-graphs reference those identities.
//
// # Node Fields
//
// Required:
//   - id: dense integer identity
//   - kind: "function", "value", or "function_block"
//
// Optional:
//   - name, deleted, inputs, outputs: shared by all variants
//   - op_kind: functions only
//   - dtype, dims, device: values only
//   - subgraph: function blocks only
//
// Attribute bags are deliberately not serialized. Attributes are transient
// pass state with no enumeration; a snapshot carries structure and variant
// payloads only.
//
// # Import and Export
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader. Use [ExportJSON] to write to a file, or [WriteJSON]
// to write to any io.Writer.
//
// An imported registry is a fresh instance: it carries a new instance tag
// rather than the exported one, since identities from the source registry
// have been re-assigned (to identical values) by the importing one.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the
// same registry, but not with concurrent modification.
package io
