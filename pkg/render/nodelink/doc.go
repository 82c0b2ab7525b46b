// Package nodelink renders computation graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// nodes appear as boxes connected by arrows. Dataflow edges are drawn solid;
// block containment edges are drawn dashed.
//
// # Usage
//
// Convert a registry to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(reg, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PNG output:
//
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: include each node's display pairs in its label
//   - Tombstoned: include deleted nodes, drawn dashed and grey
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes so dataflow reads from inputs at the top to outputs at the
// bottom.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no external Graphviz installation is required.
package nodelink
