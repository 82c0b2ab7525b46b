package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/irgraph/pkg/ir"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes each node's display pairs (operator kind, element
	// type, shape) in its label. When false, only Describe output is shown.
	Detailed bool

	// Tombstoned includes nodes marked deleted, drawn dashed and grey.
	// When false they are omitted along with their edges.
	Tombstoned bool
}

// ToDOT converts a registry's graph to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered using [RenderSVG]
// or [RenderPNG].
//
// Function blocks are connected to their sub-graph members with dashed
// containment edges, distinct from the solid dataflow edges.
func ToDOT(reg *ir.Registry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	skip := make(map[ir.NodeID]bool)
	for _, n := range reg.Nodes() {
		if n.Deleted() && !opts.Tombstoned {
			skip[n.ID()] = true
			continue
		}
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range reg.Nodes() {
		if skip[n.ID()] {
			continue
		}
		for _, out := range n.Outputs() {
			if skip[out] {
				continue
			}
			fmt.Fprintf(&buf, "  %d -> %d;\n", n.ID(), out)
		}
		if fb, err := ir.AsFunctionBlock(n); err == nil {
			for _, member := range fb.Subgraph {
				if skip[member] {
					continue
				}
				fmt.Fprintf(&buf, "  %d -> %d [style=dashed, arrowhead=none];\n", n.ID(), member)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n ir.Node, detailed bool) string {
	if !detailed {
		return n.Describe()
	}

	parts := []string{n.Describe()}
	for _, ra := range n.RenderAttrs() {
		if ra.Key == "style" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", ra.Key, ra.Value))
	}

	return strings.Join(parts, "\n")
}

func fmtAttrs(n ir.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Deleted() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or embedding.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG, nil)
}

func render(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if post != nil {
		return post(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
