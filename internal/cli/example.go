package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/irgraph/pkg/io"
	"github.com/matzehuels/irgraph/pkg/ir"
)

// newExampleCmd creates the example command, which writes a small demo
// graph snapshot for experimenting with inspect, render, and serve.
func newExampleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write a small example computation graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			reg := buildExampleGraph()
			if err := io.ExportJSON(reg, output); err != nil {
				return err
			}
			logger.Debugf("Wrote %d nodes", reg.Len())

			printSuccess("Wrote example graph")
			printFile(output)
			printStats(reg.Len(), countEdges(reg), false)
			printNewline()
			printNextStep("Inspect it", fmt.Sprintf("%s inspect %s", appName, output))
			printNextStep("Render it", fmt.Sprintf("%s render %s", appName, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file path")

	return cmd
}

// buildExampleGraph assembles a tiny linear-layer graph: two input tensors,
// a matmul, a bias add, and an output tensor, wrapped in a function block.
func buildExampleGraph() *ir.Registry {
	reg := ir.NewRegistry()

	x := reg.CreateValue()
	x.SetName("x")
	x.SetDataType(ir.DataTypeFloat32)
	x.SetDims([]int{2, 3})

	w := reg.CreateValue()
	w.SetName("w")
	w.SetDataType(ir.DataTypeFloat32)
	w.SetDims([]int{3, 4})

	mul := reg.CreateFunction()
	mul.SetName("mul")
	mul.SetOpKind("matmul")

	h := reg.CreateValue()
	h.SetName("h")
	h.SetDataType(ir.DataTypeFloat32)
	h.SetDims([]int{2, 4})

	b := reg.CreateValue()
	b.SetName("b")
	b.SetDataType(ir.DataTypeFloat32)
	b.SetDims([]int{4})

	add := reg.CreateFunction()
	add.SetName("add")
	add.SetOpKind("add")

	out := reg.CreateValue()
	out.SetName("out")
	out.SetDataType(ir.DataTypeFloat32)
	out.SetDims([]int{2, 4})

	reg.Link(x.ID(), mul.ID())
	reg.Link(w.ID(), mul.ID())
	reg.Link(mul.ID(), h.ID())
	reg.Link(h.ID(), add.ID())
	reg.Link(b.ID(), add.ID())
	reg.Link(add.ID(), out.ID())

	block := reg.CreateFunctionBlock()
	block.SetName("linear")
	block.Subgraph = []ir.NodeID{
		x.ID(), w.ID(), mul.ID(), h.ID(), b.ID(), add.ID(), out.ID(),
	}

	return reg
}

// countEdges counts dataflow edges by summing output degrees.
func countEdges(reg *ir.Registry) int {
	total := 0
	for _, n := range reg.Nodes() {
		total += len(n.Outputs())
	}
	return total
}
