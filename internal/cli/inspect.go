package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/irgraph/pkg/io"
	"github.com/matzehuels/irgraph/pkg/ir"
)

// newInspectCmd creates the inspect command, which prints a graph
// snapshot's structure. With --interactive it opens a scrollable node
// browser instead.
func newInspectCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Inspect a computation graph snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}

			if interactive {
				return runNodeBrowser(reg)
			}
			printGraph(reg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse nodes interactively")

	return cmd
}

// printGraph prints a summary followed by one line per node.
func printGraph(reg *ir.Registry) {
	counts := map[ir.Kind]int{}
	tombstoned := 0
	for _, n := range reg.Nodes() {
		counts[n.Kind()]++
		if n.Deleted() {
			tombstoned++
		}
	}

	printKeyValue("registry", reg.InstanceID().String())
	printKeyValue("nodes", fmt.Sprintf("%d", reg.Len()))
	printKeyValue("functions", fmt.Sprintf("%d", counts[ir.KindFunction]))
	printKeyValue("values", fmt.Sprintf("%d", counts[ir.KindValue]))
	printKeyValue("blocks", fmt.Sprintf("%d", counts[ir.KindFunctionBlock]))
	if tombstoned > 0 {
		printKeyValue("tombstoned", fmt.Sprintf("%d", tombstoned))
	}
	printNewline()

	for _, n := range reg.Nodes() {
		line := fmt.Sprintf("%4d  %-14s %-20s %s", n.ID(), n.Kind(), n.Describe(), nodeDetail(n))
		if n.Deleted() {
			printDetail("%s", line+"  (tombstoned)")
			continue
		}
		fmt.Println("  " + line)
	}
}

// nodeDetail renders a node's variant-specific display pairs on one line.
func nodeDetail(n ir.Node) string {
	var parts []string
	for _, ra := range n.RenderAttrs() {
		if ra.Key == "style" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", ra.Key, ra.Value))
	}
	return strings.Join(parts, " ")
}

// runNodeBrowser opens the interactive node list.
func runNodeBrowser(reg *ir.Registry) error {
	model := NewNodeListModel(reg.Nodes())
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}

	m, ok := final.(NodeListModel)
	if !ok || m.Selected == nil {
		return nil
	}

	// Show the selected node's full detail after the browser closes.
	n := *m.Selected
	printKeyValue("node", n.Describe())
	printKeyValue("kind", n.Kind().String())
	for _, ra := range n.RenderAttrs() {
		printKeyValue(ra.Key, ra.Value)
	}
	printKeyValue("inputs", formatIDs(n.Inputs()))
	printKeyValue("outputs", formatIDs(n.Outputs()))
	return nil
}

// formatIDs renders a handle list like "0, 3, 7", or a dash when empty.
func formatIDs(ids []ir.NodeID) string {
	if len(ids) == 0 {
		return "—"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
