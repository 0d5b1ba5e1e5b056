// Package lineage renders the dependency graph as a mermaid flowchart.
package lineage

import (
	"strings"

	"github.com/ducat-dev/ducat/internal/graph"
)

// Mermaid renders the graph as a left-to-right mermaid flowchart. Nodes
// and edges are emitted in sorted order so the diagram is stable across
// runs of an unchanged unit set.
func Mermaid(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, name := range g.Nodes() {
		b.WriteString("  " + name + "(" + name + ")\n")
		for _, dep := range g.Dependencies(name) {
			b.WriteString("  " + dep + " --> " + name + "\n")
		}
	}
	return b.String()
}
