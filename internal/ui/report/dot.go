package report

import (
	"fmt"
	"strings"

	"depscan/internal/engine/module"
)

// DOT renders a resolved graph in Graphviz dot syntax. Kinds map to node
// styles: binary modules are shaded, system modules doubled, placeholders
// dashed.
func DOT(g *module.Graph) string {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8];\n\n")

	ids := g.SortedIdentities()
	nodeID := make(map[module.Identity]string, len(ids))
	for i, id := range ids {
		nodeID[id] = fmt.Sprintf("m%d", i)
	}

	for _, id := range ids {
		attrs := fmt.Sprintf("label=%q", id.Name)
		switch id.Kind {
		case module.KindBinary:
			attrs += ", style=\"rounded,filled\", fillcolor=lightgrey"
		case module.KindSystem:
			attrs += ", peripheries=2"
		case module.KindPlaceholder:
			attrs += ", style=\"rounded,dashed\""
		}
		if id == g.Root {
			attrs += ", penwidth=2"
		}
		buf.WriteString(fmt.Sprintf("  %s [%s];\n", nodeID[id], attrs))
	}
	buf.WriteString("\n")

	for _, id := range ids {
		for _, dep := range g.Nodes[id].Dependencies {
			buf.WriteString(fmt.Sprintf("  %s -> %s;\n", nodeID[id], nodeID[dep]))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
