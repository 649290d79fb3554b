package report

import (
	"fmt"
	"strings"

	"depscan/internal/engine/module"
)

// Mermaid renders a resolved graph as a flowchart. Placeholder and system
// modules get distinct styling so opaque leaves are visible at a glance.
func Mermaid(g *module.Graph) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	ids := g.SortedIdentities()
	nodeID := make(map[module.Identity]string, len(ids))
	for i, id := range ids {
		nodeID[id] = fmt.Sprintf("m%d", i)
	}

	for _, id := range ids {
		label := id.Name
		switch id.Kind {
		case module.KindPlaceholder:
			b.WriteString(fmt.Sprintf("    %s[/%q/]\n", nodeID[id], label+" (placeholder)"))
		case module.KindSystem:
			b.WriteString(fmt.Sprintf("    %s[[%q]]\n", nodeID[id], label))
		case module.KindBinary:
			b.WriteString(fmt.Sprintf("    %s[(%q)]\n", nodeID[id], label))
		default:
			b.WriteString(fmt.Sprintf("    %s[%q]\n", nodeID[id], label))
		}
	}

	for _, id := range ids {
		for _, dep := range g.Nodes[id].Dependencies {
			b.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID[id], nodeID[dep]))
		}
	}

	return b.String()
}
