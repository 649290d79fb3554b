package report

import (
	"fmt"
	"strings"

	"depscan/internal/engine/module"
)

// TSV renders the graph's edge list for spreadsheet or awk consumption, one
// direct dependency per row.
func TSV(g *module.Graph) string {
	var buf strings.Builder
	buf.WriteString("From\tFromKind\tTo\tToKind\n")

	for _, id := range g.SortedIdentities() {
		for _, dep := range g.Nodes[id].Dependencies {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\n",
				id.Name, id.Kind, dep.Name, dep.Kind))
		}
	}
	return buf.String()
}
