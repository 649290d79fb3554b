// Package report renders resolved dependency graphs: JSON for build-system
// consumers and mermaid for humans.
package report

import (
	"encoding/json"

	"depscan/internal/engine/module"
)

type graphDocument struct {
	MainModuleName string       `json:"mainModuleName"`
	Modules        []moduleNode `json:"modules"`
}

type moduleNode struct {
	Name               string      `json:"name"`
	Kind               string      `json:"kind"`
	IsPlaceholder      bool        `json:"isPlaceholder"`
	DirectDependencies []moduleRef `json:"directDependencies"`
	SourceFiles        []string    `json:"sourceFiles,omitempty"`
	BuildFlags         []string    `json:"buildFlags,omitempty"`
	SearchPaths        []string    `json:"searchPaths,omitempty"`
}

type moduleRef struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// MarshalGraph serializes a graph deterministically: modules ordered by
// name then kind, dependencies in the order the frontend reported them.
func MarshalGraph(g *module.Graph) ([]byte, error) {
	doc := graphDocument{
		MainModuleName: g.Root.Name,
		Modules:        make([]moduleNode, 0, len(g.Nodes)),
	}

	for _, id := range g.SortedIdentities() {
		info := g.Nodes[id]
		node := moduleNode{
			Name:               id.Name,
			Kind:               id.Kind.String(),
			IsPlaceholder:      info.IsPlaceholder,
			DirectDependencies: make([]moduleRef, 0, len(info.Dependencies)),
			SourceFiles:        info.SourceFiles,
			BuildFlags:         info.BuildFlags,
			SearchPaths:        info.SearchPaths,
		}
		for _, dep := range info.Dependencies {
			node.DirectDependencies = append(node.DirectDependencies, moduleRef{
				Name: dep.Name,
				Kind: dep.Kind.String(),
			})
		}
		doc.Modules = append(doc.Modules, node)
	}

	return json.MarshalIndent(doc, "", "  ")
}
