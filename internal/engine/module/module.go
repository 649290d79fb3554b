package module

import (
	"fmt"
	"sort"
)

// Kind discriminates how a module was resolved. Two modules with the same
// name but different kinds are distinct graph nodes.
type Kind int

const (
	KindSource Kind = iota
	KindBinary
	KindSystem
	KindPlaceholder
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindBinary:
		return "binary"
	case KindSystem:
		return "system"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Identity is the cache key for one dependency-graph node: module name plus
// kind. Immutable once constructed.
type Identity struct {
	Name string
	Kind Kind
}

func (id Identity) String() string {
	return fmt.Sprintf("%s(%s)", id.Name, id.Kind)
}

func SourceID(name string) Identity      { return Identity{Name: name, Kind: KindSource} }
func BinaryID(name string) Identity      { return Identity{Name: name, Kind: KindBinary} }
func SystemID(name string) Identity      { return Identity{Name: name, Kind: KindSystem} }
func PlaceholderID(name string) Identity { return Identity{Name: name, Kind: KindPlaceholder} }

// Info is one node of the dependency graph: a module's identity, its direct
// dependency edges, and whatever context is needed to later compile it.
// Created exactly once per identity by the resolution engine and never
// mutated afterwards; graphs hold it by reference out of the cache.
type Info struct {
	ID Identity

	// Direct imports in the order the frontend reported them.
	Dependencies []Identity

	// Source files backing a source module, empty for other kinds.
	SourceFiles []string

	// Per-module build flags recorded from the invocation or a binary
	// manifest.
	BuildFlags []string

	// Search path context for later compilation of this module.
	SearchPaths []string

	// Placeholder modules are opaque leaves: asserted to exist by the
	// caller, dependencies never expanded.
	IsPlaceholder bool
}

// Clone returns an independent copy. The cache hands out clones so callers
// can never mutate the arena's canonical record.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	c := *i
	c.Dependencies = append([]Identity(nil), i.Dependencies...)
	c.SourceFiles = append([]string(nil), i.SourceFiles...)
	c.BuildFlags = append([]string(nil), i.BuildFlags...)
	c.SearchPaths = append([]string(nil), i.SearchPaths...)
	return &c
}

// Graph is the result of one scan: a root identity plus every node
// transitively reachable from it. It is a view assembled from the cache,
// not an independently owned structure.
type Graph struct {
	Root  Identity
	Nodes map[Identity]*Info
}

// SortedIdentities returns the node identities ordered by name, then kind,
// for deterministic serialization.
func (g *Graph) SortedIdentities() []Identity {
	ids := make([]Identity, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		if ids[a].Name != ids[b].Name {
			return ids[a].Name < ids[b].Name
		}
		return ids[a].Kind < ids[b].Kind
	})
	return ids
}

// EdgeCount returns the number of direct-dependency edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, info := range g.Nodes {
		n += len(info.Dependencies)
	}
	return n
}

// PlaceholderSet is the caller-supplied set of module names that must be
// treated as opaque leaves during traversal.
type PlaceholderSet map[string]bool

func NewPlaceholderSet(names ...string) PlaceholderSet {
	s := make(PlaceholderSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

func (s PlaceholderSet) Contains(name string) bool {
	return s[name]
}
