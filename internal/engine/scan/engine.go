// Package scan holds the dependency resolution engine and the batch
// orchestrator. The engine walks imports depth-first, memoized through the
// dependency cache, and assembles the transitive graph for a root module.
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"depscan/internal/core/diag"
	scanerrors "depscan/internal/core/errors"
	"depscan/internal/engine/cache"
	"depscan/internal/engine/frontend"
	"depscan/internal/engine/module"
	"depscan/internal/shared/observability"
)

// Engine resolves one root module's transitive dependency graph against a
// shared cache. A node is inserted into the cache only after all of its own
// direct imports are resolved or placeholder-terminated, so any cached entry
// is transitively complete and a cache hit needs no re-walk.
type Engine struct {
	frontend frontend.Frontend
	cache    *cache.Cache
	sink     diag.Sink
}

func NewEngine(f frontend.Frontend, c *cache.Cache, sink diag.Sink) *Engine {
	return &Engine{frontend: f, cache: c, sink: sink}
}

// Resolve walks the graph from rootName. On failure the cache keeps every
// subtree that resolved before the fatal condition; future scans against the
// same cache reuse them.
func (e *Engine) Resolve(ctx context.Context, rootName string, placeholders module.PlaceholderSet) (*module.Graph, error) {
	ctx, span := observability.Tracer.Start(ctx, "engine.Resolve")
	defer span.End()

	start := time.Now()
	rootID, err := e.resolve(ctx, rootName, placeholders, nil, make(map[string]bool))
	if err != nil {
		observability.ScanDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, err
	}
	observability.ScanDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	graph, err := e.assemble(rootID)
	if err != nil {
		return nil, err
	}
	observability.GraphNodes.Set(float64(len(graph.Nodes)))
	observability.GraphEdges.Set(float64(graph.EdgeCount()))
	return graph, nil
}

// resolve handles one module name and returns the identity it resolved to.
// path is the in-progress traversal chain (root first) used for cycle
// detection and error diagnostics.
func (e *Engine) resolve(ctx context.Context, name string, placeholders module.PlaceholderSet, path []string, onPath map[string]bool) (module.Identity, error) {
	if err := ctx.Err(); err != nil {
		return module.Identity{}, err
	}

	// Placeholders are opaque leaves: recorded once, never expanded, even
	// when a real definition would be discoverable.
	if placeholders.Contains(name) {
		if info, ok := e.cache.Lookup(name); ok {
			return info.ID, nil
		}
		info := e.cache.Insert(&module.Info{
			ID:            module.PlaceholderID(name),
			IsPlaceholder: true,
		})
		diag.Notef(e.sink, name, "recorded placeholder module")
		return info.ID, nil
	}

	if info, ok := e.cache.Lookup(name); ok {
		observability.CacheHits.Inc()
		return info.ID, nil
	}

	if onPath[name] {
		cycle := cycleFrom(path, name)
		err := scanerrors.CyclicDependency(cycle)
		diag.Errorf(e.sink, name, "%s", err.Message)
		return module.Identity{}, err
	}

	observability.CacheMisses.Inc()
	desc, err := e.frontend.ScanModule(ctx, name)
	if err != nil {
		var se *scanerrors.ScanError
		if errors.As(err, &se) {
			se.WithChain(append(append([]string(nil), path...), name))
			diag.Errorf(e.sink, name, "%s", se.Message)
		}
		return module.Identity{}, err
	}

	onPath[name] = true
	path = append(path, name)

	deps := make([]module.Identity, 0, len(desc.Imports))
	for _, imp := range desc.Imports {
		depID, err := e.resolve(ctx, imp, placeholders, path, onPath)
		if err != nil {
			return module.Identity{}, err
		}
		deps = append(deps, depID)
	}

	onPath[name] = false

	info := e.cache.Insert(&module.Info{
		ID:           desc.ID,
		Dependencies: deps,
		SourceFiles:  desc.SourceFiles,
		BuildFlags:   desc.BuildFlags,
		SearchPaths:  desc.SearchPaths,
	})
	return info.ID, nil
}

// assemble reads the set of nodes reachable from root back out of the cache.
func (e *Engine) assemble(root module.Identity) (*module.Graph, error) {
	nodes := make(map[module.Identity]*module.Info)
	queue := []module.Identity{root}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, done := nodes[id]; done {
			continue
		}
		info, ok := e.cache.Get(id)
		if !ok {
			return nil, scanerrors.Wrap(
				fmt.Errorf("reachable module %s missing from cache", id),
				scanerrors.CodeInternal, "inconsistent dependency cache")
		}
		nodes[id] = info
		queue = append(queue, info.Dependencies...)
	}

	return &module.Graph{Root: root, Nodes: nodes}, nil
}

// cycleFrom slices the traversal path into the reported cycle [A, ..., A].
func cycleFrom(path []string, name string) []string {
	start := 0
	for i, n := range path {
		if n == name {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	cycle = append(cycle, name)
	return cycle
}
