// Package tool holds the public façade of the dependency scanner. A Tool
// owns exactly one dependency cache and one diagnostic sink for its entire
// lifetime; repeated queries against the same tool reuse previously
// resolved modules.
package tool

import (
	"context"
	"time"

	"depscan/internal/core/diag"
	scanerrors "depscan/internal/core/errors"
	"depscan/internal/data/history"
	"depscan/internal/engine/cache"
	"depscan/internal/engine/frontend"
	"depscan/internal/engine/module"
	"depscan/internal/engine/scan"
	"depscan/internal/ui/report"

	"github.com/google/uuid"
)

// Options configures a Tool at construction.
type Options struct {
	SystemModules []string
	ExcludeDirs   []string
	ExcludeFiles  []string
	// History is optional; when set, every scan is recorded.
	History *history.Store
	// Frontend overrides the shipped search-path frontend, mainly for
	// tests. When nil the tool bootstraps a real instance per call.
	Frontend frontend.Frontend
}

// Tool is not safe for concurrent calls: the cache is mutated without
// synchronization during traversal. Run independent Tool instances for
// parallelism (see Pool).
type Tool struct {
	cache *cache.Cache
	sink  diag.Sink
	opts  Options
}

func New(sink diag.Sink, opts Options) *Tool {
	if sink == nil {
		sink = diag.NewPrintingSink(nil)
	}
	return &Tool{
		cache: cache.New(),
		sink:  sink,
		opts:  opts,
	}
}

// Sink returns the tool's diagnostic sink.
func (t *Tool) Sink() diag.Sink {
	return t.sink
}

// CachedModules reports how many module records the tool has accumulated.
func (t *Tool) CachedModules() int {
	return t.cache.Len()
}

// GetDependencies bootstraps a frontend from the invocation arguments,
// resolves the full transitive graph of the invocation's root module, and
// returns its serialized form. On failure the returned error carries the
// diagnostic text; subtrees that resolved before the failure stay cached.
func (t *Tool) GetDependencies(ctx context.Context, args []string, placeholders module.PlaceholderSet) (string, error) {
	f, rootName, err := t.bootstrap(args)
	if err != nil {
		return "", err
	}

	start := time.Now()
	engine := scan.NewEngine(f, t.cache, t.sink)
	graph, err := engine.Resolve(ctx, rootName, placeholders)
	t.record("", rootName, start, graph, err)
	if err != nil {
		return "", err
	}

	data, err := report.MarshalGraph(graph)
	if err != nil {
		return "", scanerrors.Wrap(err, scanerrors.CodeInternal, "serialize dependency graph")
	}
	return string(data), nil
}

// GetDependenciesGraph is GetDependencies without the serialization step,
// for callers that inspect the graph in process.
func (t *Tool) GetDependenciesGraph(ctx context.Context, args []string, placeholders module.PlaceholderSet) (*module.Graph, error) {
	f, rootName, err := t.bootstrap(args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	engine := scan.NewEngine(f, t.cache, t.sink)
	graph, err := engine.Resolve(ctx, rootName, placeholders)
	t.record("", rootName, start, graph, err)
	return graph, err
}

// GetDependenciesBatch bootstraps once and resolves each batch entry
// against the tool's shared cache, writing each entry's graph to its output
// path. Per-entry failures do not abort siblings.
func (t *Tool) GetDependenciesBatch(ctx context.Context, args []string, inputs []scan.BatchInput, placeholders module.PlaceholderSet) (*scan.BatchResult, error) {
	inst, err := t.instance(args)
	if err != nil {
		return nil, err
	}

	orch := scan.NewOrchestrator(inst, t.cache, t.sink, report.MarshalGraph)

	start := time.Now()
	result := orch.RunBatch(ctx, inputs, placeholders)
	if t.opts.History != nil {
		for _, entry := range result.Entries {
			rec := history.Record{
				ScanID:        uuid.NewString(),
				JobID:         result.JobID,
				RootModule:    entry.Input.ModuleName,
				Duration:      time.Since(start),
				CachedModules: t.cache.Len(),
				Success:       entry.Err == nil,
			}
			if entry.Err != nil {
				rec.ErrorCode = string(scanerrors.CodeOf(entry.Err))
			}
			if err := t.opts.History.Save(rec); err != nil {
				diag.Notef(t.sink, entry.Input.ModuleName, "history record not saved: %v", err)
			}
		}
	}
	return result, nil
}

// bootstrap returns the frontend to use for one call and the root module
// name from the invocation.
func (t *Tool) bootstrap(args []string) (frontend.Frontend, string, error) {
	inv, diags := frontend.ParseInvocation(args)
	if t.opts.Frontend != nil && len(diags) == 0 {
		return t.opts.Frontend, inv.ModuleName, nil
	}

	inst, err := t.instance(args)
	if err != nil {
		return nil, "", err
	}
	return inst, inst.Invocation().ModuleName, nil
}

func (t *Tool) instance(args []string) (*frontend.Instance, error) {
	return frontend.NewInstance(args, frontend.Options{
		SystemModules: t.opts.SystemModules,
		ExcludeDirs:   t.opts.ExcludeDirs,
		ExcludeFiles:  t.opts.ExcludeFiles,
	})
}

func (t *Tool) record(jobID, rootName string, start time.Time, graph *module.Graph, scanErr error) {
	if t.opts.History == nil {
		return
	}

	rec := history.Record{
		ScanID:        uuid.NewString(),
		JobID:         jobID,
		RootModule:    rootName,
		Duration:      time.Since(start),
		CachedModules: t.cache.Len(),
		Success:       scanErr == nil,
	}
	if graph != nil {
		rec.ModuleCount = len(graph.Nodes)
		rec.EdgeCount = graph.EdgeCount()
		for _, info := range graph.Nodes {
			if info.IsPlaceholder {
				rec.PlaceholderCount++
			}
		}
	}
	if scanErr != nil {
		rec.ErrorCode = string(scanerrors.CodeOf(scanErr))
	}
	if err := t.opts.History.Save(rec); err != nil {
		diag.Notef(t.sink, rootName, "history record not saved: %v", err)
	}
}
