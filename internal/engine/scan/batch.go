package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"depscan/internal/core/diag"
	scanerrors "depscan/internal/core/errors"
	"depscan/internal/engine/cache"
	"depscan/internal/engine/frontend"
	"depscan/internal/engine/module"
	"depscan/internal/shared/observability"

	"github.com/google/uuid"
)

// BatchInput is one external batch request unit: a module name to resolve
// and where to write its serialized graph. Consumed, never stored past the
// batch call.
type BatchInput struct {
	ModuleName string
	OutputPath string
}

// EntryResult records one entry's outcome. Err is nil when the entry's
// graph was written to its output path.
type EntryResult struct {
	Input BatchInput
	Err   error
}

// BatchResult aggregates a whole batch job. The job succeeds only if every
// entry succeeded; failing entries carry their diagnostics but never abort
// siblings.
type BatchResult struct {
	JobID   string
	Entries []EntryResult
}

func (r *BatchResult) Succeeded() bool {
	for _, e := range r.Entries {
		if e.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the entries that did not resolve.
func (r *BatchResult) Failed() []EntryResult {
	var failed []EntryResult
	for _, e := range r.Entries {
		if e.Err != nil {
			failed = append(failed, e)
		}
	}
	return failed
}

// Diagnostics renders the collected per-entry failure text.
func (r *BatchResult) Diagnostics() string {
	var b strings.Builder
	for _, e := range r.Failed() {
		fmt.Fprintf(&b, "%s: %v\n", e.Input.ModuleName, e.Err)
	}
	return b.String()
}

// GraphSerializer turns a resolved graph into the bytes written to a batch
// entry's output path.
type GraphSerializer func(*module.Graph) ([]byte, error)

// Orchestrator drives the resolution engine once per batch entry against
// one shared cache. The frontend configuration is bootstrapped once per
// batch; only the root module name differs between entries.
type Orchestrator struct {
	frontend  frontend.Frontend
	cache     *cache.Cache
	sink      diag.Sink
	serialize GraphSerializer
}

func NewOrchestrator(f frontend.Frontend, c *cache.Cache, sink diag.Sink, serialize GraphSerializer) *Orchestrator {
	return &Orchestrator{frontend: f, cache: c, sink: sink, serialize: serialize}
}

// RunBatch processes the inputs in order. A per-entry failure is recorded
// and the batch moves on; one bad module name must not prevent resolving
// the rest.
func (o *Orchestrator) RunBatch(ctx context.Context, inputs []BatchInput, placeholders module.PlaceholderSet) *BatchResult {
	ctx, span := observability.Tracer.Start(ctx, "orchestrator.RunBatch")
	defer span.End()

	result := &BatchResult{
		JobID:   uuid.NewString(),
		Entries: make([]EntryResult, 0, len(inputs)),
	}

	engine := NewEngine(o.frontend, o.cache, o.sink)
	for _, input := range inputs {
		err := o.runEntry(ctx, engine, input, placeholders)
		if err != nil {
			observability.BatchEntriesTotal.WithLabelValues("error").Inc()
			err = scanerrors.BatchEntry(input.ModuleName, err)
		} else {
			observability.BatchEntriesTotal.WithLabelValues("ok").Inc()
		}
		result.Entries = append(result.Entries, EntryResult{Input: input, Err: err})
	}
	return result
}

func (o *Orchestrator) runEntry(ctx context.Context, engine *Engine, input BatchInput, placeholders module.PlaceholderSet) error {
	ctx, span := observability.Tracer.Start(ctx, "orchestrator.runEntry")
	defer span.End()

	if strings.TrimSpace(input.ModuleName) == "" {
		return scanerrors.New(scanerrors.CodeInvalidInvocation, "batch entry has empty module name")
	}
	if strings.TrimSpace(input.OutputPath) == "" {
		return scanerrors.Newf(scanerrors.CodeInvalidInvocation, "batch entry %q has empty output path", input.ModuleName)
	}

	graph, err := engine.Resolve(ctx, input.ModuleName, placeholders)
	if err != nil {
		return err
	}

	data, err := o.serialize(graph)
	if err != nil {
		return scanerrors.Wrap(err, scanerrors.CodeInternal, "serialize dependency graph")
	}

	if dir := filepath.Dir(input.OutputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return scanerrors.Wrap(err, scanerrors.CodeInternal, "create output directory")
		}
	}
	if err := os.WriteFile(input.OutputPath, data, 0o644); err != nil {
		return scanerrors.Wrap(err, scanerrors.CodeInternal, "write dependency graph")
	}
	return nil
}
