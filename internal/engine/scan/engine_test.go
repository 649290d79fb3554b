package scan

import (
	"context"
	"testing"

	"depscan/internal/core/diag"
	scanerrors "depscan/internal/core/errors"
	"depscan/internal/engine/cache"
	"depscan/internal/engine/frontend"
	"depscan/internal/engine/module"
)

// fakeFrontend serves descriptors from a fixture map and counts scans per
// module.
type fakeFrontend struct {
	modules map[string]*frontend.Descriptor
	calls   map[string]int
}

func newFakeFrontend() *fakeFrontend {
	return &fakeFrontend{
		modules: make(map[string]*frontend.Descriptor),
		calls:   make(map[string]int),
	}
}

func (f *fakeFrontend) addSource(name string, imports ...string) {
	f.modules[name] = &frontend.Descriptor{
		ID:      module.SourceID(name),
		Imports: imports,
	}
}

func (f *fakeFrontend) addBinary(name string, imports ...string) {
	f.modules[name] = &frontend.Descriptor{
		ID:      module.BinaryID(name),
		Imports: imports,
	}
}

func (f *fakeFrontend) ScanModule(_ context.Context, name string) (*frontend.Descriptor, error) {
	f.calls[name]++
	desc, ok := f.modules[name]
	if !ok {
		return nil, scanerrors.ModuleNotFound(name, []string{"fixture"})
	}
	return desc, nil
}

func newTestEngine(f frontend.Frontend) (*Engine, *cache.Cache, *diag.CapturingSink) {
	c := cache.New()
	sink := diag.NewCapturingSink()
	return NewEngine(f, c, sink), c, sink
}

func TestResolve_GraphCompleteness(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("R", "X", "Y")
	f.addSource("X", "Z")
	f.addSource("Y")
	f.addSource("Z")

	engine, _, _ := newTestEngine(f)
	graph, err := engine.Resolve(context.Background(), "R", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(graph.Nodes) != 4 {
		t.Fatalf("Expected 4 nodes, got %d", len(graph.Nodes))
	}
	for _, name := range []string{"R", "X", "Y", "Z"} {
		if _, ok := graph.Nodes[module.SourceID(name)]; !ok {
			t.Errorf("Expected node %s in graph", name)
		}
	}

	r := graph.Nodes[module.SourceID("R")]
	if len(r.Dependencies) != 2 || r.Dependencies[0].Name != "X" || r.Dependencies[1].Name != "Y" {
		t.Errorf("Expected R -> [X, Y], got %v", r.Dependencies)
	}
	x := graph.Nodes[module.SourceID("X")]
	if len(x.Dependencies) != 1 || x.Dependencies[0].Name != "Z" {
		t.Errorf("Expected X -> [Z], got %v", x.Dependencies)
	}
	if graph.EdgeCount() != 3 {
		t.Errorf("Expected 3 edges, got %d", graph.EdgeCount())
	}
}

func TestResolve_CacheIdempotence(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("A", "B")
	f.addSource("B")

	engine, _, _ := newTestEngine(f)
	ctx := context.Background()

	first, err := engine.Resolve(ctx, "A", nil)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := engine.Resolve(ctx, "A", nil)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}

	if f.calls["A"] != 1 || f.calls["B"] != 1 {
		t.Errorf("Expected one frontend scan per module, got %v", f.calls)
	}

	firstA := first.Nodes[module.SourceID("A")]
	secondA := second.Nodes[module.SourceID("A")]
	if firstA != secondA {
		t.Error("Expected the cached node to be shared by reference across scans")
	}
	if len(secondA.Dependencies) != 1 || secondA.Dependencies[0].Name != "B" {
		t.Errorf("Expected identical content on cache hit, got %v", secondA.Dependencies)
	}
}

func TestResolve_PlaceholderContainment(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("App", "Ext")
	// Ext has a real definition with dependencies, but the caller asserts
	// it is external; the traversal must not expand it.
	f.addSource("Ext", "Hidden")

	engine, _, _ := newTestEngine(f)
	graph, err := engine.Resolve(context.Background(), "App", module.NewPlaceholderSet("Ext"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	ext, ok := graph.Nodes[module.PlaceholderID("Ext")]
	if !ok {
		t.Fatal("Expected a placeholder node for Ext")
	}
	if !ext.IsPlaceholder {
		t.Error("Expected IsPlaceholder to be set")
	}
	if len(ext.Dependencies) != 0 {
		t.Errorf("Expected placeholder to have no dependencies, got %v", ext.Dependencies)
	}
	if f.calls["Ext"] != 0 {
		t.Error("Expected the frontend to never be consulted for a placeholder")
	}
	if _, ok := graph.Nodes[module.SourceID("Hidden")]; ok {
		t.Error("Expected Hidden to stay out of the graph")
	}
}

func TestResolve_CycleDetection(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("A", "B")
	f.addSource("B", "A")

	engine, _, _ := newTestEngine(f)
	_, err := engine.Resolve(context.Background(), "A", nil)
	if err == nil {
		t.Fatal("Expected a cycle error")
	}
	if !scanerrors.IsCode(err, scanerrors.CodeCyclicDependency) {
		t.Fatalf("Expected CYCLIC_DEPENDENCY, got %v", err)
	}

	se := err.(*scanerrors.ScanError)
	want := []string{"A", "B", "A"}
	if len(se.ImportChain) != len(want) {
		t.Fatalf("Expected cycle %v, got %v", want, se.ImportChain)
	}
	for i := range want {
		if se.ImportChain[i] != want[i] {
			t.Fatalf("Expected cycle %v, got %v", want, se.ImportChain)
		}
	}
}

func TestResolve_SelfImportCycle(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("Loop", "Loop")

	engine, _, _ := newTestEngine(f)
	_, err := engine.Resolve(context.Background(), "Loop", nil)
	if !scanerrors.IsCode(err, scanerrors.CodeCyclicDependency) {
		t.Fatalf("Expected CYCLIC_DEPENDENCY, got %v", err)
	}
}

func TestResolve_NotFoundReportsImportChain(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("Root", "Mid")
	f.addSource("Mid", "Gone")

	engine, _, sink := newTestEngine(f)
	_, err := engine.Resolve(context.Background(), "Root", nil)
	if !scanerrors.IsCode(err, scanerrors.CodeModuleNotFound) {
		t.Fatalf("Expected MODULE_NOT_FOUND, got %v", err)
	}

	se := err.(*scanerrors.ScanError)
	want := []string{"Root", "Mid", "Gone"}
	if len(se.ImportChain) != len(want) {
		t.Fatalf("Expected chain %v, got %v", want, se.ImportChain)
	}
	for i := range want {
		if se.ImportChain[i] != want[i] {
			t.Fatalf("Expected chain %v, got %v", want, se.ImportChain)
		}
	}

	if len(sink.Diagnostics) == 0 {
		t.Error("Expected the failure to be reported to the diagnostic sink")
	}
}

func TestResolve_PartialCacheSurvivesFailure(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("Root", "Good", "Bad")
	f.addSource("Good")

	engine, c, _ := newTestEngine(f)
	ctx := context.Background()

	if _, err := engine.Resolve(ctx, "Root", nil); err == nil {
		t.Fatal("Expected failure for Bad")
	}

	// Good resolved before the failure and must be reusable.
	if _, ok := c.Lookup("Good"); !ok {
		t.Fatal("Expected Good to stay cached after the failed scan")
	}
	if _, ok := c.Lookup("Root"); ok {
		t.Error("Expected Root to not be cached: its children never fully resolved")
	}

	if _, err := engine.Resolve(ctx, "Good", nil); err != nil {
		t.Fatalf("Expected Good to resolve from cache: %v", err)
	}
	if f.calls["Good"] != 1 {
		t.Errorf("Expected a cache hit for Good, frontend scanned %d times", f.calls["Good"])
	}
}

func TestResolve_MixedKinds(t *testing.T) {
	f := newFakeFrontend()
	f.addSource("App", "Codec")
	f.addBinary("Codec", "Sys")
	f.modules["Sys"] = &frontend.Descriptor{ID: module.SystemID("Sys")}

	engine, _, _ := newTestEngine(f)
	graph, err := engine.Resolve(context.Background(), "App", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if _, ok := graph.Nodes[module.BinaryID("Codec")]; !ok {
		t.Error("Expected Codec to resolve as a binary module")
	}
	if _, ok := graph.Nodes[module.SystemID("Sys")]; !ok {
		t.Error("Expected Sys to resolve as a system module")
	}
}
