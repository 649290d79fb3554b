package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"depscan/internal/core/config"
	"depscan/internal/core/diag"
	"depscan/internal/core/tool"
	"depscan/internal/data/history"
	"depscan/internal/engine/module"
	"depscan/internal/engine/scan"
	"depscan/internal/shared/util"
	"depscan/internal/ui/report"
	"depscan/internal/watcher"
)

type appOptions struct {
	ModuleName   string
	SearchPaths  []string
	Languages    []string
	BuildFlags   []string
	Placeholders []string
	BatchPath    string
	OutputPath   string
	Format       string
}

// App wires the scanning tool to the CLI surface. Watch mode replaces the
// tool wholesale on every change batch: the cache's lifetime is the tool's
// lifetime, so invalidation is tool replacement.
type App struct {
	cfg          *config.Config
	opts         appOptions
	placeholders module.PlaceholderSet
	batch        []scan.BatchInput
	store        *history.Store
	scanner      *tool.Tool
}

type batchFile struct {
	Entries []batchEntry `toml:"entry"`
}

type batchEntry struct {
	Module string `toml:"module"`
	Output string `toml:"output"`
}

func NewApp(cfg *config.Config, opts appOptions) (*App, error) {
	a := &App{cfg: cfg, opts: opts}

	names := append([]string(nil), cfg.Placeholders...)
	names = append(names, opts.Placeholders...)
	a.placeholders = module.NewPlaceholderSet(names...)

	if opts.BatchPath != "" {
		entries, err := loadBatchFile(opts.BatchPath)
		if err != nil {
			return nil, err
		}
		a.batch = entries
	}

	if opts.ModuleName == "" && len(a.batch) == 0 {
		return nil, fmt.Errorf("either -module-name or -batch is required")
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	a.scanner = a.newTool()
	return a, nil
}

func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

func (a *App) newTool() *tool.Tool {
	return tool.New(diag.NewPrintingSink(slog.Default()), tool.Options{
		SystemModules: a.cfg.SystemModules,
		ExcludeDirs:   a.cfg.Exclude.Dirs,
		ExcludeFiles:  a.cfg.Exclude.Files,
		History:       a.store,
	})
}

// invocationArgs assembles the frontend argument vector from flags plus
// config-supplied search paths.
func (a *App) invocationArgs(rootModule string) []string {
	args := []string{"-module-name", rootModule}
	for _, p := range a.opts.SearchPaths {
		args = append(args, "-I", p)
	}
	for _, p := range a.cfg.SearchPaths {
		args = append(args, "-I", p)
	}
	for _, lang := range a.opts.Languages {
		args = append(args, "-language", lang)
	}
	for _, lang := range a.cfg.Languages.Enabled {
		args = append(args, "-language", lang)
	}
	for _, f := range a.opts.BuildFlags {
		args = append(args, "-Xfront", f)
	}
	return args
}

// RunOnce performs one single or batch scan and exits.
func (a *App) RunOnce(ctx context.Context) error {
	if len(a.batch) > 0 {
		return a.runBatch(ctx, a.scanner)
	}
	return a.runSingle(ctx, a.scanner)
}

func (a *App) runSingle(ctx context.Context, t *tool.Tool) error {
	args := a.invocationArgs(a.opts.ModuleName)

	switch a.opts.Format {
	case "", "json":
		out, err := t.GetDependencies(ctx, args, a.placeholders)
		if err != nil {
			return err
		}
		return a.emit([]byte(out))
	case "mermaid", "dot", "tsv":
		graph, err := t.GetDependenciesGraph(ctx, args, a.placeholders)
		if err != nil {
			return err
		}
		switch a.opts.Format {
		case "mermaid":
			return a.emit([]byte(report.Mermaid(graph)))
		case "dot":
			return a.emit([]byte(report.DOT(graph)))
		default:
			return a.emit([]byte(report.TSV(graph)))
		}
	default:
		return fmt.Errorf("unknown output format %q (want json, mermaid, dot or tsv)", a.opts.Format)
	}
}

func (a *App) runBatch(ctx context.Context, t *tool.Tool) error {
	rootModule := a.opts.ModuleName
	if rootModule == "" {
		rootModule = a.batch[0].ModuleName
	}
	args := a.invocationArgs(rootModule)

	result, err := t.GetDependenciesBatch(ctx, args, a.batch, a.placeholders)
	if err != nil {
		return err
	}
	for _, entry := range result.Entries {
		if entry.Err != nil {
			slog.Error("batch entry failed", "module", entry.Input.ModuleName, "error", entry.Err)
		} else {
			slog.Info("batch entry written", "module", entry.Input.ModuleName, "output", entry.Input.OutputPath)
		}
	}
	if !result.Succeeded() {
		return fmt.Errorf("batch scan %s finished with failures:\n%s", result.JobID, result.Diagnostics())
	}
	return nil
}

func (a *App) emit(data []byte) error {
	if a.opts.OutputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(a.opts.OutputPath, data, 0o644)
}

// RunWatch scans once, then rescans with a fresh tool whenever files under
// the search paths change.
func (a *App) RunWatch(ctx context.Context, withUI bool) error {
	limiter := util.NewLimiter(a.cfg.Watch.ScanRate, a.cfg.Watch.ScanBurst)

	var program *uiProgram
	if withUI {
		program = newUIProgram()
	}

	rescan := func(reason []string) {
		if len(reason) > 0 {
			if err := limiter.Wait(ctx, 1); err != nil {
				return
			}
			slog.Info("rescanning", "changed", len(reason))
			a.scanner = a.newTool()
		}
		err := a.RunOnce(ctx)
		if program != nil {
			program.send(scanUpdate{
				modules: a.scanner.CachedModules(),
				err:     err,
				changed: reason,
			})
		} else if err != nil {
			slog.Error("scan failed", "error", err)
		}
	}

	rescan(nil)

	watchPaths := append(append([]string(nil), a.opts.SearchPaths...), a.cfg.SearchPaths...)
	w, err := watcher.New(a.cfg.Watch.Debounce, a.cfg.Exclude.Dirs, a.cfg.Exclude.Files, rescan)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(watchPaths); err != nil {
		return err
	}

	if program != nil {
		return program.run()
	}
	<-ctx.Done()
	return ctx.Err()
}

func loadBatchFile(path string) ([]scan.BatchInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file %q: %w", path, err)
	}

	var bf batchFile
	if err := toml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse batch file %q: %w", path, err)
	}
	if len(bf.Entries) == 0 {
		return nil, fmt.Errorf("batch file %q has no entries", path)
	}

	inputs := make([]scan.BatchInput, 0, len(bf.Entries))
	for _, e := range bf.Entries {
		inputs = append(inputs, scan.BatchInput{ModuleName: e.Module, OutputPath: e.Output})
	}
	return inputs, nil
}
