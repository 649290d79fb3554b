package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"depscan/internal/core/config"
	"depscan/internal/shared/observability"
)

type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

var (
	configPath   = flag.String("config", "./depscan.toml", "Path to config file")
	moduleName   = flag.String("module-name", "", "Root module to scan")
	batchPath    = flag.String("batch", "", "Path to a TOML batch-scan input file")
	outputPath   = flag.String("o", "", "Write the serialized graph to this path instead of stdout")
	formatFlag   = flag.String("format", "json", "Output format: json, mermaid, dot or tsv")
	watch        = flag.Bool("watch", false, "Rescan whenever files under the search paths change")
	ui           = flag.Bool("ui", false, "Enable terminal UI mode (implies -watch)")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	printVersion = flag.Bool("version", false, "Print version and exit")

	searchPaths  multiFlag
	languages    multiFlag
	buildFlags   multiFlag
	placeholders multiFlag
)

const VERSION = "1.0.0"

func main() {
	flag.Var(&searchPaths, "I", "Module search path (repeatable)")
	flag.Var(&languages, "language", "Restrict parsed source languages (repeatable)")
	flag.Var(&buildFlags, "Xfront", "Opaque per-module build flag (repeatable)")
	flag.Var(&placeholders, "placeholder", "Module name to treat as an opaque leaf (repeatable)")
	flag.Parse()

	if *printVersion {
		fmt.Printf("depscan v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logOutput := os.Stderr
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "./depscan.toml" {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		// No config file is fine; everything can come from flags.
		cfg = config.DefaultConfig()
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	if cfg.Observability.MetricsAddr != "" {
		srv := observability.NewServer(cfg.Observability.MetricsAddr)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer srv.Stop(ctx)
	}

	app, err := NewApp(cfg, appOptions{
		ModuleName:   *moduleName,
		SearchPaths:  searchPaths,
		Languages:    languages,
		BuildFlags:   buildFlags,
		Placeholders: placeholders,
		BatchPath:    *batchPath,
		OutputPath:   *outputPath,
		Format:       *formatFlag,
	})
	if err != nil {
		slog.Error("failed to initialize scanner", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *watch || *ui {
		if err := app.RunWatch(ctx, *ui); err != nil {
			slog.Error("watch mode failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := app.RunOnce(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
