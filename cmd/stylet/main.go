package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/stylet/internal/builder"
	"github.com/crimson-sun/stylet/internal/config"
	"github.com/crimson-sun/stylet/internal/eval"
	"github.com/crimson-sun/stylet/internal/logging"
	"github.com/crimson-sun/stylet/internal/metrics"
	"github.com/crimson-sun/stylet/internal/output"
	"github.com/crimson-sun/stylet/internal/output/async"
	"github.com/crimson-sun/stylet/internal/output/file"
	"github.com/crimson-sun/stylet/internal/output/multi"
	"github.com/crimson-sun/stylet/internal/output/sqlite"
	"github.com/crimson-sun/stylet/internal/output/stdout"
	"github.com/crimson-sun/stylet/internal/pipeline"
	"github.com/crimson-sun/stylet/internal/source"

	// Register source implementations.
	_ "github.com/crimson-sun/stylet/internal/source/binfile"
	_ "github.com/crimson-sun/stylet/internal/source/synthetic"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Init(cfg.Output.Format == "stdout", logging.ParseLevel(cfg.LogLevel))
	metrics.StartServer(cfg.MetricsAddr)

	// One seed per process; the generator advances across files so floor
	// noise differs between them while the run stays reproducible.
	rng := rand.New(rand.NewSource(cfg.Variant.Seed))

	b, err := builder.NewFromVariant(cfg.Variant, rng)
	if err != nil {
		log.Fatalf("failed to create builder: %v", err)
	}

	out, err := buildOutput(cfg.Output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}

	// When evaluation is requested, tee samples into memory alongside the
	// configured output.
	var collector *eval.Collector
	if cfg.Eval.ModelPath != "" {
		collector = &eval.Collector{}
		out = multi.New(out, collector)
	}

	ctor, err := source.Get(cfg.Source.Provider)
	if err != nil {
		log.Fatalf("failed to get source: %v", err)
	}
	src := ctor()

	p := pipeline.New(src, b, out)
	defer p.Close()

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	srcCfg := source.Config{
		Provider:  cfg.Source.Provider,
		Dir:       cfg.Source.Dir,
		Distances: cfg.Source.Distances,
		Extra:     cfg.Source.Extra,
	}

	slog.Info("stylet: starting",
		"source", cfg.Source.Provider, "variant", cfg.Variant.Name)

	var summary pipeline.Summary
	if cfg.Variant.FewShot != nil {
		fileTasks, s, err := p.RunTasks(ctx, srcCfg)
		summary = s
		if err != nil && err != context.Canceled {
			log.Fatalf("pipeline error: %v", err)
		}
		slog.Info("tasks built", "count", len(fileTasks))
	} else {
		s, err := p.Run(ctx, srcCfg)
		summary = s
		if err != nil && err != context.Canceled {
			log.Fatalf("pipeline error: %v", err)
		}
	}
	slog.Info("run complete", "summary", summary.String())

	if collector != nil {
		runEval(cfg.Eval, collector)
	}
}

// buildOutput resolves the configured dataset destination. The SQLite store
// sits behind an async wrapper so inserts don't stall the build loop.
func buildOutput(cfg config.OutputConfig) (output.Output, error) {
	mode := output.ParseMode(cfg.Mode)
	switch cfg.Format {
	case "stdout":
		return stdout.New(mode, cfg.Pretty), nil
	case "file":
		return file.New(cfg.Path, mode)
	case "sqlite":
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return async.New(store), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", cfg.Format)
	}
}

// runEval scores the collected samples with the exported detector model.
func runEval(cfg config.EvalConfig, collector *eval.Collector) {
	det, err := eval.NewDetector(cfg.ModelPath)
	if err != nil {
		log.Fatalf("failed to load detector model: %v", err)
	}
	defer det.Close()

	res, err := eval.Evaluate(det, collector.Samples, eval.Config{
		BinarizeAt: cfg.BinarizeAt,
		Neutral:    cfg.Neutral,
	})
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}
	slog.Info("evaluation complete",
		"auc", res.AUC, "positives", res.Positives, "negatives", res.Negatives,
		"degenerate", res.Degenerate)
}
