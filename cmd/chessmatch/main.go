// chessmatch runs a match between two UCI engines and records PGN game
// records and training samples.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/herohde/chessmatch/internal/config"
	"github.com/herohde/chessmatch/internal/opening"
	"github.com/herohde/chessmatch/internal/orchestrator"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

var (
	cfgPath = flag.String("config", "", "Path to a match configuration file (YAML)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: chessmatch -config=match.yaml

CHESSMATCH plays a configurable number of games between two UCI engines,
adjudicates results under FIDE-style rules, and writes PGN game records and
training samples.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if *cfgPath == "" {
		flag.Usage()
		logw.Exitf(ctx, "-config is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logw.Exitf(ctx, "Load config failed: %v", err)
	}

	book, err := opening.Open(cfg.Book, cfg.Random, cfg.BaseSeed)
	if err != nil {
		logw.Exitf(ctx, "Open opening book failed: %v", err)
	}

	oc := orchestrator.Config{
		Workers:      cfg.Workers,
		Games:        cfg.Games,
		Chess960:     cfg.Chess960,
		BaseSeed:     cfg.BaseSeed,
		Adjudication: cfg.ToAdjudication(),
		Sampling:     cfg.ToSamplingPolicy(),
		Grace:        time.Duration(cfg.GraceMS) * time.Millisecond,
		Book:         book,
		PGNVerbosity: cfg.PGNVerbosity,
	}
	for i, e := range cfg.Engines {
		oc.Engines[i] = orchestrator.EngineSpec{
			Path:    e.Path,
			Args:    e.Args,
			Name:    e.Name,
			Options: e.Options,
			Limits:  e.ToEngineConfig(),
		}
	}

	var closers []func() error
	if cfg.PGNPath != "" {
		f, err := os.Create(cfg.PGNPath)
		if err != nil {
			logw.Exitf(ctx, "Create PGN output failed: %v", err)
		}
		oc.PGN = f
		closers = append(closers, f.Close)
	}
	if cfg.SampleCSVPath != "" {
		f, err := os.Create(cfg.SampleCSVPath)
		if err != nil {
			logw.Exitf(ctx, "Create sample CSV output failed: %v", err)
		}
		oc.SampleCSV = f
		closers = append(closers, f.Close)
	}
	if cfg.SampleBinaryPath != "" {
		f, err := os.Create(cfg.SampleBinaryPath)
		if err != nil {
			logw.Exitf(ctx, "Create sample binary output failed: %v", err)
		}
		oc.SampleBinary = f
		closers = append(closers, f.Close)
	}
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	logw.Infof(ctx, "chessmatch %v: %v vs %v, %v games, %v workers", version, oc.Engines[0].Path, oc.Engines[1].Path, oc.Games, oc.Workers)

	if err := orchestrator.Run(ctx, oc); err != nil {
		logw.Exitf(ctx, "Match failed: %v", err)
	}

	logw.Infof(ctx, "Match complete")
}
