// Package orchestrator runs a full match: a bounded pool of workers, each
// playing games against the opening book and appending PGN and training
// samples to the shared output files.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/herohde/chessmatch/internal/match"
	"github.com/herohde/chessmatch/internal/opening"
	"github.com/herohde/chessmatch/internal/pgn"
	"github.com/herohde/chessmatch/internal/sample"
	"github.com/herohde/chessmatch/internal/uci"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// EngineSpec is how to launch and configure one of the two contestants.
type EngineSpec struct {
	Path    string
	Args    []string
	Name    string // display name override; if empty, use the engine's own "id name"
	Options map[string]string
	Limits  match.EngineConfig
}

// Config is everything the orchestrator needs to run a match.
type Config struct {
	Workers  int
	Games    int
	Chess960 bool
	BaseSeed int64

	Engines [2]EngineSpec

	Adjudication match.Adjudication
	Sampling     sample.Policy
	Grace        time.Duration

	Book *opening.Book

	PGN          io.Writer
	PGNVerbosity int

	SampleCSV    io.Writer
	SampleBinary io.Writer
}

// Run plays Config.Games games across Config.Workers concurrent workers and
// blocks until all games complete or the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	grp, ctx := errgroup.WithContext(ctx)

	var pgnMu, sampleMu sync.Mutex
	var completed atomic.Int64

	for i := 0; i < cfg.Games; i++ {
		gameIndex := i
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}

		grp.Go(func() error {
			defer sem.Release(1)

			workerID := gameIndex % cfg.Workers
			if err := playOne(ctx, cfg, workerID, gameIndex, &pgnMu, &sampleMu); err != nil {
				logw.Errorf(ctx, "game %d failed: %v", gameIndex, err)
				return err
			}

			n := completed.Inc()
			logw.Infof(ctx, "game %d complete (%d/%d)", gameIndex, n, cfg.Games)
			return nil
		})
	}

	return grp.Wait()
}

func playOne(ctx context.Context, cfg Config, workerID, gameIndex int, pgnMu, sampleMu *sync.Mutex) error {
	rng := rand.New(rand.NewSource(deriveSeed(cfg.BaseSeed, workerID, gameIndex)))
	fen := cfg.Book.Next(workerID)

	var engines [2]*uci.Engine
	var configs [2]match.EngineConfig

	for i := 0; i < 2; i++ {
		e, err := uci.Launch(ctx, cfg.Engines[i].Name, cfg.Engines[i].Path, uci.WithArgs(cfg.Engines[i].Args...))
		if err != nil {
			return fmt.Errorf("launch engine %d: %w", i, err)
		}
		defer func(e *uci.Engine) { _ = e.Quit(ctx) }(e)

		if err := e.Handshake(ctx); err != nil {
			return fmt.Errorf("handshake engine %d: %w", i, err)
		}
		for name, value := range cfg.Engines[i].Options {
			if err := e.SetOption(ctx, name, value); err != nil {
				return fmt.Errorf("setoption %v on engine %d: %w", name, i, err)
			}
		}

		engines[i] = e
		configs[i] = cfg.Engines[i].Limits
		configs[i].SupportsChess960 = e.HasOption("UCI_Chess960")
		if configs[i].Name == "" {
			configs[i].Name = e.ID()
		}
	}

	req := match.Request{
		Engines:      [2]match.Transport{engines[0], engines[1]},
		Configs:      configs,
		StartFEN:     fen,
		Chess960:     cfg.Chess960,
		Reverse:      gameIndex%2 == 1,
		Adjudication: cfg.Adjudication,
		Sampling:     cfg.Sampling,
		Grace:        cfg.Grace,
		Round:        gameIndex / 2,
		GameID:       gameIndex,
	}

	g, _, err := match.Play(ctx, rng, req)
	if err != nil {
		return err
	}

	if cfg.PGN != nil {
		pgnMu.Lock()
		_, err := io.WriteString(cfg.PGN, pgn.Export(g, cfg.PGNVerbosity))
		pgnMu.Unlock()
		if err != nil {
			return fmt.Errorf("write pgn: %w", err)
		}
	}

	if cfg.SampleCSV != nil || cfg.SampleBinary != nil {
		sampleMu.Lock()
		err := writeSamples(cfg, g.Samples)
		sampleMu.Unlock()
		if err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}

	return nil
}

func writeSamples(cfg Config, samples []sample.Sample) error {
	for _, s := range samples {
		if cfg.SampleCSV != nil {
			if err := sample.WriteCSV(cfg.SampleCSV, s); err != nil {
				return err
			}
		}
		if cfg.SampleBinary != nil {
			if err := sample.WriteBinary(cfg.SampleBinary, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// deriveSeed mixes the base seed with the worker and game index so that
// sample sets are reproducible for a given (base_seed, worker_id, game_index)
// triple without workers sharing PRNG state.
func deriveSeed(base int64, workerID, gameIndex int) int64 {
	var buf [24]byte
	putInt64(buf[0:8], base)
	putInt64(buf[8:16], int64(workerID))
	putInt64(buf[16:24], int64(gameIndex))
	return int64(xxhash.Sum64(buf[:]))
}

func putInt64(b []byte, v int64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
