package match

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/herohde/chessmatch/internal/adjudicate"
	"github.com/herohde/chessmatch/internal/clock"
	"github.com/herohde/chessmatch/internal/rules"
	"github.com/herohde/chessmatch/internal/sample"
	"github.com/herohde/chessmatch/internal/uci"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Transport is the engine-facing subset of uci.Engine the driver needs.
// Accepting an interface here keeps the driver testable against a fake
// engine without a real subprocess.
type Transport interface {
	SetOption(ctx context.Context, name, value string) error
	NewGame(ctx context.Context) error
	Position(ctx context.Context, cmd string) error
	Sync(ctx context.Context) error
	Go(ctx context.Context, cmd string, deadline time.Duration) (uci.Result, error)
}

// EngineConfig is one engine's identity and search limits for a game.
// Depth and Nodes, if set, are forwarded on every go command; either may be
// combined with the clock limits.
type EngineConfig struct {
	Name             string
	Limits           clock.Limits
	Depth            lang.Optional[int]
	Nodes            lang.Optional[int64]
	SupportsChess960 bool
}

// Adjudication configures the draw-score and resign tournament policies.
// A zero Count disables the corresponding rule.
type Adjudication struct {
	DrawCount, DrawNumber     int
	DrawScore                 int32
	ResignCount, ResignNumber int
	ResignScore               int32
}

// Request bundles everything Play needs for one game.
type Request struct {
	Engines  [2]Transport
	Configs  [2]EngineConfig
	StartFEN string
	Chess960 bool
	Reverse  bool

	Adjudication Adjudication
	Sampling     sample.Policy

	// Grace is added to the clock's computed deadline to absorb transport
	// latency before declaring a timeout.
	Grace time.Duration

	Round, GameID int
}

// Play runs one game to completion and returns the finished record along
// with the result from engine 0's point of view: Checkmate, IllegalMove,
// Resign and TimeLoss are losses for the engine on the move at termination,
// and every other terminal state is a Draw. Resign and TimeLoss sort after
// Separator in the ordinal State despite being decisive, so this split is not
// derived from the State ordering.
func Play(ctx context.Context, rng *rand.Rand, req Request) (*Game, Result, error) {
	pos0, err := rules.NewGame(req.StartFEN, req.Chess960)
	if err != nil {
		return nil, 0, fmt.Errorf("start position %q: %w", req.StartFEN, err)
	}

	g := &Game{Round: req.Round, ID: req.GameID, Positions: []rules.Position{pos0}}

	for i := 0; i < 2; i++ {
		if req.Chess960 {
			if !req.Configs[i].SupportsChess960 {
				logw.Exitf(ctx, "engine %v does not support Chess960", req.Configs[i].Name)
			}
			if err := req.Engines[i].SetOption(ctx, "UCI_Chess960", "true"); err != nil {
				return nil, 0, fmt.Errorf("setoption 960 on %v: %w", req.Configs[i].Name, err)
			}
		}
		if err := req.Engines[i].NewGame(ctx); err != nil {
			return nil, 0, fmt.Errorf("ucinewgame on %v: %w", req.Configs[i].Name, err)
		}
	}

	for color := rules.White; color <= rules.Black; color++ {
		g.Names[color] = req.Configs[engineForColor(color, pos0.Turn(), req.Reverse)].Name
	}

	cm := clock.NewManager(req.Configs[0].Limits, req.Configs[1].Limits)

	ei := 0
	if req.Reverse {
		ei = 1
	}

	var drawPlyCount int
	var resignCount [2]int

	for ply := 0; ; ply++ {
		cur := g.Positions[ply]

		adj := adjudicate.Adjudicate(g.Positions, ply)
		if adj.State != adjudicate.None {
			g.State = fromAdjudicate(adj.State)
			break
		}

		if err := req.Engines[ei].Position(ctx, uci.FormatPosition(g.Positions, ply)); err != nil {
			return nil, 0, fmt.Errorf("position to %v: %w", req.Configs[ei].Name, err)
		}
		if err := req.Engines[ei].Sync(ctx); err != nil {
			return nil, 0, fmt.Errorf("sync %v: %w", req.Configs[ei].Name, err)
		}

		timeLeft := cm.BeforeMove(ei, ply)
		goCmd := uci.FormatGo(buildGoOptions(req.Configs, cm, ei, ply, pos0.Turn(), req.Reverse))

		start := time.Now()
		res, err := req.Engines[ei].Go(ctx, goCmd, timeLeft+req.Grace)
		elapsed := time.Since(start)
		if err != nil {
			return nil, 0, fmt.Errorf("go on %v: %w", req.Configs[ei].Name, err)
		}

		g.Infos = append(g.Infos, res.Info)
		resolved := sample.ResolvePV(ctx, cur, res.Info.PV)

		forfeit := cm.AfterMove(ei, elapsed)

		if res.TimedOut {
			g.State = TimeLoss
			break
		}

		played, perr := rules.ParseLAN(res.Move)
		legal := perr == nil && containsMove(adj.Moves, played)
		if !legal {
			g.State = IllegalMove
			break
		}

		if req.Configs[ei].Limits.IsTimed() && forfeit {
			g.State = TimeLoss
			break
		}

		if req.Adjudication.DrawCount > 0 && abs32(res.Info.Score) <= req.Adjudication.DrawScore {
			drawPlyCount++
			if drawPlyCount >= 2*req.Adjudication.DrawCount && ply/2+1 >= req.Adjudication.DrawNumber {
				g.State = DrawAdjudication
				break
			}
		} else {
			drawPlyCount = 0
		}

		if req.Adjudication.ResignCount > 0 && res.Info.Score <= -req.Adjudication.ResignScore {
			resignCount[ei]++
			if resignCount[ei] >= req.Adjudication.ResignCount && ply/2+1 >= req.Adjudication.ResignNumber {
				g.State = Resign
				break
			}
		} else {
			resignCount[ei] = 0
		}

		if s, ok := sample.Build(rng, req.Sampling, cur, resolved, res.Info); ok {
			g.Samples = append(g.Samples, s)
		}

		next, _, err := cur.Push(played.LAN())
		if err != nil {
			// The legality check above guarantees this never triggers; kept
			// as a hard invariant rather than a silent continue.
			return nil, 0, fmt.Errorf("legal move %v rejected by position: %w", played.LAN(), err)
		}
		g.Positions = append(g.Positions, next)

		ei = 1 - ei
	}

	labelSamples(g.Samples, wpov(g.State, g.Positions[g.Ply()].Turn()))

	if isDecisive(g.State) {
		if ei == 0 {
			return g, Loss, nil
		}
		return g, Win, nil
	}
	return g, Draw, nil
}

// isDecisive reports whether state is a loss for the side to move at
// termination. Every other terminal state is a draw.
func isDecisive(state State) bool {
	switch state {
	case Checkmate, IllegalMove, Resign, TimeLoss:
		return true
	default:
		return false
	}
}

func containsMove(moves []rules.Move, m rules.Move) bool {
	for _, cand := range moves {
		if cand.Equals(m) {
			return true
		}
	}
	return false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// wpov computes the game result from White's point of view: in a decisive
// game the side to move at termination loses.
func wpov(state State, turnAtTermination rules.Color) Result {
	if isDecisive(state) {
		if turnAtTermination == rules.White {
			return Loss
		}
		return Win
	}
	return Draw
}

func labelSamples(samples []sample.Sample, result Result) {
	for i := range samples {
		if samples[i].Turn == rules.White {
			samples[i].Result = sample.Result(result)
		} else {
			samples[i].Result = sample.Result(2 - int(result))
		}
	}
}

// buildGoOptions renders the go command's limits for the engine on the move,
// mapping the two engine-indexed clocks onto color-indexed wtime/btime
// fields via the same engine/color permutation used for seating.
func buildGoOptions(configs [2]EngineConfig, cm *clock.Manager, ei, ply int, startTurn rules.Color, reverse bool) uci.GoOptions {
	limits := configs[ei].Limits
	opt := uci.GoOptions{Ply: ply, MovesToGo: limits.MovesToGo}
	if v, ok := configs[ei].Depth.V(); ok {
		opt.Depth = v
	}
	if v, ok := configs[ei].Nodes.V(); ok {
		opt.Nodes = v
	}

	switch {
	case limits.Movetime > 0:
		opt.Movetime = limits.Movetime
	case limits.Time > 0 || limits.Increment > 0:
		opt.HasClock = true

		whiteEi := engineForColor(rules.White, startTurn, reverse)
		blackEi := 1 - whiteEi
		opt.WhiteTime, opt.WhiteInc = cm.TimeLeft(whiteEi), configs[whiteEi].Limits.Increment
		opt.BlackTime, opt.BlackInc = cm.TimeLeft(blackEi), configs[blackEi].Limits.Increment
	}
	return opt
}
