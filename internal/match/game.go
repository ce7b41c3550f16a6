// Package match implements the game driver (C5): the outer state machine
// that alternates UCI dialog between two engines, applies adjudications,
// records per-ply data, and assigns the final result.
package match

import (
	"github.com/herohde/chessmatch/internal/adjudicate"
	"github.com/herohde/chessmatch/internal/rules"
	"github.com/herohde/chessmatch/internal/sample"
	"github.com/herohde/chessmatch/internal/uci"
)

// State is the terminal state of a finished game. The ordinal order keeps
// the upstream enum, with Separator between the rule-based states and the
// driver-adjudicated ones, but the order does not decide the outcome:
// Checkmate, IllegalMove, Resign and TimeLoss are losses for the side to move
// at termination, and every other terminal state is a draw. See Play for the
// resulting engine-0 Result.
type State uint8

const (
	None State = iota
	Checkmate
	Stalemate
	Threefold
	FiftyMoves
	InsufficientMaterial
	IllegalMove
	Separator
	DrawAdjudication
	Resign
	TimeLoss
)

func (s State) String() string {
	switch s {
	case None:
		return "none"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Threefold:
		return "threefold repetition"
	case FiftyMoves:
		return "fifty-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	case IllegalMove:
		return "rules infraction"
	case DrawAdjudication:
		return "adjudication"
	case Resign:
		return "resignation"
	case TimeLoss:
		return "time forfeit"
	default:
		return "unknown"
	}
}

func fromAdjudicate(s adjudicate.State) State {
	switch s {
	case adjudicate.Checkmate:
		return Checkmate
	case adjudicate.Stalemate:
		return Stalemate
	case adjudicate.Threefold:
		return Threefold
	case adjudicate.FiftyMoves:
		return FiftyMoves
	case adjudicate.InsufficientMaterial:
		return InsufficientMaterial
	default:
		return None
	}
}

// Result is a game outcome from engine 0's point of view.
type Result int8

const (
	Loss Result = iota
	Draw
	Win
)

// Game is the complete record of one finished game.
type Game struct {
	Round, ID int
	Names     [2]string // color-indexed: Names[rules.White], Names[rules.Black]

	Positions []rules.Position // index 0 is the start position
	Infos     []uci.Info       // Infos[i] is the engine's report for its reply to Positions[i]; a game ended on a reply that was not played (time loss, illegal move, adjudication) has one more Info than plies
	Samples   []sample.Sample

	State State
}

// Ply is the number of moves played.
func (g *Game) Ply() int {
	return len(g.Positions) - 1
}

// engineForColor implements the engine/color permutation described for
// seating and naming: an involution expressed as a 3-way XOR.
func engineForColor(color, turn rules.Color, reverse bool) int {
	r := 0
	if reverse {
		r = 1
	}
	return int(color) ^ int(turn) ^ r
}
