// Package adjudicate implements the chess-rule adjudicator (C1): given a
// game's position history, classify the state of the current position as
// ongoing or one of the rule-based terminal states, in FIDE precedence order.
package adjudicate

import "github.com/herohde/chessmatch/internal/rules"

// State is a rule-based termination state. It intentionally excludes the
// policy-driven states (resignation, draw adjudication, time loss, illegal
// move) that only the game driver can detect.
type State uint8

const (
	None State = iota
	Checkmate
	Stalemate
	Threefold
	FiftyMoves
	InsufficientMaterial
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
	default:
		return "unknown"
	}
}

// Result is the outcome of adjudicating the position at history[ply].
type Result struct {
	State State
	Moves []rules.Move // legal moves from history[ply]; set only if State == None
}

// Adjudicate classifies history[ply], in FIDE precedence order: mate/stalemate
// first (even on the move that also reaches the 50-move or repetition count),
// then the 50-move rule, then insufficient material, then threefold
// repetition. The repetition scan only walks back as far as rule50 allows,
// since any rule50-resetting move breaks repetition eligibility.
func Adjudicate(history []rules.Position, ply int) Result {
	cur := history[ply]

	moves := cur.LegalMoves()
	if len(moves) == 0 {
		if cur.Checkers() != 0 {
			return Result{State: Checkmate}
		}
		return Result{State: Stalemate}
	}

	if cur.Rule50() >= 100 {
		return Result{State: FiftyMoves}
	}

	if cur.IsInsufficientMaterial() {
		return Result{State: InsufficientMaterial}
	}

	repetitions := 1
	for i := 4; i <= cur.Rule50() && i <= ply; i += 2 {
		if history[ply-i].Key() == cur.Key() {
			repetitions++
			if repetitions >= 3 {
				return Result{State: Threefold}
			}
		}
	}

	return Result{State: None, Moves: moves}
}
