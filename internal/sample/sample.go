// Package sample implements the PV resolver and training-data sampler (C4):
// it walks an engine's principal variation forward through tactical moves to
// reach a quiet position, then probabilistically emits that position's FEN,
// a side-to-move-relative score, and a game-result label filled in once the
// game concludes.
package sample

import (
	"context"
	"math"
	"math/rand"
	"strings"

	"github.com/herohde/chessmatch/internal/rules"
	"github.com/herohde/chessmatch/internal/uci"
	"github.com/seekerror/logw"
)

// Result is a game outcome from a sample's own side-to-move point of view.
// Unlabeled is the sentinel value a sample carries between extraction and
// the post-game labeling pass.
type Result int8

const (
	Loss Result = iota
	Draw
	Win
	Unlabeled
)

// Sample is one training example: a position, its engine evaluation relative
// to the side to move in that position, and the eventual game result (set
// only once the game concludes).
type Sample struct {
	FEN    string
	Turn   rules.Color
	Score  int32
	Result Result
}

// Policy configures the sampler's acceptance rate and whether PVs are walked
// to a quiet position before being recorded.
type Policy struct {
	Freq    float64 // base acceptance probability per eligible ply
	Decay   float64 // exponential decay applied per rule50 ply
	Resolve bool    // walk the PV forward through tactical moves before sampling
}

// mateThreshold is the boundary below/above which a score is considered a
// mate-distance sentinel rather than a centipawn evaluation.
const mateThreshold = math.MaxInt16 - 1024

// IsMateScore reports whether score encodes a mate distance rather than a
// centipawn evaluation.
func IsMateScore(score int32) bool {
	return score >= mateThreshold || score <= -mateThreshold
}

// ResolvePV walks pv forward from pos through consecutive tactical moves
// (captures, promotions, and any move played while in check), returning the
// last position reached that is not itself in check. The walk stops at the
// first quiet move, and at the first illegal or unparsable move (logged as a
// warning; a bad PV never fails the game). If no tactical prefix exists, pos
// is returned unchanged.
func ResolvePV(ctx context.Context, pos rules.Position, pv string) rules.Position {
	resolved := pos
	scratch := pos

	for _, lan := range strings.Fields(pv) {
		next, mv, err := scratch.Push(lan)
		if err != nil {
			logw.Warningf(ctx, "PV resolution stopped at illegal move %v: %v", lan, err)
			break
		}
		if !mv.Capture && !mv.IsPromotion() && scratch.Checkers() == 0 {
			break
		}

		scratch = next
		if scratch.Checkers() == 0 {
			resolved = scratch
		}
	}
	return resolved
}

// Accept draws whether a ply at the given rule50 count should be sampled.
func (p Policy) Accept(rng *rand.Rand, rule50 int) bool {
	prob := p.Freq * math.Exp(-p.Decay*float64(rule50))
	return rng.Float64() < prob
}

// Build attempts to produce a Sample from the position before a move (pre),
// the already-resolved PV position (see ResolvePV) and the engine's reported
// Info for that move. It returns ok=false when the ply was not selected for
// sampling, or when resolution is configured and either the evaluation is a
// mate score or the resolved position is itself in check.
func Build(rng *rand.Rand, policy Policy, pre, resolved rules.Position, info uci.Info) (Sample, bool) {
	if !policy.Accept(rng, pre.Rule50()) {
		return Sample{}, false
	}
	if policy.Resolve && IsMateScore(info.Score) {
		return Sample{}, false
	}

	candidate := pre
	if policy.Resolve {
		if resolved.Checkers() != 0 {
			return Sample{}, false
		}
		candidate = resolved
	}

	score := info.Score
	if candidate.Turn() != pre.Turn() {
		score = -score
	}

	return Sample{FEN: candidate.FEN(), Turn: candidate.Turn(), Score: score, Result: Unlabeled}, true
}
