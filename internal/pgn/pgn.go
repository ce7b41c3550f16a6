// Package pgn renders a finished Game as Portable Game Notation.
package pgn

import (
	"fmt"
	"math"
	"strings"

	"github.com/herohde/chessmatch/internal/match"
	"github.com/herohde/chessmatch/internal/rules"
)

// decode maps a game's terminal state onto a PGN result tag and a
// Termination reason, in the literal correspondence the format requires.
func decode(g *match.Game) (result, reason string) {
	loserToMove := func() string {
		if g.Positions[g.Ply()].Turn() == rules.White {
			return "0-1"
		}
		return "1-0"
	}

	switch g.State {
	case match.None:
		return "*", "unterminated"
	case match.Checkmate:
		return loserToMove(), "checkmate"
	case match.Stalemate:
		return "1/2-1/2", "stalemate"
	case match.Threefold:
		return "1/2-1/2", "3-fold repetition"
	case match.FiftyMoves:
		return "1/2-1/2", "50 moves rule"
	case match.InsufficientMaterial:
		return "1/2-1/2", "insufficient material"
	case match.IllegalMove:
		return loserToMove(), "rules infraction"
	case match.DrawAdjudication:
		return "1/2-1/2", "adjudication"
	case match.Resign:
		return loserToMove(), "adjudication"
	case match.TimeLoss:
		return loserToMove(), "time forfeit"
	default:
		return "1/2-1/2", "unknown"
	}
}

// Export renders g as a PGN game record. Verbosity 0 emits tags only;
// verbosity 1 adds movetext; 2 adds {score/depth} comments; 3 adds
// {score/depth time} comments. Line wrap is 16/6/5 plies for verbosity 1/2/3.
func Export(g *match.Game, verbosity int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[Round \"%d.%d\"]\n", g.Round+1, g.ID+1)
	fmt.Fprintf(&sb, "[White \"%s\"]\n", g.Names[rules.White])
	fmt.Fprintf(&sb, "[Black \"%s\"]\n", g.Names[rules.Black])

	result, reason := decode(g)
	fmt.Fprintf(&sb, "[Result \"%s\"]\n", result)
	fmt.Fprintf(&sb, "[Termination \"%s\"]\n", reason)
	fmt.Fprintf(&sb, "[FEN \"%s\"]\n", g.Positions[0].FEN())
	if g.Positions[0].Chess960() {
		sb.WriteString("[Variant \"Chess960\"]\n")
	}
	fmt.Fprintf(&sb, "[PlyCount \"%d\"]\n", g.Ply())

	if verbosity > 0 {
		sb.WriteByte('\n')
		writeMovetext(&sb, g, verbosity)
	}

	sb.WriteString(result)
	sb.WriteString("\n\n")
	return sb.String()
}

func writeMovetext(sb *strings.Builder, g *match.Game, verbosity int) {
	pliesPerLine := 16
	switch verbosity {
	case 2:
		pliesPerLine = 6
	case 3:
		pliesPerLine = 5
	}

	for ply := 1; ply <= g.Ply(); ply++ {
		prev := g.Positions[ply-1]
		if prev.Turn() == rules.White || ply == 1 {
			if prev.Turn() == rules.White {
				fmt.Fprintf(sb, "%d. ", prev.FullMove())
			} else {
				fmt.Fprintf(sb, "%d... ", prev.FullMove())
			}
		}

		lastMove, _ := g.Positions[ply].LastMove()
		sb.WriteString(lastMove.SAN)

		if g.Positions[ply].Checkers() != 0 {
			if ply == g.Ply() && g.State == match.Checkmate {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('+')
			}
		}

		if verbosity >= 2 {
			info := g.Infos[ply-1]
			writeComment(sb, verbosity, info.Score, info.Depth, info.TimeMS)
		}

		if ply%pliesPerLine == 0 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
}

const mateThreshold = math.MaxInt16 - 1024

func writeComment(sb *strings.Builder, verbosity int, score, depth int32, timeMS int64) {
	var body string
	switch {
	case score >= mateThreshold:
		body = fmt.Sprintf("M%d/%d", math.MaxInt16-score, depth)
	case score <= -mateThreshold:
		body = fmt.Sprintf("-M%d/%d", score-math.MinInt16, depth)
	default:
		body = fmt.Sprintf("%d/%d", score, depth)
	}
	if verbosity == 3 {
		body = fmt.Sprintf("%s %dms", body, timeMS)
	}
	fmt.Fprintf(sb, " {%s}", body)
}
