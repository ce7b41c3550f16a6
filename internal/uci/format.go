// Package uci is the client side of the Universal Chess Interface: it
// formats the position/go commands sent to an engine (C2), parses the
// info/bestmove responses, and transports the dialog over a subprocess.
package uci

import (
	"fmt"
	"strings"
	"time"

	"github.com/herohde/chessmatch/internal/rules"
)

// FormatPosition renders the "position" command for history[ply], pruning
// everything before the last rule50 reset: any position before that reset is
// provably irrelevant to repetition or 50-move detection, so sending it would
// only waste the engine's time re-deriving state it cannot use.
func FormatPosition(history []rules.Position, ply int) string {
	ply0 := ply - history[ply].Rule50()
	if ply0 < 0 {
		ply0 = 0
	}

	var sb strings.Builder
	sb.WriteString("position fen ")
	sb.WriteString(history[ply0].FEN())

	if ply0 < ply {
		sb.WriteString(" moves")
		for i := ply0 + 1; i <= ply; i++ {
			m, ok := history[i].LastMove()
			if !ok {
				continue
			}
			sb.WriteByte(' ')
			sb.WriteString(m.LAN())
		}
	}
	return sb.String()
}

// GoOptions configures the "go" command. Depth/Nodes/Movetime of zero means
// unset. HasClock indicates that wtime/winc/btime/binc should be emitted (the
// clocks are already color-indexed by the caller, per the engine/color
// permutation in the game driver). MovesToGo of zero means no move-to-go
// count is sent (sudden death or rest-of-game).
type GoOptions struct {
	Nodes    int64
	Depth    int
	Movetime time.Duration

	HasClock                                 bool
	WhiteTime, WhiteInc, BlackTime, BlackInc time.Duration

	MovesToGo int
	Ply       int // current ply, used to compute the movestogo countdown
}

// FormatGo renders the "go" command.
func FormatGo(opt GoOptions) string {
	parts := []string{"go"}

	if opt.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %d", opt.Nodes))
	}
	if opt.Depth > 0 {
		parts = append(parts, fmt.Sprintf("depth %d", opt.Depth))
	}
	if opt.Movetime > 0 {
		parts = append(parts, fmt.Sprintf("movetime %d", opt.Movetime.Milliseconds()))
	}
	if opt.HasClock {
		parts = append(parts, fmt.Sprintf("wtime %d winc %d btime %d binc %d",
			opt.WhiteTime.Milliseconds(), opt.WhiteInc.Milliseconds(),
			opt.BlackTime.Milliseconds(), opt.BlackInc.Milliseconds()))
	}
	if opt.MovesToGo > 0 {
		r := opt.MovesToGo - ((opt.Ply / 2) % opt.MovesToGo)
		parts = append(parts, fmt.Sprintf("movestogo %d", r))
	}

	return strings.Join(parts, " ")
}
