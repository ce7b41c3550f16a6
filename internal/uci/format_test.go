package uci_test

import (
	"testing"
	"time"

	"github.com/herohde/chessmatch/internal/rules"
	"github.com/herohde/chessmatch/internal/uci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPosition_NoMoves(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	got := uci.FormatPosition([]rules.Position{pos}, 0)
	assert.Equal(t, "position fen "+pos.FEN(), got)
}

func TestFormatPosition_PrunesBeforeRule50Reset(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	history := []rules.Position{pos}
	for _, lan := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		pos, _, err = pos.Push(lan)
		require.NoError(t, err)
		history = append(history, pos)
	}

	got := uci.FormatPosition(history, len(history)-1)
	// e7e5 is the last pawn move, so rule50 is 2 at ply 4 and the command
	// starts from the position after it.
	assert.Equal(t, "position fen "+history[2].FEN()+" moves g1f3 b8c6", got)
}

func TestFormatGo_DepthOnly(t *testing.T) {
	got := uci.FormatGo(uci.GoOptions{Depth: 10})
	assert.Equal(t, "go depth 10", got)
}

func TestFormatGo_Clocks(t *testing.T) {
	got := uci.FormatGo(uci.GoOptions{
		HasClock:  true,
		WhiteTime: 10 * time.Second,
		WhiteInc:  time.Second,
		BlackTime: 8 * time.Second,
		BlackInc:  time.Second,
	})
	assert.Equal(t, "go wtime 10000 winc 1000 btime 8000 binc 1000", got)
}

func TestFormatGo_MovesToGo(t *testing.T) {
	got := uci.FormatGo(uci.GoOptions{HasClock: true, WhiteTime: time.Second, BlackTime: time.Second, MovesToGo: 2, Ply: 4})
	assert.Contains(t, got, "movestogo 2")

	got = uci.FormatGo(uci.GoOptions{HasClock: true, WhiteTime: time.Second, BlackTime: time.Second, MovesToGo: 2, Ply: 2})
	assert.Contains(t, got, "movestogo 1")
}

func TestFormatGo_Movetime(t *testing.T) {
	got := uci.FormatGo(uci.GoOptions{Movetime: 250 * time.Millisecond})
	assert.Equal(t, "go movetime 250", got)
}
