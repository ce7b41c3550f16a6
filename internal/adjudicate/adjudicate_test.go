package adjudicate_test

import (
	"testing"

	"github.com/herohde/chessmatch/internal/adjudicate"
	"github.com/herohde/chessmatch/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, lans ...string) []rules.Position {
	t.Helper()

	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	history := []rules.Position{pos}
	for _, lan := range lans {
		pos, _, err = pos.Push(lan)
		require.NoError(t, err)
		history = append(history, pos)
	}
	return history
}

func TestAdjudicate_FoolsMate(t *testing.T) {
	history := play(t, "f2f3", "e7e5", "g2g4", "d8h4")

	result := adjudicate.Adjudicate(history, len(history)-1)
	assert.Equal(t, adjudicate.Checkmate, result.State)
}

func TestAdjudicate_OngoingReturnsLegalMoves(t *testing.T) {
	history := play(t, "e2e4")

	result := adjudicate.Adjudicate(history, len(history)-1)
	assert.Equal(t, adjudicate.None, result.State)
	assert.NotEmpty(t, result.Moves)
}

func TestAdjudicate_Stalemate(t *testing.T) {
	// Classic stalemate position: black to move, no legal moves, not in check.
	pos, err := rules.NewGame("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false)
	require.NoError(t, err)

	result := adjudicate.Adjudicate([]rules.Position{pos}, 0)
	assert.Equal(t, adjudicate.Stalemate, result.State)
}

func TestAdjudicate_Threefold(t *testing.T) {
	// Shuffle knights back and forth three times: same position recurs.
	history := play(t,
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
	)

	result := adjudicate.Adjudicate(history, len(history)-1)
	assert.Equal(t, adjudicate.Threefold, result.State)
}

func TestAdjudicate_FiftyMoves(t *testing.T) {
	// Halfmove clock at 100 with moves still available: draw by the 50-move
	// rule. Rooks on the board keep material sufficient.
	pos, err := rules.NewGame("4k3/7r/8/8/8/8/R7/4K3 w - - 100 80", false)
	require.NoError(t, err)

	result := adjudicate.Adjudicate([]rules.Position{pos}, 0)
	assert.Equal(t, adjudicate.FiftyMoves, result.State)
}

func TestAdjudicate_MateBeatsFiftyMoves(t *testing.T) {
	// Checkmate delivered exactly on the 100th half-move is still a mate.
	pos, err := rules.NewGame("4k3/4Q3/4K3/8/8/8/8/8 b - - 100 90", false)
	require.NoError(t, err)

	result := adjudicate.Adjudicate([]rules.Position{pos}, 0)
	assert.Equal(t, adjudicate.Checkmate, result.State)
}

func TestAdjudicate_InsufficientMaterial(t *testing.T) {
	pos, err := rules.NewGame("8/8/8/4k3/8/8/4K3/8 w - - 12 30", false)
	require.NoError(t, err)

	result := adjudicate.Adjudicate([]rules.Position{pos}, 0)
	assert.Equal(t, adjudicate.InsufficientMaterial, result.State)
}
