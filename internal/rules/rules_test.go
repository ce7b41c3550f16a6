package rules_test

import (
	"testing"

	"github.com/herohde/chessmatch/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame_Initial(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	assert.Equal(t, rules.White, pos.Turn())
	assert.Equal(t, 0, pos.Rule50())
	assert.Equal(t, 1, pos.FullMove())
	assert.Zero(t, pos.Checkers())
	assert.Len(t, pos.LegalMoves(), 20)

	_, ok := pos.LastMove()
	assert.False(t, ok)
}

func TestPush_AdvancesRule50AndTurn(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	next, m, err := pos.Push("e2e4")
	require.NoError(t, err)

	assert.Equal(t, rules.Black, next.Turn())
	assert.Equal(t, 0, next.Rule50()) // pawn move resets rule50
	assert.Equal(t, "e2e4", m.LAN())
	assert.False(t, m.Capture)
}

func TestPush_IllegalMove(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	_, _, err = pos.Push("e2e5")
	assert.Error(t, err)
}

func TestPush_Rule50IncrementsOnQuietMove(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	pos, _, err = pos.Push("g1f3")
	require.NoError(t, err)
	assert.Equal(t, 1, pos.Rule50())

	pos, _, err = pos.Push("g8f6")
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Rule50())
}

func TestCheckers_SetAfterCheckingMove(t *testing.T) {
	// Fool's mate: 1. f3 e5 2. g4 Qh4#
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	for _, lan := range []string{"f2f3", "e7e5", "g2g4"} {
		pos, _, err = pos.Push(lan)
		require.NoError(t, err)
	}

	mate, _, err := pos.Push("d8h4")
	require.NoError(t, err)
	assert.NotZero(t, mate.Checkers())
	assert.Empty(t, mate.LegalMoves())
}

func TestCheckers_SetWhenLoadingCheckmateFEN(t *testing.T) {
	// Back-rank mate: black king g8 boxed in by its own pawns, rook on e8.
	pos, err := rules.NewGame("4R1k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", false)
	require.NoError(t, err)
	assert.NotZero(t, pos.Checkers())
	assert.Empty(t, pos.LegalMoves())

	quiet, err := rules.NewGame("6k1/5ppp/8/8/8/8/8/4R1K1 b - - 0 1", false)
	require.NoError(t, err)
	assert.Zero(t, quiet.Checkers())
}

func TestSAN_ExcludesCheckGlyph(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)
	for _, lan := range []string{"e2e4", "f7f6"} {
		pos, _, err = pos.Push(lan)
		require.NoError(t, err)
	}

	next, m, err := pos.Push("d1h5")
	require.NoError(t, err)
	assert.Equal(t, "Qh5", m.SAN)
	assert.NotZero(t, next.Checkers())
}

func TestIsInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/8/8/4K3/8 w - - 0 1", true},           // K vs K
		{"8/8/8/4k3/8/3NK3/8/8 w - - 0 1", true},           // K+N vs K
		{"8/8/8/4k3/8/3BK3/8/8 w - - 0 1", true},           // K+B vs K
		{"8/8/8/4k3/8/3PK3/8/8 w - - 0 1", false},          // K+P vs K
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", false},
	}
	for _, c := range cases {
		pos, err := rules.NewGame(c.fen, false)
		require.NoError(t, err)
		assert.Equal(t, c.want, pos.IsInsufficientMaterial(), c.fen)
	}
}

func TestParseLAN(t *testing.T) {
	m, err := rules.ParseLAN("e7e8q")
	require.NoError(t, err)
	assert.Equal(t, "e7", m.From)
	assert.Equal(t, "e8", m.To)
	assert.Equal(t, byte('q'), m.Promotion)
	assert.True(t, m.IsPromotion())

	_, err = rules.ParseLAN("e7")
	assert.Error(t, err)
}
