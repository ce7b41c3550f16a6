package sample_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/herohde/chessmatch/internal/rules"
	"github.com/herohde/chessmatch/internal/sample"
	"github.com/herohde/chessmatch/internal/uci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePV_StopsAtFirstQuietMove(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	resolved := sample.ResolvePV(context.Background(), pos, "g1f3 g8f6")
	assert.Equal(t, pos.FEN(), resolved.FEN(), "neither move is a capture or check, so no tactical prefix exists")
}

func TestResolvePV_WalksThroughCapture(t *testing.T) {
	// 1.e4 d5 2.exd5: the capture is tactical and not a discovered check, so
	// the resolved position should be the one right after exd5.
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)
	pos, _, err = pos.Push("e2e4")
	require.NoError(t, err)
	pos, _, err = pos.Push("d7d5")
	require.NoError(t, err)

	resolved := sample.ResolvePV(context.Background(), pos, "e4d5")
	want, _, err := pos.Push("e4d5")
	require.NoError(t, err)
	assert.Equal(t, want.FEN(), resolved.FEN())
}

func TestResolvePV_WalksThroughCheckEvasion(t *testing.T) {
	// 1.e4 f6 2.Qh5+: black is in check, so the otherwise-quiet g7g6 evasion
	// counts as tactical and the walk continues through it.
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)
	for _, lan := range []string{"e2e4", "f7f6", "d1h5"} {
		pos, _, err = pos.Push(lan)
		require.NoError(t, err)
	}

	resolved := sample.ResolvePV(context.Background(), pos, "g7g6")
	want, _, err := pos.Push("g7g6")
	require.NoError(t, err)
	assert.Equal(t, want.FEN(), resolved.FEN())
}

func TestResolvePV_IllegalMoveStopsWalk(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)
	pos, _, err = pos.Push("e2e4")
	require.NoError(t, err)
	pos, _, err = pos.Push("d7d5")
	require.NoError(t, err)

	resolved := sample.ResolvePV(context.Background(), pos, "e4e5 d5d4")
	assert.Equal(t, pos.FEN(), resolved.FEN(), "e4e5 is quiet, walk never starts")

	resolved = sample.ResolvePV(context.Background(), pos, "e4d6")
	assert.Equal(t, pos.FEN(), resolved.FEN(), "illegal token keeps the starting position")
}

func TestIsMateScore(t *testing.T) {
	assert.True(t, sample.IsMateScore(math.MaxInt16-3))
	assert.True(t, sample.IsMateScore(math.MinInt16+2))
	assert.False(t, sample.IsMateScore(34))
}

func TestBuild_AlwaysAcceptedWithFreqOne(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	policy := sample.Policy{Freq: 1, Decay: 0}

	s, ok := sample.Build(rng, policy, pos, pos, uci.Info{Score: 34})
	require.True(t, ok)
	assert.Equal(t, pos.FEN(), s.FEN)
	assert.EqualValues(t, 34, s.Score)
	assert.Equal(t, sample.Unlabeled, s.Result)
}

func TestBuild_NeverAcceptedWithFreqZero(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	policy := sample.Policy{Freq: 0, Decay: 0}

	_, ok := sample.Build(rng, policy, pos, pos, uci.Info{Score: 34})
	assert.False(t, ok)
}

func TestBuild_SkipsMateScoreWhenResolving(t *testing.T) {
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	policy := sample.Policy{Freq: 1, Decay: 0, Resolve: true}

	_, ok := sample.Build(rng, policy, pos, pos, uci.Info{Score: math.MaxInt16 - 1})
	assert.False(t, ok)
}

func TestBuild_DiscardsWhenResolvedStillInCheck(t *testing.T) {
	// Black to move, in check from the queen: any resolved position handed in
	// while still in check must be discarded when Resolve is configured.
	pos, err := rules.NewGame("", false)
	require.NoError(t, err)
	pos, _, err = pos.Push("e2e4")
	require.NoError(t, err)
	pos, _, err = pos.Push("f7f6")
	require.NoError(t, err)
	pos, _, err = pos.Push("d1h5")
	require.NoError(t, err)

	inCheck := pos // black, in check from Qh5

	rng := rand.New(rand.NewSource(1))
	policy := sample.Policy{Freq: 1, Decay: 0, Resolve: true}

	_, ok := sample.Build(rng, policy, pos, inCheck, uci.Info{Score: 10})
	assert.False(t, ok)
}
