package sample_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/herohde/chessmatch/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample.WriteCSV(&buf, sample.Sample{FEN: "8/8/8/8/8/8/8/8 w - - 0 1", Score: -12, Result: sample.Win}))
	assert.Equal(t, "8/8/8/8/8/8/8/8 w - - 0 1,-12,2\n", buf.String())
}

func TestWriteBinary_RoundTripsLength(t *testing.T) {
	var buf bytes.Buffer
	s := sample.Sample{FEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", Score: 34, Result: sample.Draw}
	require.NoError(t, sample.WriteBinary(&buf, s))

	var n uint16
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &n))
	assert.EqualValues(t, len(s.FEN), n)

	fen := make([]byte, n)
	_, err := buf.Read(fen)
	require.NoError(t, err)
	assert.Equal(t, s.FEN, string(fen))

	var score int32
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &score))
	assert.Equal(t, s.Score, score)

	var result int8
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &result))
	assert.EqualValues(t, s.Result, result)
}
