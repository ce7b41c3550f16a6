package sample

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteCSV appends one CSV record: FEN,score,result.
func WriteCSV(w io.Writer, s Sample) error {
	_, err := fmt.Fprintf(w, "%s,%d,%d\n", s.FEN, s.Score, s.Result)
	return err
}

// WriteBinary appends one length-framed binary record: a uint16 FEN length
// prefix, the FEN bytes, a little-endian int32 score, and a single result
// byte. The length prefix keeps records self-delimiting so a reader can
// skip or stream them without a separate index.
func WriteBinary(w io.Writer, s Sample) error {
	fen := []byte(s.FEN)
	if err := binary.Write(w, binary.LittleEndian, uint16(len(fen))); err != nil {
		return err
	}
	if _, err := w.Write(fen); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.Score); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, int8(s.Result))
}
