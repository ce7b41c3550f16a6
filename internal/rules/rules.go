// Package rules is the chess-rule collaborator: position representation, legal
// move generation and FEN/LAN/SAN conversion. The match driver treats it as an
// opaque library and never evaluates positions itself.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/notnil/chess"
)

// Color is the playing side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Move is a not-necessarily-legal move in long algebraic notation, along with
// the contextual metadata the sampler and PGN writer need.
type Move struct {
	From, To  string
	Promotion byte // 0, or one of 'q','r','b','n'
	SAN       string
	Capture   bool
}

// LAN renders the move in long algebraic notation, e.g. "e7e8q".
func (m Move) LAN() string {
	if m.Promotion != 0 {
		return m.From + m.To + string(m.Promotion)
	}
	return m.From + m.To
}

func (m Move) String() string {
	return m.LAN()
}

func (m Move) IsPromotion() bool {
	return m.Promotion != 0
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// Position is an immutable chess position: side to move, rule50 ply counter,
// a Zobrist-like repetition key, a "checkers" check marker (see Checkers),
// the Chess960 flag and the move that produced it. Position zero value is not
// valid; use NewGame to create position 0 of a game.
type Position struct {
	g *chess.Game

	turn     Color
	rule50   int
	fullMove int
	key      uint64
	checkers uint64
	chess960 bool
	lastMove Move
	hasLast  bool
}

// NewGame returns position 0 for a game starting from the given FEN (or the
// standard initial position if fen is empty).
func NewGame(fen string, chess960 bool) (Position, error) {
	var g *chess.Game
	if fen == "" {
		g = chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	} else {
		opt, err := chess.FEN(fen)
		if err != nil {
			return Position{}, fmt.Errorf("invalid fen %q: %w", fen, err)
		}
		g = chess.NewGame(chess.UseNotation(chess.UCINotation{}), opt)
	}

	rule50, fullMove, err := parseClocks(g.Position().String())
	if err != nil {
		return Position{}, err
	}

	p := Position{
		g:        g,
		turn:     colorOf(g.Position().Turn()),
		rule50:   rule50,
		fullMove: fullMove,
		key:      repetitionKey(g.Position().String()),
		chess960: chess960,
	}
	if g.Method() == chess.Checkmate {
		p.checkers = 1
	}
	return p, nil
}

// Turn returns the side to move.
func (p Position) Turn() Color { return p.turn }

// Rule50 returns the half-move clock (plies since the last capture or pawn move).
func (p Position) Rule50() int { return p.rule50 }

// FullMove returns the full-move number.
func (p Position) FullMove() int { return p.fullMove }

// Key is a Zobrist-like 64-bit repetition key: positions with the same Key and
// Rule50 ancestry are repetition-equivalent.
func (p Position) Key() uint64 { return p.key }

// Checkers is nonzero iff the side to move is in check. For positions
// produced by Push this comes from the move generator's check tag; a
// position loaded from FEN reports check only when it is checkmate.
func (p Position) Checkers() uint64 { return p.checkers }

// Chess960 reports whether this game is played under Chess960 rules.
func (p Position) Chess960() bool { return p.chess960 }

// LastMove returns the move that produced this position, if any.
func (p Position) LastMove() (Move, bool) { return p.lastMove, p.hasLast }

// FEN renders the position in Forsyth-Edwards Notation.
func (p Position) FEN() string { return p.g.Position().String() }

// LegalMoves returns the legal moves from this position.
func (p Position) LegalMoves() []Move {
	valid := p.g.ValidMoves()
	out := make([]Move, 0, len(valid))
	for _, mv := range valid {
		out = append(out, toMove(p.g.Position(), mv))
	}
	return out
}

// IsInsufficientMaterial reports whether neither side has enough material to
// deliver checkmate by any sequence of legal moves.
func (p Position) IsInsufficientMaterial() bool {
	return p.g.Method() == chess.InsufficientMaterial
}

// Push applies a move given in long algebraic notation (as reported by an
// engine's bestmove/PV) and returns the resulting position. An error means the
// move was not legal from this position.
func (p Position) Push(lan string) (Position, Move, error) {
	var mv *chess.Move
	notation := chess.UCINotation{}
	for _, cand := range p.g.ValidMoves() {
		if notation.Encode(p.g.Position(), cand) == lan {
			mv = cand
			break
		}
	}
	if mv == nil {
		return Position{}, Move{}, fmt.Errorf("illegal move %q", lan)
	}

	m := toMove(p.g.Position(), mv)

	clone := p.g.Clone()
	if err := clone.Move(mv); err != nil {
		return Position{}, Move{}, fmt.Errorf("illegal move %q: %w", lan, err)
	}

	rule50, fullMove, err := parseClocks(clone.Position().String())
	if err != nil {
		return Position{}, Move{}, err
	}

	next := Position{
		g:        clone,
		turn:     colorOf(clone.Position().Turn()),
		rule50:   rule50,
		fullMove: fullMove,
		key:      repetitionKey(clone.Position().String()),
		chess960: p.chess960,
		lastMove: m,
		hasLast:  true,
	}
	if mv.HasTag(chess.Check) {
		next.checkers = 1
	}
	return next, m, nil
}

// ParseLAN splits a long algebraic notation move into its components without
// validating it against any particular position. Used to compare an engine's
// bestmove token against the legal-move set.
func ParseLAN(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return Move{}, fmt.Errorf("invalid lan move %q", s)
	}
	m := Move{From: s[0:2], To: s[2:4]}
	if len(s) == 5 {
		m.Promotion = s[4]
	}
	return m, nil
}

func toMove(pos *chess.Position, mv *chess.Move) Move {
	lan := chess.UCINotation{}.Encode(pos, mv)
	// The library's SAN encoding includes the check glyph; strip it so the
	// PGN writer controls +/# placement from the game's terminal state.
	san := strings.TrimRight(chess.AlgebraicNotation{}.Encode(pos, mv), "+#")

	m := Move{
		From:    lan[0:2],
		To:      lan[2:4],
		SAN:     san,
		Capture: mv.HasTag(chess.Capture) || mv.HasTag(chess.EnPassant),
	}
	if len(lan) == 5 {
		m.Promotion = lan[4]
	}
	return m
}

func colorOf(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func parseClocks(fen string) (rule50, fullMove int, err error) {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return 0, 0, fmt.Errorf("malformed fen %q", fen)
	}
	rule50, err = strconv.Atoi(fields[4])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed halfmove clock in fen %q: %w", fen, err)
	}
	fullMove, err = strconv.Atoi(fields[5])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed fullmove counter in fen %q: %w", fen, err)
	}
	return rule50, fullMove, nil
}

// repetitionKey hashes the repetition-relevant prefix of a FEN (piece
// placement, side to move, castling rights, en passant target) -- the
// halfmove and fullmove counters are excluded, as they do not affect whether
// two positions are the same for draw-detection purposes.
func repetitionKey(fen string) uint64 {
	fields := strings.Fields(fen)
	n := len(fields)
	if n > 4 {
		n = 4
	}
	return xxhash.Sum64String(strings.Join(fields[:n], " "))
}
