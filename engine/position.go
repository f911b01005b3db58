// Board model used by the search - a thin immutable wrapper over dragontoothmg.

package engine

import (
	"errors"
	"fmt"
	"math/bits"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

type Move = dragon.Move
type Piece = dragon.Piece

const NoMove Move = 0

type Color int8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

type Status int8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Position is a board state. It is passed by value and never mutated; Apply
// returns a new Position.
type Position struct {
	board dragon.Board
}

func NewPosition(fen string) Position {
	return Position{board: dragon.ParseFen(fen)}
}

var ErrInvalidPosition = errors.New("invalid position")

// ParsePosition parses a FEN and rejects positions the move generator cannot handle: each side
// needs exactly one king, no pawns on the back ranks, and the side not to move must not be in check.
// NewPosition trusts its input.
func ParsePosition(fen string) (Position, error) {
	_, err := chess.FEN(fen)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}
	p := NewPosition(fen)
	err = p.validate()
	if err != nil {
		return Position{}, fmt.Errorf("%w: %s: %w", ErrInvalidPosition, fen, err)
	}
	return p, nil
}

const backRanks = 0xff000000000000ff

func (p Position) validate() error {
	if n := bits.OnesCount64(p.board.White.Kings); n != 1 {
		return fmt.Errorf("white has %d kings", n)
	}
	if n := bits.OnesCount64(p.board.Black.Kings); n != 1 {
		return fmt.Errorf("black has %d kings", n)
	}
	if (p.board.White.Pawns|p.board.Black.Pawns)&backRanks != 0 {
		return errors.New("pawn on the first or last rank")
	}
	// The mover could capture the king
	b := p.board
	b.Wtomove = !b.Wtomove
	if b.OurKingInCheck() {
		return fmt.Errorf("%s is in check but not to move", p.SideToMove().opponent())
	}
	return nil
}

func (c Color) opponent() Color {
	return 1 - c
}

func StartPosition() Position {
	return NewPosition(dragon.Startpos)
}

func ParseMove(uci string) (Move, error) {
	return dragon.ParseMove(uci)
}

// Zobrist hash from dragontoothmg. Positions with the same hash are treated as equal.
func (p Position) Hash() uint64 {
	b := p.board
	return b.Hash()
}

func (p Position) SideToMove() Color {
	if p.board.Wtomove {
		return White
	}
	return Black
}

func (p Position) Fen() string {
	b := p.board
	return b.ToFen()
}

func (p Position) String() string {
	return p.Fen()
}

// Return the piece and its color on the given square (0 = a1, 63 = h8), and whether the square is occupied.
func (p Position) PieceAt(sq uint8) (Piece, Color, bool) {
	bit := uint64(1) << sq
	if p.board.White.All&bit != 0 {
		return pieceOn(&p.board.White, bit), White, true
	}
	if p.board.Black.All&bit != 0 {
		return pieceOn(&p.board.Black, bit), Black, true
	}
	return dragon.Nothing, White, false
}

func pieceOn(bbs *dragon.Bitboards, bit uint64) Piece {
	switch {
	case bbs.Pawns&bit != 0:
		return dragon.Pawn
	case bbs.Knights&bit != 0:
		return dragon.Knight
	case bbs.Bishops&bit != 0:
		return dragon.Bishop
	case bbs.Rooks&bit != 0:
		return dragon.Rook
	case bbs.Queens&bit != 0:
		return dragon.Queen
	case bbs.Kings&bit != 0:
		return dragon.King
	}
	return dragon.Nothing
}

// Number of pieces on the board, kings included.
func (p Position) PieceCount() int {
	return bits.OnesCount64(p.board.White.All | p.board.Black.All)
}

func (p Position) LegalMoves() []Move {
	b := p.board
	return b.GenerateLegalMoves()
}

func (p Position) Status() Status {
	return p.statusOf(p.LegalMoves())
}

// Status given the already generated legal moves of this position.
func (p Position) statusOf(legalMoves []Move) Status {
	if len(legalMoves) != 0 {
		return Ongoing
	}
	b := p.board
	if b.OurKingInCheck() {
		return Checkmate
	}
	return Stalemate
}

// Apply returns the position after the move. The receiver is unchanged.
func (p Position) Apply(move Move) Position {
	next := p.board
	next.Apply(move)
	return Position{board: next}
}

// A move is tactical if it captures or promotes.
// En-passant captures land on an empty square, so a pawn changing file counts as a capture too.
func (p Position) IsTactical(move Move) bool {
	if move.Promote() != dragon.Nothing {
		return true
	}
	occupied := p.board.White.All | p.board.Black.All
	to := move.To()
	if occupied&(uint64(1)<<to) != 0 {
		return true
	}
	from := move.From()
	piece, _, _ := p.PieceAt(from)
	return piece == dragon.Pawn && from&7 != to&7
}
