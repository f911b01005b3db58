package engine

import (
	"math"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Eval in centi-pawns, i.e. 100 === 1 pawn.
// Always from the perspective of the side to move in the position it belongs to.
type Score int32

// Mate at the root scores MateScore, mates found deeper score one less per ply.
const MateScore Score = 10100

const DrawScore Score = 0

// Search window bounds - don't use MinInt32 cos it's not symmetrical with MaxInt32
const MinScore Score = -math.MaxInt32
const MaxScore Score = math.MaxInt32

// Piece values
const nothingVal = 0
const pawnVal = 100
const knightVal = 320
const bishopVal = 330
const rookVal = 500
const queenVal = 900
const kingVal = 0

var pieceVals = [7]Score{
	nothingVal,
	pawnVal,
	knightVal,
	bishopVal,
	rookVal,
	queenVal,
	kingVal}

func PieceValue(piece Piece) Score {
	return pieceVals[piece]
}

// Evaluate scores a position reached at the given depth from the search root.
func Evaluate(p Position, depth int) Score {
	return evaluate(p, p.Status(), depth)
}

func evaluate(p Position, status Status, depth int) Score {
	var eval Score
	switch status {
	case Checkmate:
		// closer to root is better
		if p.board.Wtomove {
			eval = -MateScore + Score(depth)
		} else {
			eval = MateScore - Score(depth)
		}
	case Stalemate:
		eval = DrawScore
	default:
		eval = material(&p.board)
	}

	if !p.board.Wtomove {
		return -eval
	}
	return eval
}

// Material balance from white's perspective, summed over all squares.
func material(board *dragon.Board) Score {
	var eval Score
	for sq := uint8(0); sq < 64; sq++ {
		bit := uint64(1) << sq
		if board.White.All&bit != 0 {
			eval += pieceVals[pieceOn(&board.White, bit)]
		} else if board.Black.All&bit != 0 {
			eval -= pieceVals[pieceOn(&board.Black, bit)]
		}
	}
	return eval
}
