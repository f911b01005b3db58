package bot

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/lichess"
)

const DefaultTablebasePieces = 7

type Searcher interface {
	BestMove(ctx context.Context, p engine.Position) (engine.Move, bool)
}

type Tablebase interface {
	TablebaseDTZ(ctx context.Context, p engine.Position) ([]lichess.TablebaseMove, error)
}

// MoveSource decides where the bot's moves come from. Positions with few enough pieces are
// looked up in the tablebase, whose first entry is its best move; everything else, and every
// failed lookup, goes to the search.
type MoveSource struct {
	Searcher        Searcher
	Tablebase       Tablebase // nil disables lookups
	TablebasePieces int

	logger zerolog.Logger
}

func NewMoveSource(searcher Searcher, tablebase Tablebase, tablebasePieces int) *MoveSource {
	if tablebasePieces <= 0 {
		tablebasePieces = DefaultTablebasePieces
	}
	return &MoveSource{
		Searcher:        searcher,
		Tablebase:       tablebase,
		TablebasePieces: tablebasePieces,
		logger:          log.With().Str("component", "move-source").Logger(),
	}
}

// Choose returns the move to play, or false if the position has no legal moves.
func (ms *MoveSource) Choose(ctx context.Context, p engine.Position) (engine.Move, bool) {
	if move, ok := ms.fromTablebase(ctx, p); ok {
		return move, true
	}
	return ms.Searcher.BestMove(ctx, p)
}

func (ms *MoveSource) fromTablebase(ctx context.Context, p engine.Position) (engine.Move, bool) {
	if ms.Tablebase == nil || p.PieceCount() > ms.TablebasePieces {
		return engine.NoMove, false
	}

	moves, err := ms.Tablebase.TablebaseDTZ(ctx, p)
	if err != nil {
		ms.logger.Warn().Err(err).Str("fen", p.Fen()).Msg("tablebase-lookup-failed")
		return engine.NoMove, false
	}
	if len(moves) == 0 {
		return engine.NoMove, false
	}

	best := moves[0]
	if !lo.Contains(p.LegalMoves(), best.Move) {
		ms.logger.Warn().Str("move", best.UCI).Str("fen", p.Fen()).Msg("tablebase-move-illegal")
		return engine.NoMove, false
	}

	ms.logger.Debug().Str("move", best.UCI).Str("category", best.Category).Msg("tablebase-move")
	return best.Move, true
}
