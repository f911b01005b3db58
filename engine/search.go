package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Engine struct {
	cfg    Config
	logger zerolog.Logger
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:    cfg.withDefaults(),
		logger: log.With().Str("component", "engine").Logger(),
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

type MoveScore struct {
	Move  Move
	Score Score // eval of the position after Move, from the opponent's perspective
	Depth int   // last completed depth of the search below Move
	Nodes uint64
}

// EvaluateMoves searches every legal move of the position in parallel, one iterative deepening
// run per move, and returns one entry per legal move in move generation order.
func (e *Engine) EvaluateMoves(ctx context.Context, p Position) []MoveScore {
	start := time.Now()
	legalMoves := p.LegalMoves()

	// Each task owns its slot, so no locking
	results := make([]MoveScore, len(legalMoves))
	stats := make([]SearchStatsT, len(legalMoves))

	g := errgroup.Group{}
	g.SetLimit(e.cfg.Workers)
	for i, move := range legalMoves {
		g.Go(func() error {
			res := e.Deepen(ctx, p.Apply(move))
			results[i] = MoveScore{Move: move, Score: res.Score, Depth: res.Depth, Nodes: res.Stats.Nodes}
			stats[i] = res.Stats
			return nil
		})
	}
	// Tasks never fail
	_ = g.Wait()

	var total SearchStatsT
	maxDepth := 0
	for i := range stats {
		total.Add(&stats[i])
		maxDepth = max(maxDepth, results[i].Depth)
	}

	e.logger.Info().
		Str("fen", p.Fen()).
		Int("moves", len(results)).
		Int("max-depth", maxDepth).
		Uint64("nodes", total.Nodes).
		Dur("took", time.Since(start)).
		Msg("evaluated-moves")
	if e.cfg.DumpSearchStats {
		total.Dump(e.logger, maxDepth)
	}

	return results
}

// BestMove returns the move that leaves the opponent with the lowest eval, or false if the
// position has no legal moves. The first of several equally good moves wins.
func (e *Engine) BestMove(ctx context.Context, p Position) (Move, bool) {
	best, ok := Best(e.EvaluateMoves(ctx, p))
	return best.Move, ok
}

// Best picks the entry with the minimal score. Earlier entries win ties.
func Best(moves []MoveScore) (MoveScore, bool) {
	if len(moves) == 0 {
		return MoveScore{}, false
	}
	return lo.MinBy(moves, func(a MoveScore, b MoveScore) bool {
		return a.Score < b.Score
	}), true
}
