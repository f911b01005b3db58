package engine

// Per-search context. One per iterative deepening run - never shared between goroutines.
type SearchT struct {
	cache ValueCache
	stats SearchStatsT
}

func NewSearch(cache ValueCache) *SearchT {
	if cache == nil {
		cache = NewValueCache()
	}
	return &SearchT{cache: cache}
}

func (s *SearchT) Stats() *SearchStatsT {
	return &s.stats
}

func (s *SearchT) Cache() ValueCache {
	return s.cache
}

// Search runs a single alpha-beta search against the given cache.
func Search(p Position, depth int, depthLimit int, alpha Score, beta Score, cache ValueCache) Score {
	return NewSearch(cache).NegAlphaBeta(p, depth, depthLimit, alpha, beta)
}

// Return the best eval attainable through alpha-beta from the given position.
// Eval is given from current mover's perspective.
func (s *SearchT) NegAlphaBeta(p Position, depth int, depthLimit int, alpha Score, beta Score) Score {
	s.stats.Nodes++

	if depth >= depthLimit {
		s.stats.Leaves++
		return Evaluate(p, depth)
	}

	// Generate all legal moves - thanks dragontoothmg!
	legalMoves := p.LegalMoves()

	// Check for checkmate or stalemate
	if status := p.statusOf(legalMoves); status != Ongoing {
		s.stats.Mates++
		return evaluate(p, status, depth)
	}

	s.stats.NonLeafs++
	if depth < MaxDepthStats {
		s.stats.NonLeafsAt[depth]++
	}

	children := expand(p, legalMoves)
	s.stats.CacheHits += uint64(s.cache.orderChildren(p, children))

	// Fail-hard: best never drops below alpha
	best := alpha

	for i := range children {
		kid := &children[i]

		// Search captures and promotions at the horizon one ply deeper
		childLimit := depthLimit
		if kid.tactical && depth+1 == depthLimit {
			childLimit = depthLimit + 1
			s.stats.Extensions++
		}

		eval := -s.NegAlphaBeta(kid.pos, depth+1, childLimit, -beta, -best)

		if eval > best {
			best = eval
			if best >= beta {
				// beta cut-off
				s.stats.CutNodes++
				if i == 0 {
					s.stats.FirstChildCuts++
				}
				break
			}
		}
	}

	// Keyed by this node's position, not the last child
	s.cache.Insert(p, best)

	return best
}

// Apply each legal move and tag the tactical ones.
func expand(p Position, legalMoves []Move) []child {
	children := make([]child, len(legalMoves))
	for i, move := range legalMoves {
		children[i] = child{
			move:     move,
			pos:      p.Apply(move),
			tactical: p.IsTactical(move),
		}
	}
	return children
}
