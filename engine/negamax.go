package engine

// Return the best eval attainable through plain negamax from the given position.
// Same tree as NegAlphaBeta - same horizon and tactical extension - but every child is visited
// in generation order and nothing is cached, so it is the reference value for the pruned search.
// Eval is given from current mover's perspective.
func (s *SearchT) NegaMax(p Position, depth int, depthLimit int) Score {
	s.stats.Nodes++

	if depth >= depthLimit {
		s.stats.Leaves++
		return Evaluate(p, depth)
	}

	legalMoves := p.LegalMoves()

	if status := p.statusOf(legalMoves); status != Ongoing {
		s.stats.Mates++
		return evaluate(p, status, depth)
	}

	s.stats.NonLeafs++
	if depth < MaxDepthStats {
		s.stats.NonLeafsAt[depth]++
	}

	bestEval := MinScore

	for _, move := range legalMoves {
		childLimit := depthLimit
		if p.IsTactical(move) && depth+1 == depthLimit {
			childLimit = depthLimit + 1
			s.stats.Extensions++
		}

		eval := -s.NegaMax(p.Apply(move), depth+1, childLimit)

		// We try to maximise our eval.
		if eval > bestEval {
			bestEval = eval
		}
	}

	return bestEval
}
