package engine

import (
	"context"
	"time"
)

type DeepenResult struct {
	Score      Score           // eval of the last completed depth, from the position's mover's perspective
	Depth      int             // last completed depth limit
	Iterations []time.Duration // wall time of each completed depth
	Elapsed    time.Duration
	CacheSize  int
	Stats      SearchStatsT
}

// Deepen runs alpha-beta at increasing depth limits against one value cache until the think
// time is used up. The budget is only checked between depths: a depth that has started always
// finishes, so the overshoot is at most the duration of the last depth.
// The context is checked at the same points and never interrupts a depth.
func (e *Engine) Deepen(ctx context.Context, p Position) DeepenResult {
	start := time.Now()
	s := NewSearch(NewValueCache())

	var res DeepenResult
	for depthLimit := e.cfg.StartDepth; ; depthLimit++ {
		depthStart := time.Now()
		res.Score = s.NegAlphaBeta(p, 0, depthLimit, MinScore, MaxScore)
		res.Depth = depthLimit
		res.Iterations = append(res.Iterations, time.Since(depthStart))

		if time.Since(start) > e.cfg.ThinkTime {
			break
		}
		if depthLimit >= e.cfg.MaxDepth {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	res.Elapsed = time.Since(start)
	res.CacheSize = s.cache.Len()
	res.Stats = s.stats
	return res
}
