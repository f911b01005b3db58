package engine

import (
	"fmt"

	"github.com/rs/zerolog"
)

const MaxDepthStats = 16

// Counters for one search. Each root move task owns its own copy; they are merged after the join.
type SearchStatsT struct {
	Nodes          uint64 // #nodes visited
	Leaves         uint64 // #nodes evaluated statically because the depth limit was reached
	Mates          uint64 // #true terminal nodes (checkmate or stalemate)
	NonLeafs       uint64 // #non-leaf nodes
	CutNodes       uint64 // #(beta-)cut nodes
	FirstChildCuts uint64 // #non-leaf nodes that (beta-)cut on the first child searched
	Extensions     uint64 // #tactical children searched one ply deeper
	CacheHits      uint64 // #children that had a value cache entry when ordered

	NonLeafsAt [MaxDepthStats]uint64 // non-leafs by depth
}

func (s *SearchStatsT) Add(other *SearchStatsT) {
	s.Nodes += other.Nodes
	s.Leaves += other.Leaves
	s.Mates += other.Mates
	s.NonLeafs += other.NonLeafs
	s.CutNodes += other.CutNodes
	s.FirstChildCuts += other.FirstChildCuts
	s.Extensions += other.Extensions
	s.CacheHits += other.CacheHits
	for i := range s.NonLeafsAt {
		s.NonLeafsAt[i] += other.NonLeafsAt[i]
	}
}

func PerC(n uint64, N uint64) string {
	if N == 0 {
		return fmt.Sprintf("%d [-]", n)
	}
	return fmt.Sprintf("%d [%.2f%%]", n, float64(n)/float64(N)*100)
}

func (s *SearchStatsT) Dump(logger zerolog.Logger, finalDepth int) {
	byDepth := make([]string, 0, MaxDepthStats)
	for i := 0; i < MaxDepthStats && i <= finalDepth; i++ {
		byDepth = append(byDepth, PerC(s.NonLeafsAt[i], s.NonLeafs))
	}
	logger.Debug().
		Uint64("nodes", s.Nodes).
		Str("leaves", PerC(s.Leaves, s.Nodes)).
		Str("mates", PerC(s.Mates, s.Nodes)).
		Str("non-leafs", PerC(s.NonLeafs, s.Nodes)).
		Str("cuts", PerC(s.CutNodes, s.NonLeafs)).
		Str("1st-child-cuts", PerC(s.FirstChildCuts, s.CutNodes)).
		Str("extensions", PerC(s.Extensions, s.Nodes)).
		Uint64("cache-hits", s.CacheHits).
		Strs("non-leafs-by-depth", byDepth).
		Msg("search-stats")
}
