// Value cache for move ordering.
// It remembers the most recent search result for each position reached during one iterative
// deepening run. It is only a hint for sibling ordering: entries may be stale or come from a
// shallower depth, and nothing reads them as exact values.

package engine

import (
	"sort"
)

// Map: zobrist -> last eval from that position's mover's perspective
type ValueCache map[uint64]Score

func NewValueCache() ValueCache {
	return make(ValueCache)
}

// Absent positions are neutral.
func (vc ValueCache) Get(p Position) Score {
	return vc[p.Hash()]
}

func (vc ValueCache) Insert(p Position, eval Score) {
	vc[p.Hash()] = eval
}

func (vc ValueCache) Len() int {
	return len(vc)
}

type child struct {
	move     Move
	pos      Position
	tactical bool
}

// Sort children on the cached child eval: descending when white is to move in the parent,
// ascending when black is. The sort is stable so ties keep move generation order.
// Returns the number of children that had a cache entry.
func (vc ValueCache) orderChildren(parent Position, children []child) int {
	sign := Score(1)
	if parent.SideToMove() == White {
		sign = -1
	}
	hits := 0
	keys := make([]Score, len(children))
	for i := range children {
		eval, ok := vc[children[i].pos.Hash()]
		if ok {
			hits++
		}
		keys[i] = sign * eval
	}
	sort.Stable(childSorter{children, keys})
	return hits
}

type childSorter struct {
	children []child
	keys     []Score
}

func (cs childSorter) Len() int           { return len(cs.children) }
func (cs childSorter) Less(i, j int) bool { return cs.keys[i] < cs.keys[j] }
func (cs childSorter) Swap(i, j int) {
	cs.children[i], cs.children[j] = cs.children[j], cs.children[i]
	cs.keys[i], cs.keys[j] = cs.keys[j], cs.keys[i]
}
