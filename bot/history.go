// Position history for checking 3-fold repetition

package bot

// Map: zobrist -> count
type HistoryTable map[uint64]int

// Forget every position, keeping the map.
func (ht HistoryTable) Reset() {
	clear(ht)
}

// Add a position and return the resulting count for this position
func (ht HistoryTable) Add(zobrist uint64) int {
	count := ht[zobrist]
	count++
	ht[zobrist] = count
	return count
}

func (ht HistoryTable) Count(zobrist uint64) int {
	return ht[zobrist]
}
