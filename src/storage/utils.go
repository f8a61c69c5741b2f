package storage

import "sort"

// sortBySeq orders items by their insertion sequence.
func sortBySeq[T any](items []T, seq func(T) int64) {
	sort.Slice(items, func(i, j int) bool {
		return seq(items[i]) < seq(items[j])
	})
}
