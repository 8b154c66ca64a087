// leaderboard/points.go
package leaderboard

import (
	"cmp"
	"slices"
)

type Ranked[T any] struct {
	Rank  int `json:"rank"`
	Entry T   `json:"entry"`
}

// RankByPoints sorts entries by points descending and numbers them from 1.
// Ties keep input order. The input slice is left untouched.
func RankByPoints[T any](entries []T, points func(T) float64) []Ranked[T] {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(points(b), points(a))
	})

	out := make([]Ranked[T], len(sorted))
	for i, e := range sorted {
		out[i] = Ranked[T]{Rank: i + 1, Entry: e}
	}
	return out
}
