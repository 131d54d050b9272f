// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"

	"github.com/danielhkuo/revmix/models"
)

// RankPerformances orders performances by average score, highest first.
// The sort is stable: ties keep the order they came in, which for room
// performances is submission order. The input slice is not modified.
func RankPerformances(perfs []models.Performance) []models.Performance {
	ranked := make([]models.Performance, len(perfs))
	copy(ranked, perfs)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageScore > ranked[j].AverageScore
	})

	return ranked
}

// AverageScore computes a performance's aggregate from its votes map:
// the mean over voters of each voter's own three-category mean. Each
// voter carries equal weight regardless of how they split their scores.
// Returns 0.0 when there are no votes.
func AverageScore(votes map[string]models.VoteScores) float64 {
	if len(votes) == 0 {
		return 0.0
	}

	total := 0.0
	for _, s := range votes {
		total += float64(s.Flow+s.Lyrics+s.Creativity) / 3.0
	}
	return total / float64(len(votes))
}
