package scoring

import (
	"sort"

	"github.com/aretw0/maturity/pkg/domain"
)

// MatchBand returns the band containing the percentage.
// Gaps in the table fall back to the lowest band.
func MatchBand(bands []domain.LevelBand, percentage int) domain.LevelBand {
	for _, b := range bands {
		if b.Contains(percentage) {
			return b
		}
	}
	return LowestBand(bands)
}

// LowestBand returns the band with the smallest MinScore (first one on ties).
func LowestBand(bands []domain.LevelBand) domain.LevelBand {
	if len(bands) == 0 {
		return domain.LevelBand{}
	}
	low := bands[0]
	for _, b := range bands[1:] {
		if b.MinScore < low.MinScore {
			low = b
		}
	}
	return low
}

// LevelRank returns the 0-based rank of a level among bands ordered by MinScore,
// or -1 if the level is not part of the set.
func LevelRank(bands []domain.LevelBand, id domain.LevelID) int {
	ordered := append([]domain.LevelBand(nil), bands...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinScore < ordered[j].MinScore
	})
	for i, b := range ordered {
		if b.ID == id {
			return i
		}
	}
	return -1
}
