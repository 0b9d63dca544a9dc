package matchmaker

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// AdaptiveMatcher widens the base constraints per entry in proportion to how
// much of the maximum wait the entry has burned, then picks the closest
// compatible opponent for a 1v1 pairing.
type AdaptiveMatcher struct {
	BaseConstraints Constraints
	MaxWaitTime     time.Duration
	ExpansionFactor float64
}

func NewAdaptiveMatcher(base Constraints, maxWait time.Duration, expansionFactor float64) *AdaptiveMatcher {
	return &AdaptiveMatcher{
		BaseConstraints: base,
		MaxWaitTime:     maxWait,
		ExpansionFactor: expansionFactor,
	}
}

// FindMatches pairs entries greedily in snapshot order under per-entry
// widened constraints.
func (m *AdaptiveMatcher) FindMatches(entries []domain.QueueEntry, now time.Time) []domain.MatchResult {
	used := make(map[uuid.UUID]bool)
	var matches []domain.MatchResult

	for i := range entries {
		entry := entries[i]
		if used[entry.ID] {
			continue
		}

		delta := m.widenedDelta(entry.WaitTime(now))

		var best *domain.QueueEntry
		bestQuality := math.Inf(1)
		for j := i + 1; j < len(entries); j++ {
			candidate := &entries[j]
			if used[candidate.ID] {
				continue
			}
			if math.Abs(entry.Rating.Rating-candidate.Rating.Rating) > delta {
				continue
			}
			if m.BaseConstraints.SameRegionRequired && entry.Metadata.Region != candidate.Metadata.Region {
				continue
			}

			quality := m.qualityScore(entry, *candidate)
			if quality < bestQuality {
				bestQuality = quality
				best = candidate
			}
		}

		if best == nil {
			continue
		}
		used[entry.ID] = true
		used[best.ID] = true
		matches = append(matches, domain.MatchResult{
			MatchID:         uuid.New(),
			Entries:         []domain.QueueEntry{entry, *best},
			TeamAssignments: []int{0, 1},
		})
	}
	return matches
}

// widenedDelta scales the base delta by 1 + waitRatio*expansionFactor.
func (m *AdaptiveMatcher) widenedDelta(waited time.Duration) float64 {
	if m.MaxWaitTime <= 0 {
		return m.BaseConstraints.MaxRatingDelta
	}
	ratio := float64(waited) / float64(m.MaxWaitTime)
	if ratio < 0 {
		ratio = 0
	}
	return m.BaseConstraints.MaxRatingDelta * (1.0 + ratio*m.ExpansionFactor)
}

// qualityScore prefers close ratings, then close join times.
func (m *AdaptiveMatcher) qualityScore(a, b domain.QueueEntry) float64 {
	ratingDiff := math.Abs(a.Rating.Rating - b.Rating.Rating)
	waitDiff := math.Abs(a.JoinedAt.Sub(b.JoinedAt).Seconds())
	return ratingDiff + waitDiff*0.001
}
