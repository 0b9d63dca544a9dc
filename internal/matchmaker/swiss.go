package matchmaker

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// SwissMatcher pairs entries with similar external scores (tournament points,
// win counts) for 1v1 rounds, optionally refusing rematches.
type SwissMatcher struct {
	MaxScoreDifference float64
	AvoidRematches     bool
}

func NewSwissMatcher(maxScoreDifference float64, avoidRematches bool) *SwissMatcher {
	return &SwissMatcher{
		MaxScoreDifference: maxScoreDifference,
		AvoidRematches:     avoidRematches,
	}
}

// FindPairings pairs entries top-down by score. scores maps player id to the
// external score; previousOpponents maps player id to everyone they already
// faced.
func (m *SwissMatcher) FindPairings(
	entries []domain.QueueEntry,
	scores map[uuid.UUID]float64,
	previousOpponents map[uuid.UUID][]uuid.UUID,
) []domain.MatchResult {
	sorted := make([]domain.QueueEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return entryScore(sorted[i], scores) > entryScore(sorted[j], scores)
	})

	used := make(map[uuid.UUID]bool)
	var matches []domain.MatchResult

	for i := range sorted {
		if used[sorted[i].ID] {
			continue
		}
		opponent := m.bestOpponent(sorted[i], sorted[i+1:], used, scores, previousOpponents)
		if opponent == nil {
			continue
		}

		used[sorted[i].ID] = true
		used[opponent.ID] = true
		matches = append(matches, domain.MatchResult{
			MatchID:         uuid.New(),
			Entries:         []domain.QueueEntry{sorted[i], *opponent},
			TeamAssignments: []int{0, 1},
		})
	}
	return matches
}

func (m *SwissMatcher) bestOpponent(
	entry domain.QueueEntry,
	candidates []domain.QueueEntry,
	used map[uuid.UUID]bool,
	scores map[uuid.UUID]float64,
	previousOpponents map[uuid.UUID][]uuid.UUID,
) *domain.QueueEntry {
	score := entryScore(entry, scores)

	var best *domain.QueueEntry
	bestQuality := math.Inf(1)

	for i := range candidates {
		candidate := &candidates[i]
		if used[candidate.ID] {
			continue
		}

		scoreDiff := math.Abs(score - entryScore(*candidate, scores))
		if scoreDiff > m.MaxScoreDifference {
			continue
		}
		if m.AvoidRematches && hasPlayed(entry, *candidate, previousOpponents) {
			continue
		}

		quality := scoreDiff + math.Abs(entry.Rating.Rating-candidate.Rating.Rating)*0.01
		if quality < bestQuality {
			bestQuality = quality
			best = candidate
		}
	}
	return best
}

func hasPlayed(a, b domain.QueueEntry, previousOpponents map[uuid.UUID][]uuid.UUID) bool {
	for _, player := range a.PlayerIDs {
		for _, opponent := range previousOpponents[player] {
			if b.HasPlayer(opponent) {
				return true
			}
		}
	}
	return false
}

// entryScore averages the external scores of an entry's players.
func entryScore(entry domain.QueueEntry, scores map[uuid.UUID]float64) float64 {
	if entry.PlayerCount() == 0 {
		return 0
	}
	sum := 0.0
	for _, id := range entry.PlayerIDs {
		sum += scores[id]
	}
	return sum / float64(entry.PlayerCount())
}
