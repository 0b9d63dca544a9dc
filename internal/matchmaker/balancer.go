package matchmaker

import (
	"math"
	"sort"

	"github.com/matchforge/matchforge/internal/domain"
)

// BalanceStrategy selects how the balancer distributes entries across teams.
type BalanceStrategy string

const (
	BalanceByRating    BalanceStrategy = "by_rating"
	BalanceByPartySize BalanceStrategy = "by_party_size"
	BalanceHybrid      BalanceStrategy = "hybrid"
)

// TeamBalancer distributes a matched set of entries into fair teams, used
// when party sizes are uneven and sequential fill would stack one side.
type TeamBalancer struct {
	Strategy BalanceStrategy
}

func NewTeamBalancer(strategy BalanceStrategy) *TeamBalancer {
	return &TeamBalancer{Strategy: strategy}
}

// BalanceTeams partitions entries into len(teamSizes) groups.
func (b *TeamBalancer) BalanceTeams(entries []domain.QueueEntry, teamSizes []int) [][]domain.QueueEntry {
	switch b.Strategy {
	case BalanceByPartySize:
		return b.balanceByPartySize(entries, teamSizes)
	case BalanceHybrid:
		return b.balanceHybrid(entries, teamSizes)
	default:
		return b.balanceByRating(entries, teamSizes)
	}
}

// balanceByRating snake-drafts entries, strongest first, alternating team
// direction each pass so the first team does not hoard the top ratings.
func (b *TeamBalancer) balanceByRating(entries []domain.QueueEntry, teamSizes []int) [][]domain.QueueEntry {
	teams := make([][]domain.QueueEntry, len(teamSizes))

	sorted := make([]domain.QueueEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating.Rating > sorted[j].Rating.Rating
	})

	direction := 1
	current := 0
	for _, entry := range sorted {
		teams[current] = append(teams[current], entry)

		next := current + direction
		if next >= len(teams) || next < 0 {
			// Edge team picks twice in a row before the direction reverses.
			direction = -direction
			next = current
		}
		current = next
	}
	return teams
}

// balanceHybrid starts from the size-first placement, then swaps entries of
// equal player count across teams whenever the swap narrows the rating gap.
// Equal-size swaps keep every team's slot usage legal, so the pass degrades
// to the size-first result when no legal swap helps.
func (b *TeamBalancer) balanceHybrid(entries []domain.QueueEntry, teamSizes []int) [][]domain.QueueEntry {
	teams := b.balanceByPartySize(entries, teamSizes)

	// Bounded improvement passes; each accepted swap strictly narrows the
	// gap of its team pair.
	for pass := 0; pass < len(entries); pass++ {
		improved := false
		for i := range teams {
			for j := i + 1; j < len(teams); j++ {
				for a := range teams[i] {
					for c := range teams[j] {
						if teams[i][a].PlayerCount() != teams[j][c].PlayerCount() {
							continue
						}
						gap := math.Abs(TeamRating(teams[i]) - TeamRating(teams[j]))
						teams[i][a], teams[j][c] = teams[j][c], teams[i][a]
						if math.Abs(TeamRating(teams[i])-TeamRating(teams[j]))+1e-9 < gap {
							improved = true
						} else {
							teams[i][a], teams[j][c] = teams[j][c], teams[i][a]
						}
					}
				}
			}
		}
		if !improved {
			break
		}
	}
	return teams
}

// balanceByPartySize places the largest parties first onto the team with the
// tightest remaining fit.
func (b *TeamBalancer) balanceByPartySize(entries []domain.QueueEntry, teamSizes []int) [][]domain.QueueEntry {
	teams := make([][]domain.QueueEntry, len(teamSizes))

	sorted := make([]domain.QueueEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayerCount() > sorted[j].PlayerCount()
	})

	for _, entry := range sorted {
		best := -1
		bestRemaining := -1
		for i := range teams {
			used := 0
			for _, e := range teams[i] {
				used += e.PlayerCount()
			}
			remaining := teamSizes[i] - used
			if remaining < entry.PlayerCount() {
				continue
			}
			// Tightest fit keeps room open for the remaining large parties.
			if best == -1 || remaining < bestRemaining {
				best = i
				bestRemaining = remaining
			}
		}
		if best == -1 {
			best = 0
		}
		teams[best] = append(teams[best], entry)
	}
	return teams
}

// TeamRating averages the entry ratings of one balanced team.
func TeamRating(team []domain.QueueEntry) float64 {
	if len(team) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range team {
		sum += e.Rating.Rating
	}
	return sum / float64(len(team))
}
