package matchmaker

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// Matcher produces zero or more disjoint matches from a queue snapshot.
// Returning no matches is a normal outcome, not an error.
type Matcher interface {
	FindMatches(entries []domain.QueueEntry, now time.Time) []domain.MatchResult
}

// GreedyMatcher scans entries longest-waiting first and commits a match as
// soon as a compatible set exactly fills the format.
type GreedyMatcher struct {
	Format      domain.MatchFormat
	Constraints Constraints
}

func NewGreedyMatcher(format domain.MatchFormat, constraints Constraints) *GreedyMatcher {
	return &GreedyMatcher{Format: format, Constraints: constraints}
}

// FindMatches repeatedly attempts to form one match from the remaining
// snapshot until an attempt fails.
func (m *GreedyMatcher) FindMatches(entries []domain.QueueEntry, now time.Time) []domain.MatchResult {
	remaining := make([]domain.QueueEntry, len(entries))
	copy(remaining, entries)
	sortEntries(remaining)

	var matches []domain.MatchResult
	for {
		match, used := m.findOne(remaining, now)
		if match == nil {
			break
		}
		matches = append(matches, *match)

		kept := remaining[:0]
		for _, e := range remaining {
			if !used[e.ID] {
				kept = append(kept, e)
			}
		}
		remaining = kept
	}
	return matches
}

// findOne attempts a single match over the sorted working snapshot.
func (m *GreedyMatcher) findOne(sorted []domain.QueueEntry, now time.Time) (*domain.MatchResult, map[uuid.UUID]bool) {
	totalNeeded := m.Format.TotalPlayers()
	if countPlayers(sorted) < totalNeeded {
		return nil, nil
	}

	var selected []domain.QueueEntry
	teamFill := make([]int, m.Format.TeamCount())
	playerCount := 0

	for _, entry := range sorted {
		if playerCount >= totalNeeded {
			break
		}
		if playerCount+entry.PlayerCount() > totalNeeded {
			continue
		}
		// An entry must land whole on the team currently being filled;
		// splitting across teams is forbidden.
		if !fitsCurrentTeam(teamFill, m.Format.TeamSizes, entry.PlayerCount()) {
			continue
		}
		if !m.compatibleWithAll(selected, entry, now) {
			continue
		}

		placeEntry(teamFill, m.Format.TeamSizes, entry.PlayerCount())
		selected = append(selected, entry)
		playerCount += entry.PlayerCount()
	}

	if playerCount != totalNeeded {
		return nil, nil
	}
	if !m.Constraints.RolesSatisfied(selected) {
		return nil, nil
	}

	used := make(map[uuid.UUID]bool, len(selected))
	for _, e := range selected {
		used[e.ID] = true
	}

	return &domain.MatchResult{
		MatchID:         uuid.New(),
		Entries:         selected,
		TeamAssignments: assignTeams(selected, m.Format.TeamSizes),
	}, used
}

func (m *GreedyMatcher) compatibleWithAll(selected []domain.QueueEntry, entry domain.QueueEntry, now time.Time) bool {
	for _, s := range selected {
		if !m.Constraints.CanMatch(s, entry, now) {
			return false
		}
	}
	return true
}

// fitsCurrentTeam reports whether an entry of the given size can be placed
// whole on the first team that still has room.
func fitsCurrentTeam(teamFill, teamSizes []int, entrySize int) bool {
	for i, fill := range teamFill {
		if fill < teamSizes[i] {
			return teamSizes[i]-fill >= entrySize
		}
	}
	return false
}

func placeEntry(teamFill, teamSizes []int, entrySize int) {
	for i, fill := range teamFill {
		if fill < teamSizes[i] {
			teamFill[i] += entrySize
			return
		}
	}
}

// assignTeams maps each entry to a team index, filling teams in order.
func assignTeams(entries []domain.QueueEntry, teamSizes []int) []int {
	assignments := make([]int, 0, len(entries))
	teamFill := make([]int, len(teamSizes))
	current := 0

	for _, entry := range entries {
		for current < len(teamSizes) && teamFill[current] >= teamSizes[current] {
			current++
		}
		assignments = append(assignments, current)
		teamFill[current] += entry.PlayerCount()
	}
	return assignments
}

// sortEntries orders by join time ascending with entry id as the
// deterministic tie-break.
func sortEntries(entries []domain.QueueEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].JoinedAt.Equal(entries[j].JoinedAt) {
			return entries[i].ID.String() < entries[j].ID.String()
		}
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})
}

func countPlayers(entries []domain.QueueEntry) int {
	total := 0
	for _, e := range entries {
		total += e.PlayerCount()
	}
	return total
}
