package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// MatchFormat describes the shape of a match as an ordered team-size vector,
// e.g. [1,1] for 1v1 or [5,5] for 5v5.
type MatchFormat struct {
	Name      string `json:"name"`
	TeamSizes []int  `json:"teamSizes"`
}

// OneVOne returns the [1,1] format.
func OneVOne() MatchFormat {
	return MatchFormat{Name: "1v1", TeamSizes: []int{1, 1}}
}

// TwoVTwo returns the [2,2] format.
func TwoVTwo() MatchFormat {
	return MatchFormat{Name: "2v2", TeamSizes: []int{2, 2}}
}

// FiveVFive returns the [5,5] format.
func FiveVFive() MatchFormat {
	return MatchFormat{Name: "5v5", TeamSizes: []int{5, 5}}
}

// TeamVTeam returns a symmetric two-team format of the given size.
func TeamVTeam(teamSize int) MatchFormat {
	return MatchFormat{
		Name:      fmt.Sprintf("%dv%d", teamSize, teamSize),
		TeamSizes: []int{teamSize, teamSize},
	}
}

// FreeForAll returns a format with one player per team.
func FreeForAll(playerCount int) MatchFormat {
	sizes := make([]int, playerCount)
	for i := range sizes {
		sizes[i] = 1
	}
	return MatchFormat{
		Name:      fmt.Sprintf("%d-player-ffa", playerCount),
		TeamSizes: sizes,
	}
}

// TotalPlayers returns the number of players a full match requires.
func (f MatchFormat) TotalPlayers() int {
	total := 0
	for _, size := range f.TeamSizes {
		total += size
	}
	return total
}

// TeamCount returns the number of teams.
func (f MatchFormat) TeamCount() int {
	return len(f.TeamSizes)
}

// MaxTeamSize returns the size of the largest team. Entries with more players
// than this can never be placed without splitting and are rejected at admission.
func (f MatchFormat) MaxTeamSize() int {
	max := 0
	for _, size := range f.TeamSizes {
		if size > max {
			max = size
		}
	}
	return max
}

// MatchResult is a committed match: the selected entries and, for each entry,
// the index of the team it was assigned to.
type MatchResult struct {
	MatchID         uuid.UUID    `json:"matchId"`
	Entries         []QueueEntry `json:"entries"`
	TeamAssignments []int        `json:"teamAssignments"`
}

// PlayerIDs returns the flat list of players across all entries, in entry order.
func (m MatchResult) PlayerIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, e := range m.Entries {
		ids = append(ids, e.PlayerIDs...)
	}
	return ids
}
