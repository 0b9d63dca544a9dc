package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LobbyState is a stage in the lobby lifecycle.
type LobbyState string

const (
	LobbyStateForming         LobbyState = "forming"
	LobbyStateWaitingForReady LobbyState = "waiting_for_ready"
	LobbyStateReady           LobbyState = "ready"
	LobbyStateDispatched      LobbyState = "dispatched"
	LobbyStateClosed          LobbyState = "closed"
)

// CanTransitionTo reports whether the state machine allows moving from s to
// next. Any state may be force-closed.
func (s LobbyState) CanTransitionTo(next LobbyState) bool {
	if next == LobbyStateClosed {
		return true
	}
	switch {
	case s == LobbyStateForming && next == LobbyStateWaitingForReady:
		return true
	case s == LobbyStateWaitingForReady && next == LobbyStateReady:
		return true
	case s == LobbyStateReady && next == LobbyStateDispatched:
		return true
	}
	return false
}

// Team holds the ordered players assigned to one side of a match.
type Team struct {
	TeamID    int         `json:"teamId"`
	PlayerIDs []uuid.UUID `json:"playerIds"`
}

// Size returns the number of players on the team.
func (t Team) Size() int {
	return len(t.PlayerIDs)
}

// LobbyMetadata carries contextual data attached to a lobby.
type LobbyMetadata struct {
	QueueName string            `json:"queueName"`
	GameMode  string            `json:"gameMode,omitempty"`
	ServerID  string            `json:"serverId,omitempty"`
	Custom    map[string]string `json:"custom,omitempty"`
}

// Lobby is a match materialized into a mutable record that is driven through
// the state machine to dispatch.
type Lobby struct {
	ID           uuid.UUID          `json:"id"`
	MatchID      uuid.UUID          `json:"matchId"`
	State        LobbyState         `json:"state"`
	Teams        []Team             `json:"teams"`
	PlayerIDs    []uuid.UUID        `json:"playerIds"`
	ReadyPlayers map[uuid.UUID]bool `json:"readyPlayers"`
	CreatedAt    time.Time          `json:"createdAt"`
	Metadata     LobbyMetadata      `json:"metadata"`
}

// NewLobbyFromMatch materializes a lobby from a match result, filling teams
// in index order from the format's team sizes.
func NewLobbyFromMatch(match MatchResult, teamSizes []int, metadata LobbyMetadata, createdAt time.Time) *Lobby {
	playerIDs := match.PlayerIDs()
	teams := assignTeamsSequential(playerIDs, teamSizes)

	return &Lobby{
		ID:           uuid.New(),
		MatchID:      match.MatchID,
		State:        LobbyStateForming,
		Teams:        teams,
		PlayerIDs:    playerIDs,
		ReadyPlayers: make(map[uuid.UUID]bool),
		CreatedAt:    createdAt,
		Metadata:     metadata,
	}
}

func assignTeamsSequential(playerIDs []uuid.UUID, teamSizes []int) []Team {
	teams := make([]Team, len(teamSizes))
	for i := range teams {
		teams[i] = Team{TeamID: i}
	}

	idx := 0
	for teamIdx, size := range teamSizes {
		for n := 0; n < size && idx < len(playerIDs); n++ {
			teams[teamIdx].PlayerIDs = append(teams[teamIdx].PlayerIDs, playerIDs[idx])
			idx++
		}
	}
	return teams
}

// TransitionTo moves the lobby to next, or fails with ErrInvalidTransition.
func (l *Lobby) TransitionTo(next LobbyState) error {
	if !l.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.State, next)
	}
	l.State = next
	return nil
}

// MarkPlayerReady records a ready confirmation. Marking an already-ready
// player is a no-op. When the last player readies up while the lobby is
// waiting, the lobby auto-transitions to Ready.
func (l *Lobby) MarkPlayerReady(playerID uuid.UUID) error {
	if !l.HasPlayer(playerID) {
		return fmt.Errorf("%w: player %s", ErrPlayerNotFound, playerID)
	}

	l.ReadyPlayers[playerID] = true

	if l.AllPlayersReady() && l.State == LobbyStateWaitingForReady {
		return l.TransitionTo(LobbyStateReady)
	}
	return nil
}

// AllPlayersReady reports whether every participant has confirmed ready.
func (l *Lobby) AllPlayersReady() bool {
	return len(l.ReadyPlayers) == len(l.PlayerIDs)
}

// HasPlayer reports whether the given player is in the lobby.
func (l *Lobby) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range l.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// PlayerTeam returns the team index the player was assigned to, or -1.
func (l *Lobby) PlayerTeam(playerID uuid.UUID) int {
	for _, team := range l.Teams {
		for _, id := range team.PlayerIDs {
			if id == playerID {
				return team.TeamID
			}
		}
	}
	return -1
}
