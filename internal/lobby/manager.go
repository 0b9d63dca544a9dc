// Package lobby drives materialized matches through the ready/dispatch/close
// lifecycle and integrates reported outcomes back into player ratings.
package lobby

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/rating"
	"github.com/matchforge/matchforge/internal/repository"
)

// PlayerOutcome is one player's reported match result.
type PlayerOutcome struct {
	PlayerID uuid.UUID      `json:"playerId"`
	Outcome  domain.Outcome `json:"outcome"`
}

// Manager operates on lobby records owned by persistence.
type Manager struct {
	store repository.Store
	bus   *events.Bus
}

func NewManager(store repository.Store, bus *events.Bus) *Manager {
	return &Manager{store: store, bus: bus}
}

// Get loads a lobby.
func (m *Manager) Get(ctx context.Context, lobbyID uuid.UUID) (*domain.Lobby, error) {
	lobby, err := m.store.LoadLobby(ctx, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if lobby == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrLobbyNotFound, lobbyID)
	}
	return lobby, nil
}

// Transition moves a lobby to the next state and persists it.
func (m *Manager) Transition(ctx context.Context, lobbyID uuid.UUID, next domain.LobbyState) error {
	lobby, err := m.Get(ctx, lobbyID)
	if err != nil {
		return err
	}

	previous := lobby.State
	if err := lobby.TransitionTo(next); err != nil {
		return err
	}
	if err := m.store.SaveLobby(ctx, lobby); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	m.publishStateChange(lobby, previous)
	return nil
}

// MarkReady records a ready confirmation; marking twice is a no-op. When the
// last player readies up the lobby auto-transitions to Ready.
func (m *Manager) MarkReady(ctx context.Context, lobbyID, playerID uuid.UUID) error {
	lobby, err := m.Get(ctx, lobbyID)
	if err != nil {
		return err
	}

	previous := lobby.State
	if err := lobby.MarkPlayerReady(playerID); err != nil {
		return err
	}
	if err := m.store.SaveLobby(ctx, lobby); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	if lobby.State != previous {
		m.publishStateChange(lobby, previous)
	}
	return nil
}

// Dispatch assigns the game server and moves Ready -> Dispatched.
func (m *Manager) Dispatch(ctx context.Context, lobbyID uuid.UUID, serverID string) error {
	lobby, err := m.Get(ctx, lobbyID)
	if err != nil {
		return err
	}

	previous := lobby.State
	lobby.Metadata.ServerID = serverID
	if err := lobby.TransitionTo(domain.LobbyStateDispatched); err != nil {
		return err
	}
	if err := m.store.SaveLobby(ctx, lobby); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	m.publishStateChange(lobby, previous)
	m.bus.Publish(events.TypeLobbyDispatched, map[string]string{
		"lobby":  lobby.ID.String(),
		"server": serverID,
	})
	return nil
}

// Close transitions the lobby to Closed, appends it to match history, and
// deletes the live record. Closing an already-deleted lobby fails with
// not-found so callers can detect double closes.
func (m *Manager) Close(ctx context.Context, lobbyID uuid.UUID) error {
	lobby, err := m.Get(ctx, lobbyID)
	if err != nil {
		return err
	}

	previous := lobby.State
	if err := lobby.TransitionTo(domain.LobbyStateClosed); err != nil {
		return err
	}
	if err := m.store.SaveMatchResult(ctx, lobby); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if err := m.store.DeleteLobby(ctx, lobbyID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	m.publishStateChange(lobby, previous)
	m.bus.Publish(events.TypeLobbyClosed, map[string]string{
		"lobby": lobby.ID.String(),
	})
	return nil
}

// ApplyOutcomes integrates reported results: players are grouped by lobby
// team, and for every cross-team pair both ratings are updated against each
// other using the configured updater. All new ratings are computed from a
// pre-match snapshot before any write, so update order cannot bias results.
func (m *Manager) ApplyOutcomes(ctx context.Context, lobbyID uuid.UUID, outcomes []PlayerOutcome, updater rating.Updater) error {
	lobby, err := m.Get(ctx, lobbyID)
	if err != nil {
		return err
	}

	teamPlayers := make(map[int][]uuid.UUID)
	teamOutcome := make(map[int]domain.Outcome)
	for _, report := range outcomes {
		if !report.Outcome.Valid() {
			return fmt.Errorf("%w: outcome %q", domain.ErrInvalidArgument, report.Outcome)
		}
		teamID := lobby.PlayerTeam(report.PlayerID)
		if teamID < 0 {
			return fmt.Errorf("%w: player %s", domain.ErrPlayerNotFound, report.PlayerID)
		}

		if existing, ok := teamOutcome[teamID]; ok {
			if existing != report.Outcome {
				return fmt.Errorf("%w: team %d reported %s and %s", domain.ErrConflictingOutcome, teamID, existing, report.Outcome)
			}
		} else {
			teamOutcome[teamID] = report.Outcome
		}
		teamPlayers[teamID] = append(teamPlayers[teamID], report.PlayerID)
	}

	// Pre-match snapshot of every reported player's rating.
	snapshot := make(map[uuid.UUID]domain.Rating)
	for _, players := range teamPlayers {
		for _, playerID := range players {
			stored, err := m.store.LoadRating(ctx, playerID)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrStorage, err)
			}
			if stored == nil {
				beginner := domain.DefaultBeginnerRating()
				stored = &beginner
			}
			snapshot[playerID] = *stored
		}
	}

	// Accumulate the aggregate update over all cross-team pairs. Pairs are
	// walked in sorted team order so multi-team results are reproducible.
	updated := make(map[uuid.UUID]domain.Rating, len(snapshot))
	for id, r := range snapshot {
		updated[id] = r
	}
	teamIDs := make([]int, 0, len(teamPlayers))
	for teamID := range teamPlayers {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Ints(teamIDs)
	for i, teamA := range teamIDs {
		for _, teamB := range teamIDs[i+1:] {
			for _, a := range teamPlayers[teamA] {
				for _, b := range teamPlayers[teamB] {
					updated[a] = updater.Update(updated[a], snapshot[b], teamOutcome[teamA])
					updated[b] = updater.Update(updated[b], snapshot[a], teamOutcome[teamB])
				}
			}
		}
	}

	for playerID, newRating := range updated {
		if err := m.store.SaveRating(ctx, playerID, newRating); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		m.bus.Publish(events.TypeRatingUpdated, map[string]string{
			"player":    playerID.String(),
			"lobby":     lobby.ID.String(),
			"algorithm": updater.Name(),
		})
	}
	return nil
}

func (m *Manager) publishStateChange(lobby *domain.Lobby, previous domain.LobbyState) {
	m.bus.Publish(events.TypeLobbyStateChanged, map[string]string{
		"lobby": lobby.ID.String(),
		"from":  string(previous),
		"to":    string(lobby.State),
	})
}
