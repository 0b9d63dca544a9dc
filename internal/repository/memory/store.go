// Package memory provides an in-memory persistence adapter used by tests and
// single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// Store keeps all records in mutex-guarded maps.
type Store struct {
	mu           sync.RWMutex
	ratings      map[uuid.UUID]domain.Rating
	entries      map[string][]domain.QueueEntry
	parties      map[uuid.UUID]domain.Party
	lobbies      map[uuid.UUID]domain.Lobby
	matchHistory []domain.Lobby
}

func NewStore() *Store {
	return &Store{
		ratings: make(map[uuid.UUID]domain.Rating),
		entries: make(map[string][]domain.QueueEntry),
		parties: make(map[uuid.UUID]domain.Party),
		lobbies: make(map[uuid.UUID]domain.Lobby),
	}
}

func (s *Store) SaveRating(_ context.Context, playerID uuid.UUID, rating domain.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[playerID] = rating
	return nil
}

func (s *Store) LoadRating(_ context.Context, playerID uuid.UUID) (*domain.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rating, ok := s.ratings[playerID]
	if !ok {
		return nil, nil
	}
	return &rating, nil
}

func (s *Store) SaveEntry(_ context.Context, entry *domain.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.entries[entry.QueueName]
	for i, existing := range queue {
		if existing.ID == entry.ID {
			queue[i] = *entry
			return nil
		}
	}
	s.entries[entry.QueueName] = append(queue, *entry)
	return nil
}

func (s *Store) LoadEntries(_ context.Context, queueName string) ([]domain.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queue := s.entries[queueName]
	out := make([]domain.QueueEntry, len(queue))
	copy(out, queue)
	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (s *Store) DeleteEntry(_ context.Context, playerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for name, queue := range s.entries {
		kept := queue[:0]
		for _, e := range queue {
			if e.HasPlayer(playerID) {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		s.entries[name] = kept
	}
	if !removed {
		return fmt.Errorf("%w: no entry for player %s", domain.ErrNotInQueue, playerID)
	}
	return nil
}

func (s *Store) SaveParty(_ context.Context, party *domain.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[party.ID] = *party
	return nil
}

func (s *Store) LoadParty(_ context.Context, partyID uuid.UUID) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	party, ok := s.parties[partyID]
	if !ok {
		return nil, nil
	}
	return &party, nil
}

func (s *Store) DeleteParty(_ context.Context, partyID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parties[partyID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrPartyNotFound, partyID)
	}
	delete(s.parties, partyID)
	return nil
}

func (s *Store) SaveLobby(_ context.Context, lobby *domain.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[lobby.ID] = cloneLobby(lobby)
	return nil
}

func (s *Store) LoadLobby(_ context.Context, lobbyID uuid.UUID) (*domain.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		return nil, nil
	}
	out := cloneLobby(&lobby)
	return &out, nil
}

func (s *Store) DeleteLobby(_ context.Context, lobbyID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[lobbyID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrLobbyNotFound, lobbyID)
	}
	delete(s.lobbies, lobbyID)
	return nil
}

func (s *Store) SaveMatchResult(_ context.Context, lobby *domain.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchHistory = append(s.matchHistory, cloneLobby(lobby))
	return nil
}

// MatchHistory returns a copy of the recorded history, oldest first.
func (s *Store) MatchHistory() []domain.Lobby {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Lobby, len(s.matchHistory))
	copy(out, s.matchHistory)
	return out
}

// cloneLobby deep-copies the mutable ready set so callers cannot alias the
// stored record.
func cloneLobby(l *domain.Lobby) domain.Lobby {
	out := *l
	out.ReadyPlayers = make(map[uuid.UUID]bool, len(l.ReadyPlayers))
	for id, ready := range l.ReadyPlayers {
		out.ReadyPlayers[id] = ready
	}
	out.Teams = make([]domain.Team, len(l.Teams))
	for i, team := range l.Teams {
		players := make([]uuid.UUID, len(team.PlayerIDs))
		copy(players, team.PlayerIDs)
		out.Teams[i] = domain.Team{TeamID: team.TeamID, PlayerIDs: players}
	}
	return out
}
