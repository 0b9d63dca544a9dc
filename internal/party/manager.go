// Package party manages pre-formed groups and their derived queue ratings.
// The party table and the player->party index are guarded by one lock;
// persistence is called outside it.
package party

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/clock"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/repository"
)

// Manager owns the active party records.
type Manager struct {
	mu            sync.RWMutex
	parties       map[uuid.UUID]domain.Party
	playerToParty map[uuid.UUID]uuid.UUID

	store      repository.Store
	bus        *events.Bus
	clock      clock.Clock
	aggregator Aggregator
}

func NewManager(store repository.Store, bus *events.Bus, clk clock.Clock, aggregator Aggregator) *Manager {
	return &Manager{
		parties:       make(map[uuid.UUID]domain.Party),
		playerToParty: make(map[uuid.UUID]uuid.UUID),
		store:         store,
		bus:           bus,
		clock:         clk,
		aggregator:    aggregator,
	}
}

// Create starts a new party containing only its leader.
func (m *Manager) Create(ctx context.Context, leaderID uuid.UUID, maxSize int) (domain.Party, error) {
	if maxSize < 1 {
		return domain.Party{}, fmt.Errorf("%w: max size %d", domain.ErrInvalidArgument, maxSize)
	}

	party := domain.NewParty(leaderID, maxSize, m.clock.Now())

	m.mu.Lock()
	if _, taken := m.playerToParty[leaderID]; taken {
		m.mu.Unlock()
		return domain.Party{}, fmt.Errorf("%w: %s", domain.ErrAlreadyInParty, leaderID)
	}
	m.parties[party.ID] = party
	m.playerToParty[leaderID] = party.ID
	m.mu.Unlock()

	if err := m.store.SaveParty(ctx, &party); err != nil {
		m.mu.Lock()
		delete(m.parties, party.ID)
		delete(m.playerToParty, leaderID)
		m.mu.Unlock()
		return domain.Party{}, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	m.bus.Publish(events.TypePartyCreated, map[string]string{
		"party":  party.ID.String(),
		"leader": leaderID.String(),
	})
	return party, nil
}

// Add appends a member. Fails if the party is full or the player is already
// in any party.
func (m *Manager) Add(ctx context.Context, partyID, playerID uuid.UUID) error {
	m.mu.Lock()
	party, ok := m.parties[partyID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrPartyNotFound, partyID)
	}
	if party.IsFull() {
		m.mu.Unlock()
		return fmt.Errorf("%w: max size %d", domain.ErrPartyFull, party.MaxSize)
	}
	if _, taken := m.playerToParty[playerID]; taken {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrAlreadyInParty, playerID)
	}

	party.MemberIDs = append(party.MemberIDs, playerID)
	m.parties[partyID] = party
	m.playerToParty[playerID] = partyID
	m.mu.Unlock()

	if err := m.store.SaveParty(ctx, &party); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	m.bus.Publish(events.TypePartyMemberAdded, map[string]string{
		"party":  partyID.String(),
		"player": playerID.String(),
	})
	return nil
}

// Remove drops a member. The party disbands when it empties or its leader
// leaves.
func (m *Manager) Remove(ctx context.Context, partyID, playerID uuid.UUID) error {
	m.mu.Lock()
	party, ok := m.parties[partyID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrPartyNotFound, partyID)
	}
	if !party.HasMember(playerID) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNotInParty, playerID)
	}

	kept := party.MemberIDs[:0]
	for _, id := range party.MemberIDs {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	party.MemberIDs = kept
	delete(m.playerToParty, playerID)

	disband := len(party.MemberIDs) == 0 || party.IsLeader(playerID)
	if disband {
		for _, id := range party.MemberIDs {
			delete(m.playerToParty, id)
		}
		delete(m.parties, partyID)
	} else {
		m.parties[partyID] = party
	}
	m.mu.Unlock()

	if disband {
		if err := m.store.DeleteParty(ctx, partyID); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		m.bus.Publish(events.TypePartyDisbanded, map[string]string{
			"party": partyID.String(),
		})
		return nil
	}

	if err := m.store.SaveParty(ctx, &party); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	m.bus.Publish(events.TypePartyMemberRemoved, map[string]string{
		"party":  partyID.String(),
		"player": playerID.String(),
	})
	return nil
}

// DerivedRating folds the members' current ratings through the configured
// aggregator. Members without a stored rating count as default beginners.
func (m *Manager) DerivedRating(ctx context.Context, partyID uuid.UUID) (domain.Rating, error) {
	m.mu.RLock()
	party, ok := m.parties[partyID]
	m.mu.RUnlock()
	if !ok {
		return domain.Rating{}, fmt.Errorf("%w: %s", domain.ErrPartyNotFound, partyID)
	}

	ratings := make([]MemberRating, 0, len(party.MemberIDs))
	for _, memberID := range party.MemberIDs {
		rating, err := m.store.LoadRating(ctx, memberID)
		if err != nil {
			return domain.Rating{}, fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		if rating == nil {
			beginner := domain.DefaultBeginnerRating()
			rating = &beginner
		}
		ratings = append(ratings, MemberRating{PlayerID: memberID, Rating: *rating})
	}

	return m.aggregator.Aggregate(ratings), nil
}

// Get returns a party by id.
func (m *Manager) Get(partyID uuid.UUID) (domain.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	party, ok := m.parties[partyID]
	if !ok {
		return domain.Party{}, fmt.Errorf("%w: %s", domain.ErrPartyNotFound, partyID)
	}
	return party, nil
}

// LookupByPlayer returns the party containing the player, if any.
func (m *Manager) LookupByPlayer(playerID uuid.UUID) (domain.Party, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	partyID, ok := m.playerToParty[playerID]
	if !ok {
		return domain.Party{}, false
	}
	party, ok := m.parties[partyID]
	return party, ok
}
