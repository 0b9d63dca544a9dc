// Package queue owns queue admission, cancellation, and the snapshot path the
// matcher runs over. Entry lists are guarded by a readers-writer lock;
// persistence is always called outside the lock.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/clock"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/matchmaker"
	"github.com/matchforge/matchforge/internal/repository"
)

// Config describes one queue. Immutable once registered.
type Config struct {
	Name        string                 `json:"name"`
	Format      domain.MatchFormat     `json:"format"`
	Constraints matchmaker.Constraints `json:"constraints"`
}

// Manager owns the active entries of every registered queue.
type Manager struct {
	mu      sync.RWMutex
	queues  map[string][]domain.QueueEntry
	configs map[string]Config

	store repository.Store
	bus   *events.Bus
	clock clock.Clock
}

func NewManager(store repository.Store, bus *events.Bus, clk clock.Clock) *Manager {
	return &Manager{
		queues:  make(map[string][]domain.QueueEntry),
		configs: make(map[string]Config),
		store:   store,
		bus:     bus,
		clock:   clk,
	}
}

// Register adds a queue. Fails if the name is taken.
func (m *Manager) Register(config Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.configs[config.Name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrQueueExists, config.Name)
	}
	m.configs[config.Name] = config
	m.queues[config.Name] = nil
	return nil
}

// Config returns the registered config for a queue.
func (m *Manager) Config(queueName string) (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	config, ok := m.configs[queueName]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", domain.ErrQueueNotFound, queueName)
	}
	return config, nil
}

// JoinSolo admits a single player.
func (m *Manager) JoinSolo(ctx context.Context, queueName string, playerID uuid.UUID, rating domain.Rating, metadata domain.EntryMetadata) (domain.QueueEntry, error) {
	entry := domain.NewSoloEntry(queueName, playerID, rating, metadata, m.clock.Now())
	if err := m.admit(ctx, entry); err != nil {
		return domain.QueueEntry{}, err
	}

	m.bus.Publish(events.TypePlayerJoinedQueue, map[string]string{
		"queue":  queueName,
		"player": playerID.String(),
		"entry":  entry.ID.String(),
	})
	return entry, nil
}

// JoinParty admits a pre-formed party with its aggregate rating.
func (m *Manager) JoinParty(ctx context.Context, queueName string, partyID uuid.UUID, memberIDs []uuid.UUID, rating domain.Rating, metadata domain.EntryMetadata) (domain.QueueEntry, error) {
	if len(memberIDs) == 0 {
		return domain.QueueEntry{}, fmt.Errorf("%w: party has no members", domain.ErrInvalidArgument)
	}

	entry := domain.NewPartyEntry(queueName, partyID, memberIDs, rating, metadata, m.clock.Now())
	if err := m.admit(ctx, entry); err != nil {
		return domain.QueueEntry{}, err
	}

	m.bus.Publish(events.TypePlayerJoinedQueue, map[string]string{
		"queue": queueName,
		"party": partyID.String(),
		"entry": entry.ID.String(),
	})
	return entry, nil
}

// admit validates and inserts under the write lock, then persists outside it.
// Admission is atomic: a persistence failure rolls the in-memory insert back.
func (m *Manager) admit(ctx context.Context, entry domain.QueueEntry) error {
	if err := m.insert(entry); err != nil {
		return err
	}

	if err := m.store.SaveEntry(ctx, &entry); err != nil {
		m.evict(entry.ID, entry.QueueName)
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (m *Manager) insert(entry domain.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, ok := m.configs[entry.QueueName]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrQueueNotFound, entry.QueueName)
	}

	// Entries wider than the largest team could never be placed without
	// splitting, so they are rejected here rather than starving in the queue.
	if entry.PlayerCount() > config.Format.MaxTeamSize() {
		return fmt.Errorf("%w: %d players for format %s", domain.ErrEntryTooLarge, entry.PlayerCount(), config.Format.Name)
	}

	// One active entry per participant across all queues of this manager.
	for _, queue := range m.queues {
		for _, existing := range queue {
			for _, playerID := range entry.PlayerIDs {
				if existing.HasPlayer(playerID) {
					return fmt.Errorf("%w: %s", domain.ErrAlreadyInQueue, playerID)
				}
			}
		}
	}

	m.queues[entry.QueueName] = append(m.queues[entry.QueueName], entry)
	return nil
}

func (m *Manager) evict(entryID uuid.UUID, queueName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.queues[queueName]
	for i, e := range queue {
		if e.ID == entryID {
			m.queues[queueName] = append(queue[:i], queue[i+1:]...)
			return
		}
	}
}

// Leave removes any entry in the queue containing the player. Like admit,
// it commits atomically: a persistence failure restores the removed entry.
func (m *Manager) Leave(ctx context.Context, queueName string, playerID uuid.UUID) error {
	m.mu.Lock()
	queue, ok := m.queues[queueName]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrQueueNotFound, queueName)
	}

	found := false
	var removed domain.QueueEntry
	kept := queue[:0]
	for _, e := range queue {
		if !found && e.HasPlayer(playerID) {
			found = true
			removed = e
			continue
		}
		kept = append(kept, e)
	}
	m.queues[queueName] = kept
	m.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %s", domain.ErrNotInQueue, playerID)
	}

	if err := m.store.DeleteEntry(ctx, playerID); err != nil {
		// The matcher sorts its snapshot by join time, so appending the
		// restored entry does not disturb ordering.
		m.mu.Lock()
		m.queues[queueName] = append(m.queues[queueName], removed)
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	m.bus.Publish(events.TypePlayerLeftQueue, map[string]string{
		"queue":  queueName,
		"player": playerID.String(),
	})
	return nil
}

// FindMatches snapshots the queue and runs the greedy matcher over the copy.
// Matched entries stay queued; the runner removes them explicitly so the
// snapshot -> match -> commit path stays observable.
func (m *Manager) FindMatches(queueName string) ([]domain.MatchResult, error) {
	m.mu.RLock()
	config, ok := m.configs[queueName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrQueueNotFound, queueName)
	}
	snapshot := make([]domain.QueueEntry, len(m.queues[queueName]))
	copy(snapshot, m.queues[queueName])
	m.mu.RUnlock()

	matcher := matchmaker.NewGreedyMatcher(config.Format, config.Constraints)
	matches := matcher.FindMatches(snapshot, m.clock.Now())

	for _, match := range matches {
		m.bus.Publish(events.TypeMatchFound, map[string]string{
			"queue": queueName,
			"match": match.MatchID.String(),
		})
	}
	return matches, nil
}

// RemoveMatched deletes committed entries from the queue and from persistence.
func (m *Manager) RemoveMatched(ctx context.Context, queueName string, entries []domain.QueueEntry) error {
	ids := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		ids[e.ID] = true
	}

	m.mu.Lock()
	queue, ok := m.queues[queueName]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrQueueNotFound, queueName)
	}
	kept := queue[:0]
	for _, e := range queue {
		if !ids[e.ID] {
			kept = append(kept, e)
		}
	}
	m.queues[queueName] = kept
	m.mu.Unlock()

	for _, entry := range entries {
		if len(entry.PlayerIDs) == 0 {
			continue
		}
		// One delete per entry: the store removes the whole entry by any of
		// its participants.
		if err := m.store.DeleteEntry(ctx, entry.PlayerIDs[0]); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
	}
	return nil
}

// Size returns the number of entries currently queued.
func (m *Manager) Size(queueName string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	queue, ok := m.queues[queueName]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrQueueNotFound, queueName)
	}
	return len(queue), nil
}

// QueueNames returns every registered queue name.
func (m *Manager) QueueNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.configs))
	for name := range m.configs {
		names = append(names, name)
	}
	return names
}
