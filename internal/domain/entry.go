package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryMetadata carries optional matchmaking hints attached to a queue entry.
type EntryMetadata struct {
	// Roles is an ordered list of role preferences (e.g., "tank", "support").
	Roles []string `json:"roles,omitempty"`
	// Region is an optional region/latency bucket tag.
	Region string `json:"region,omitempty"`
	// Custom holds opaque game-specific key/value pairs.
	Custom map[string]string `json:"custom,omitempty"`
}

// QueueEntry is an admission record in a matchmaking queue, representing one
// solo player or one pre-formed party.
type QueueEntry struct {
	ID        uuid.UUID     `json:"id"`
	QueueName string        `json:"queueName"`
	PlayerIDs []uuid.UUID   `json:"playerIds"`
	PartyID   *uuid.UUID    `json:"partyId,omitempty"`
	Rating    Rating        `json:"rating"`
	JoinedAt  time.Time     `json:"joinedAt"`
	Metadata  EntryMetadata `json:"metadata"`
}

// NewSoloEntry builds an entry for a single player.
func NewSoloEntry(queueName string, playerID uuid.UUID, rating Rating, metadata EntryMetadata, joinedAt time.Time) QueueEntry {
	return QueueEntry{
		ID:        uuid.New(),
		QueueName: queueName,
		PlayerIDs: []uuid.UUID{playerID},
		Rating:    rating,
		JoinedAt:  joinedAt,
		Metadata:  metadata,
	}
}

// NewPartyEntry builds an entry for a pre-formed party with its aggregate rating.
func NewPartyEntry(queueName string, partyID uuid.UUID, playerIDs []uuid.UUID, rating Rating, metadata EntryMetadata, joinedAt time.Time) QueueEntry {
	pid := partyID
	members := make([]uuid.UUID, len(playerIDs))
	copy(members, playerIDs)
	return QueueEntry{
		ID:        uuid.New(),
		QueueName: queueName,
		PlayerIDs: members,
		PartyID:   &pid,
		Rating:    rating,
		JoinedAt:  joinedAt,
		Metadata:  metadata,
	}
}

// WaitTime returns how long the entry has been queued as of now.
func (e QueueEntry) WaitTime(now time.Time) time.Duration {
	return now.Sub(e.JoinedAt)
}

// PlayerCount returns the number of players the entry contributes to a match.
func (e QueueEntry) PlayerCount() int {
	return len(e.PlayerIDs)
}

// IsSolo reports whether the entry is a single player without a party.
func (e QueueEntry) IsSolo() bool {
	return e.PartyID == nil && len(e.PlayerIDs) == 1
}

// HasPlayer reports whether the given player is part of this entry.
func (e QueueEntry) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range e.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
