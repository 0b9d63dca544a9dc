package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// EntryBuilder creates test queue entries with a builder pattern
type EntryBuilder struct {
	queueName string
	playerIDs []uuid.UUID
	partyID   *uuid.UUID
	rating    domain.Rating
	joinedAt  time.Time
	metadata  domain.EntryMetadata
}

// NewEntryBuilder creates an EntryBuilder for a default solo beginner.
func NewEntryBuilder(queueName string) *EntryBuilder {
	return &EntryBuilder{
		queueName: queueName,
		playerIDs: []uuid.UUID{uuid.New()},
		rating:    domain.DefaultBeginnerRating(),
		joinedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithPlayers sets the participant ids.
func (b *EntryBuilder) WithPlayers(playerIDs ...uuid.UUID) *EntryBuilder {
	b.playerIDs = playerIDs
	return b
}

// WithParty marks the entry as a party entry.
func (b *EntryBuilder) WithParty(partyID uuid.UUID) *EntryBuilder {
	b.partyID = &partyID
	return b
}

// WithRating sets the entry's queue rating point and deviation.
func (b *EntryBuilder) WithRating(rating, deviation float64) *EntryBuilder {
	b.rating = domain.Rating{Rating: rating, Deviation: deviation, Volatility: domain.DefaultVolatility}
	return b
}

// WithJoinedAt sets the admission time.
func (b *EntryBuilder) WithJoinedAt(joinedAt time.Time) *EntryBuilder {
	b.joinedAt = joinedAt
	return b
}

// WithRegion sets the region tag.
func (b *EntryBuilder) WithRegion(region string) *EntryBuilder {
	b.metadata.Region = region
	return b
}

// WithRoles sets the declared roles.
func (b *EntryBuilder) WithRoles(roles ...string) *EntryBuilder {
	b.metadata.Roles = roles
	return b
}

// Build returns the entry.
func (b *EntryBuilder) Build() domain.QueueEntry {
	return domain.QueueEntry{
		ID:        uuid.New(),
		QueueName: b.queueName,
		PlayerIDs: b.playerIDs,
		PartyID:   b.partyID,
		Rating:    b.rating,
		JoinedAt:  b.joinedAt,
		Metadata:  b.metadata,
	}
}
