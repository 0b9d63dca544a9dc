package domain

import (
	"time"

	"github.com/google/uuid"
)

// Party is a pre-formed group of players who queue together. The leader is
// always a member; removing the leader disbands the party.
type Party struct {
	ID        uuid.UUID   `json:"id"`
	LeaderID  uuid.UUID   `json:"leaderId"`
	MemberIDs []uuid.UUID `json:"memberIds"`
	MaxSize   int         `json:"maxSize"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewParty creates a party containing only its leader.
func NewParty(leaderID uuid.UUID, maxSize int, createdAt time.Time) Party {
	return Party{
		ID:        uuid.New(),
		LeaderID:  leaderID,
		MemberIDs: []uuid.UUID{leaderID},
		MaxSize:   maxSize,
		CreatedAt: createdAt,
	}
}

// Size returns the current member count.
func (p Party) Size() int {
	return len(p.MemberIDs)
}

// IsFull reports whether the party has reached its maximum size.
func (p Party) IsFull() bool {
	return p.Size() >= p.MaxSize
}

// HasMember reports whether the given player belongs to the party.
func (p Party) HasMember(playerID uuid.UUID) bool {
	for _, id := range p.MemberIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsLeader reports whether the given player leads the party.
func (p Party) IsLeader(playerID uuid.UUID) bool {
	return p.LeaderID == playerID
}
