package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"gorm.io/datatypes"
)

// ratingRow persists one player's current rating.
type ratingRow struct {
	PlayerID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Rating     float64   `gorm:"not null"`
	Deviation  float64   `gorm:"not null"`
	Volatility float64   `gorm:"not null"`
	UpdatedAt  time.Time
}

func (ratingRow) TableName() string {
	return "player_ratings"
}

// entryRow persists a queue entry; list and map fields go to JSON columns.
type entryRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	QueueName string         `gorm:"size:100;not null;index"`
	PlayerIDs datatypes.JSON `gorm:"not null"`
	PartyID   *uuid.UUID     `gorm:"type:uuid"`
	Rating    datatypes.JSON `gorm:"not null"`
	JoinedAt  time.Time      `gorm:"not null;index"`
	Metadata  datatypes.JSON
}

func (entryRow) TableName() string {
	return "queue_entries"
}

// partyRow persists a party record.
type partyRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	LeaderID  uuid.UUID      `gorm:"type:uuid;not null"`
	MemberIDs datatypes.JSON `gorm:"not null"`
	MaxSize   int            `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

func (partyRow) TableName() string {
	return "parties"
}

// lobbyRow persists a live lobby.
type lobbyRow struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key"`
	MatchID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	State        string         `gorm:"size:30;not null"`
	Teams        datatypes.JSON `gorm:"not null"`
	PlayerIDs    datatypes.JSON `gorm:"not null"`
	ReadyPlayers datatypes.JSON
	CreatedAt    time.Time `gorm:"not null"`
	Metadata     datatypes.JSON
}

func (lobbyRow) TableName() string {
	return "lobbies"
}

// matchHistoryRow is the append-only record of a closed lobby.
type matchHistoryRow struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LobbyID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	MatchID    uuid.UUID      `gorm:"type:uuid;not null"`
	QueueName  string         `gorm:"size:100;not null"`
	Teams      datatypes.JSON `gorm:"not null"`
	PlayerIDs  datatypes.JSON `gorm:"not null"`
	Metadata   datatypes.JSON
	RecordedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (matchHistoryRow) TableName() string {
	return "match_history"
}

func toEntryRow(entry *domain.QueueEntry) (*entryRow, error) {
	playerIDs, err := json.Marshal(entry.PlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal player ids: %w", err)
	}
	ratingJSON, err := json.Marshal(entry.Rating)
	if err != nil {
		return nil, fmt.Errorf("marshal rating: %w", err)
	}
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return &entryRow{
		ID:        entry.ID,
		QueueName: entry.QueueName,
		PlayerIDs: playerIDs,
		PartyID:   entry.PartyID,
		Rating:    ratingJSON,
		JoinedAt:  entry.JoinedAt,
		Metadata:  metadata,
	}, nil
}

func (r *entryRow) toDomain() (domain.QueueEntry, error) {
	var entry domain.QueueEntry
	entry.ID = r.ID
	entry.QueueName = r.QueueName
	entry.PartyID = r.PartyID
	entry.JoinedAt = r.JoinedAt

	if err := json.Unmarshal(r.PlayerIDs, &entry.PlayerIDs); err != nil {
		return entry, fmt.Errorf("unmarshal player ids: %w", err)
	}
	if err := json.Unmarshal(r.Rating, &entry.Rating); err != nil {
		return entry, fmt.Errorf("unmarshal rating: %w", err)
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &entry.Metadata); err != nil {
			return entry, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return entry, nil
}

func toPartyRow(party *domain.Party) (*partyRow, error) {
	memberIDs, err := json.Marshal(party.MemberIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal member ids: %w", err)
	}
	return &partyRow{
		ID:        party.ID,
		LeaderID:  party.LeaderID,
		MemberIDs: memberIDs,
		MaxSize:   party.MaxSize,
		CreatedAt: party.CreatedAt,
	}, nil
}

func (r *partyRow) toDomain() (domain.Party, error) {
	party := domain.Party{
		ID:        r.ID,
		LeaderID:  r.LeaderID,
		MaxSize:   r.MaxSize,
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal(r.MemberIDs, &party.MemberIDs); err != nil {
		return party, fmt.Errorf("unmarshal member ids: %w", err)
	}
	return party, nil
}

func toLobbyRow(lobby *domain.Lobby) (*lobbyRow, error) {
	teams, err := json.Marshal(lobby.Teams)
	if err != nil {
		return nil, fmt.Errorf("marshal teams: %w", err)
	}
	playerIDs, err := json.Marshal(lobby.PlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal player ids: %w", err)
	}
	ready, err := json.Marshal(readySlice(lobby.ReadyPlayers))
	if err != nil {
		return nil, fmt.Errorf("marshal ready players: %w", err)
	}
	metadata, err := json.Marshal(lobby.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return &lobbyRow{
		ID:           lobby.ID,
		MatchID:      lobby.MatchID,
		State:        string(lobby.State),
		Teams:        teams,
		PlayerIDs:    playerIDs,
		ReadyPlayers: ready,
		CreatedAt:    lobby.CreatedAt,
		Metadata:     metadata,
	}, nil
}

func (r *lobbyRow) toDomain() (*domain.Lobby, error) {
	lobby := &domain.Lobby{
		ID:           r.ID,
		MatchID:      r.MatchID,
		State:        domain.LobbyState(r.State),
		CreatedAt:    r.CreatedAt,
		ReadyPlayers: make(map[uuid.UUID]bool),
	}

	if err := json.Unmarshal(r.Teams, &lobby.Teams); err != nil {
		return nil, fmt.Errorf("unmarshal teams: %w", err)
	}
	if err := json.Unmarshal(r.PlayerIDs, &lobby.PlayerIDs); err != nil {
		return nil, fmt.Errorf("unmarshal player ids: %w", err)
	}
	if len(r.ReadyPlayers) > 0 {
		var ready []uuid.UUID
		if err := json.Unmarshal(r.ReadyPlayers, &ready); err != nil {
			return nil, fmt.Errorf("unmarshal ready players: %w", err)
		}
		for _, id := range ready {
			lobby.ReadyPlayers[id] = true
		}
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &lobby.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return lobby, nil
}

func readySlice(ready map[uuid.UUID]bool) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ready))
	for id, ok := range ready {
		if ok {
			out = append(out, id)
		}
	}
	return out
}
