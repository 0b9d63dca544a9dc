// Package postgres backs the persistence port with GORM over PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database and migrates the engine tables.
func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&ratingRow{},
		&entryRow{},
		&partyRow{},
		&lobbyRow{},
		&matchHistoryRow{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Store implements repository.Store over GORM.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveRating(ctx context.Context, playerID uuid.UUID, rating domain.Rating) error {
	row := ratingRow{
		PlayerID:   playerID,
		Rating:     rating.Rating,
		Deviation:  rating.Deviation,
		Volatility: rating.Volatility,
		UpdatedAt:  time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (s *Store) LoadRating(ctx context.Context, playerID uuid.UUID) (*domain.Rating, error) {
	var row ratingRow
	err := s.db.WithContext(ctx).First(&row, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Rating{
		Rating:     row.Rating,
		Deviation:  row.Deviation,
		Volatility: row.Volatility,
	}, nil
}

func (s *Store) SaveEntry(ctx context.Context, entry *domain.QueueEntry) error {
	row, err := toEntryRow(entry)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (s *Store) LoadEntries(ctx context.Context, queueName string) ([]domain.QueueEntry, error) {
	var rows []entryRow
	err := s.db.WithContext(ctx).
		Where("queue_name = ?", queueName).
		Order("joined_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.QueueEntry, 0, len(rows))
	for i := range rows {
		entry, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) DeleteEntry(ctx context.Context, playerID uuid.UUID) error {
	// Player ids live in a JSON array column; containment does the lookup.
	result := s.db.WithContext(ctx).
		Where("player_ids @> ?", fmt.Sprintf(`["%s"]`, playerID)).
		Delete(&entryRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: no entry for player %s", domain.ErrNotInQueue, playerID)
	}
	return nil
}

func (s *Store) SaveParty(ctx context.Context, party *domain.Party) error {
	row, err := toPartyRow(party)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (s *Store) LoadParty(ctx context.Context, partyID uuid.UUID) (*domain.Party, error) {
	var row partyRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", partyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	party, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (s *Store) DeleteParty(ctx context.Context, partyID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&partyRow{}, "id = ?", partyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPartyNotFound, partyID)
	}
	return nil
}

func (s *Store) SaveLobby(ctx context.Context, lobby *domain.Lobby) error {
	row, err := toLobbyRow(lobby)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (s *Store) LoadLobby(ctx context.Context, lobbyID uuid.UUID) (*domain.Lobby, error) {
	var row lobbyRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", lobbyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *Store) DeleteLobby(ctx context.Context, lobbyID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&lobbyRow{}, "id = ?", lobbyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrLobbyNotFound, lobbyID)
	}
	return nil
}

func (s *Store) SaveMatchResult(ctx context.Context, lobby *domain.Lobby) error {
	teams, err := toLobbyRow(lobby)
	if err != nil {
		return err
	}
	row := matchHistoryRow{
		ID:        uuid.New(),
		LobbyID:   lobby.ID,
		MatchID:   lobby.MatchID,
		QueueName: lobby.Metadata.QueueName,
		Teams:     teams.Teams,
		PlayerIDs: teams.PlayerIDs,
		Metadata:  teams.Metadata,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// MatchHistoryCount returns the number of recorded results for a lobby.
func (s *Store) MatchHistoryCount(ctx context.Context, lobbyID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&matchHistoryRow{}).
		Where("lobby_id = ?", lobbyID).
		Count(&count).Error
	return count, err
}
