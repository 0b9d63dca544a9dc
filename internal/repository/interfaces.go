package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// Store is the persistence port the engine depends on. Every operation is
// atomic per call; the engine never composes calls transactionally. Failures
// surface wrapped in domain.ErrStorage.
type Store interface {
	// Player ratings
	SaveRating(ctx context.Context, playerID uuid.UUID, rating domain.Rating) error
	LoadRating(ctx context.Context, playerID uuid.UUID) (*domain.Rating, error)

	// Queue entries
	SaveEntry(ctx context.Context, entry *domain.QueueEntry) error
	LoadEntries(ctx context.Context, queueName string) ([]domain.QueueEntry, error)
	DeleteEntry(ctx context.Context, playerID uuid.UUID) error

	// Parties
	SaveParty(ctx context.Context, party *domain.Party) error
	LoadParty(ctx context.Context, partyID uuid.UUID) (*domain.Party, error)
	DeleteParty(ctx context.Context, partyID uuid.UUID) error

	// Lobbies
	SaveLobby(ctx context.Context, lobby *domain.Lobby) error
	LoadLobby(ctx context.Context, lobbyID uuid.UUID) (*domain.Lobby, error)
	DeleteLobby(ctx context.Context, lobbyID uuid.UUID) error

	// Match history (append-only)
	SaveMatchResult(ctx context.Context, lobby *domain.Lobby) error
}
