package rating

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/clock"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/repository"
)

// Maintenance applies off-match rating adjustments, inactivity decay and
// season-boundary resets, against stored ratings.
type Maintenance struct {
	store repository.Store
	bus   *events.Bus
	clock clock.Clock
}

func NewMaintenance(store repository.Store, bus *events.Bus, clk clock.Clock) *Maintenance {
	return &Maintenance{store: store, bus: bus, clock: clk}
}

// ApplyDecay decays one player's stored rating from their last match time.
// Players without a stored rating are left untouched.
func (m *Maintenance) ApplyDecay(ctx context.Context, playerID uuid.UUID, lastMatchAt time.Time, strategy DecayStrategy) error {
	stored, err := m.store.LoadRating(ctx, playerID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if stored == nil {
		return nil
	}

	decayed := strategy.ApplyDecay(*stored, lastMatchAt, m.clock.Now())
	if decayed == *stored {
		return nil
	}

	if err := m.store.SaveRating(ctx, playerID, decayed); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	m.bus.Publish(events.TypeDecayApplied, map[string]string{
		"player": playerID.String(),
	})
	return nil
}

// ResetSeason applies the reset strategy to every listed player. Players
// without a stored rating reset from the beginner default.
func (m *Maintenance) ResetSeason(ctx context.Context, playerIDs []uuid.UUID, strategy SeasonResetStrategy) error {
	for _, playerID := range playerIDs {
		stored, err := m.store.LoadRating(ctx, playerID)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		if stored == nil {
			beginner := domain.DefaultBeginnerRating()
			stored = &beginner
		}

		reset := strategy.ResetRating(*stored)
		if err := m.store.SaveRating(ctx, playerID, reset); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
	}

	m.bus.Publish(events.TypeSeasonReset, map[string]string{
		"players": fmt.Sprintf("%d", len(playerIDs)),
	})
	return nil
}
