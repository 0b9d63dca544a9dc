package rating_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/clock"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/rating"
	"github.com/matchforge/matchforge/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenance_ApplyDecay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	bus := events.NewBus()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	maintenance := rating.NewMaintenance(store, bus, clock.NewFake(now))

	playerID := uuid.New()
	require.NoError(t, store.SaveRating(ctx, playerID, domain.NewRating(1500, 200, 0.06)))

	ch, cancel := bus.Subscribe()
	defer cancel()

	decay := rating.LinearDecay{DecayPerDay: 1.0, MaxDecay: 100.0}
	err := maintenance.ApplyDecay(ctx, playerID, now.Add(-10*24*time.Hour), decay)
	require.NoError(t, err)

	stored, err := store.LoadRating(ctx, playerID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.InDelta(t, 1490.0, stored.Rating, 1e-9)
	assert.InDelta(t, 205.0, stored.Deviation, 1e-9)

	select {
	case event := <-ch:
		assert.Equal(t, events.TypeDecayApplied, event.Type)
		assert.Equal(t, playerID.String(), event.Data["player"])
	default:
		t.Fatal("expected a decay_applied event")
	}
}

func TestMaintenance_ApplyDecay_NoStoredRating(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	maintenance := rating.NewMaintenance(store, events.NewBus(), clock.NewFake(now))

	err := maintenance.ApplyDecay(ctx, uuid.New(), now.Add(-24*time.Hour), rating.NewDefaultLinearDecay())
	require.NoError(t, err)
}

func TestMaintenance_ApplyDecay_IdentitySkipsWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	bus := events.NewBus()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	maintenance := rating.NewMaintenance(store, bus, clock.NewFake(now))

	playerID := uuid.New()
	require.NoError(t, store.SaveRating(ctx, playerID, domain.DefaultBeginnerRating()))

	ch, cancel := bus.Subscribe()
	defer cancel()

	// Last match is now; decay is the identity and no event fires.
	err := maintenance.ApplyDecay(ctx, playerID, now, rating.NewDefaultLinearDecay())
	require.NoError(t, err)

	select {
	case <-ch:
		t.Fatal("no event expected for identity decay")
	default:
	}
}

func TestMaintenance_ResetSeason(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	maintenance := rating.NewMaintenance(store, events.NewBus(), clock.NewFake(now))

	veteran := uuid.New()
	rookie := uuid.New()
	require.NoError(t, store.SaveRating(ctx, veteran, domain.NewRating(2000, 80, 0.06)))

	err := maintenance.ResetSeason(ctx, []uuid.UUID{veteran, rookie}, rating.NewHardReset(1500))
	require.NoError(t, err)

	for _, playerID := range []uuid.UUID{veteran, rookie} {
		stored, err := store.LoadRating(ctx, playerID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, 1500.0, stored.Rating)
		assert.Equal(t, domain.DefaultDeviation, stored.Deviation)
	}
}
