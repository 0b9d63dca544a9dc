package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/repository/postgres"
	"github.com/matchforge/matchforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestStore_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	testDB := testutil.NewTestDB(t)
	store := postgres.NewStore(testDB.DB)
	ctx := context.Background()

	t.Run("rating round trip", func(t *testing.T) {
		testDB.Truncate(t)

		playerID := uuid.New()
		missing, err := store.LoadRating(ctx, playerID)
		require.NoError(t, err)
		assert.Nil(t, missing)

		require.NoError(t, store.SaveRating(ctx, playerID, domain.NewRating(1620, 120, 0.05)))
		loaded, err := store.LoadRating(ctx, playerID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.InDelta(t, 1620.0, loaded.Rating, 1e-9)

		// Upsert on the same player id.
		require.NoError(t, store.SaveRating(ctx, playerID, domain.NewRating(1700, 100, 0.05)))
		loaded, err = store.LoadRating(ctx, playerID)
		require.NoError(t, err)
		assert.InDelta(t, 1700.0, loaded.Rating, 1e-9)
	})

	t.Run("entry round trip and participant delete", func(t *testing.T) {
		testDB.Truncate(t)

		members := []uuid.UUID{uuid.New(), uuid.New()}
		entry := testutil.NewEntryBuilder("ranked").
			WithPlayers(members...).
			WithParty(uuid.New()).
			WithRating(1550, 180).
			WithJoinedAt(t0).
			WithRegion("eu").
			Build()
		require.NoError(t, store.SaveEntry(ctx, &entry))

		later := testutil.NewEntryBuilder("ranked").WithJoinedAt(t0.Add(time.Minute)).Build()
		require.NoError(t, store.SaveEntry(ctx, &later))

		entries, err := store.LoadEntries(ctx, "ranked")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, entry.ID, entries[0].ID)
		assert.Equal(t, members, entries[0].PlayerIDs)
		assert.Equal(t, "eu", entries[0].Metadata.Region)
		require.NotNil(t, entries[0].PartyID)

		// Deleting by the second participant removes the whole entry.
		require.NoError(t, store.DeleteEntry(ctx, members[1]))
		entries, err = store.LoadEntries(ctx, "ranked")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, later.ID, entries[0].ID)

		assert.ErrorIs(t, store.DeleteEntry(ctx, members[1]), domain.ErrNotInQueue)
	})

	t.Run("party round trip", func(t *testing.T) {
		testDB.Truncate(t)

		party := domain.NewParty(uuid.New(), 4, t0)
		party.MemberIDs = append(party.MemberIDs, uuid.New())
		require.NoError(t, store.SaveParty(ctx, &party))

		loaded, err := store.LoadParty(ctx, party.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, party.LeaderID, loaded.LeaderID)
		assert.Equal(t, party.MemberIDs, loaded.MemberIDs)

		require.NoError(t, store.DeleteParty(ctx, party.ID))
		loaded, err = store.LoadParty(ctx, party.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded)
		assert.ErrorIs(t, store.DeleteParty(ctx, party.ID), domain.ErrPartyNotFound)
	})

	t.Run("lobby round trip and history", func(t *testing.T) {
		testDB.Truncate(t)

		players := []uuid.UUID{uuid.New(), uuid.New()}
		match := domain.MatchResult{
			MatchID: uuid.New(),
			Entries: []domain.QueueEntry{
				testutil.NewEntryBuilder("q").WithPlayers(players[0]).Build(),
				testutil.NewEntryBuilder("q").WithPlayers(players[1]).Build(),
			},
			TeamAssignments: []int{0, 1},
		}
		created := domain.NewLobbyFromMatch(match, []int{1, 1}, domain.LobbyMetadata{QueueName: "q", GameMode: "1v1"}, t0)
		created.ReadyPlayers[players[0]] = true
		require.NoError(t, store.SaveLobby(ctx, created))

		loaded, err := store.LoadLobby(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, created.State, loaded.State)
		assert.Equal(t, created.Teams, loaded.Teams)
		assert.True(t, loaded.ReadyPlayers[players[0]])
		assert.Equal(t, "q", loaded.Metadata.QueueName)

		require.NoError(t, store.SaveMatchResult(ctx, loaded))
		count, err := store.MatchHistoryCount(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		require.NoError(t, store.DeleteLobby(ctx, created.ID))
		missing, err := store.LoadLobby(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}
