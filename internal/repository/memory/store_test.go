package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/repository/memory"
	"github.com/matchforge/matchforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestStore_RatingRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	playerID := uuid.New()

	missing, err := store.LoadRating(ctx, playerID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	saved := domain.NewRating(1620, 120, 0.05)
	require.NoError(t, store.SaveRating(ctx, playerID, saved))

	loaded, err := store.LoadRating(ctx, playerID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, *loaded)

	// Upsert overwrites.
	require.NoError(t, store.SaveRating(ctx, playerID, domain.NewRating(1700, 100, 0.05)))
	loaded, err = store.LoadRating(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, 1700.0, loaded.Rating)
}

func TestStore_EntriesOrderedByJoinTime(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	late := testutil.NewEntryBuilder("q").WithJoinedAt(t0.Add(time.Minute)).Build()
	early := testutil.NewEntryBuilder("q").WithJoinedAt(t0).Build()
	require.NoError(t, store.SaveEntry(ctx, &late))
	require.NoError(t, store.SaveEntry(ctx, &early))

	entries, err := store.LoadEntries(ctx, "q")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, early.ID, entries[0].ID)
	assert.Equal(t, late.ID, entries[1].ID)
}

func TestStore_SaveEntryUpserts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	entry := testutil.NewEntryBuilder("q").WithJoinedAt(t0).Build()
	require.NoError(t, store.SaveEntry(ctx, &entry))

	entry.Rating.Rating = 1800
	require.NoError(t, store.SaveEntry(ctx, &entry))

	entries, err := store.LoadEntries(ctx, "q")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1800.0, entries[0].Rating.Rating)
}

func TestStore_DeleteEntryByAnyParticipant(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	members := []uuid.UUID{uuid.New(), uuid.New()}
	entry := testutil.NewEntryBuilder("q").WithPlayers(members...).WithParty(uuid.New()).Build()
	require.NoError(t, store.SaveEntry(ctx, &entry))

	// Deleting by the second member removes the whole entry.
	require.NoError(t, store.DeleteEntry(ctx, members[1]))

	entries, err := store.LoadEntries(ctx, "q")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_DeleteMissingRecordsFail(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	assert.ErrorIs(t, store.DeleteEntry(ctx, uuid.New()), domain.ErrNotInQueue)
	assert.ErrorIs(t, store.DeleteParty(ctx, uuid.New()), domain.ErrPartyNotFound)
	assert.ErrorIs(t, store.DeleteLobby(ctx, uuid.New()), domain.ErrLobbyNotFound)
}

func TestStore_PartyRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	party := domain.NewParty(uuid.New(), 4, t0)
	require.NoError(t, store.SaveParty(ctx, &party))

	loaded, err := store.LoadParty(ctx, party.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, party.LeaderID, loaded.LeaderID)

	require.NoError(t, store.DeleteParty(ctx, party.ID))
	loaded, err = store.LoadParty(ctx, party.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_LobbyIsolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	players := []uuid.UUID{uuid.New(), uuid.New()}
	match := domain.MatchResult{
		MatchID: uuid.New(),
		Entries: []domain.QueueEntry{
			testutil.NewEntryBuilder("q").WithPlayers(players[0]).Build(),
			testutil.NewEntryBuilder("q").WithPlayers(players[1]).Build(),
		},
		TeamAssignments: []int{0, 1},
	}
	created := domain.NewLobbyFromMatch(match, []int{1, 1}, domain.LobbyMetadata{QueueName: "q"}, t0)
	require.NoError(t, store.SaveLobby(ctx, created))

	// Mutating a loaded copy must not leak into the stored record.
	loaded, err := store.LoadLobby(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	loaded.ReadyPlayers[players[0]] = true

	fresh, err := store.LoadLobby(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.ReadyPlayers)
}

func TestStore_MatchHistoryAppendOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	match := domain.MatchResult{
		MatchID: uuid.New(),
		Entries: []domain.QueueEntry{
			testutil.NewEntryBuilder("q").Build(),
			testutil.NewEntryBuilder("q").Build(),
		},
		TeamAssignments: []int{0, 1},
	}
	created := domain.NewLobbyFromMatch(match, []int{1, 1}, domain.LobbyMetadata{QueueName: "q"}, t0)

	require.NoError(t, store.SaveMatchResult(ctx, created))
	require.NoError(t, store.SaveMatchResult(ctx, created))

	history := store.MatchHistory()
	assert.Len(t, history, 2)
}
