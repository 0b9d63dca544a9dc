package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbyState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    domain.LobbyState
		to      domain.LobbyState
		allowed bool
	}{
		{domain.LobbyStateForming, domain.LobbyStateWaitingForReady, true},
		{domain.LobbyStateWaitingForReady, domain.LobbyStateReady, true},
		{domain.LobbyStateReady, domain.LobbyStateDispatched, true},
		{domain.LobbyStateForming, domain.LobbyStateReady, false},
		{domain.LobbyStateForming, domain.LobbyStateDispatched, false},
		{domain.LobbyStateWaitingForReady, domain.LobbyStateDispatched, false},
		{domain.LobbyStateDispatched, domain.LobbyStateForming, false},
		{domain.LobbyStateReady, domain.LobbyStateWaitingForReady, false},
		// Any state may be force-closed.
		{domain.LobbyStateForming, domain.LobbyStateClosed, true},
		{domain.LobbyStateWaitingForReady, domain.LobbyStateClosed, true},
		{domain.LobbyStateReady, domain.LobbyStateClosed, true},
		{domain.LobbyStateDispatched, domain.LobbyStateClosed, true},
		{domain.LobbyStateClosed, domain.LobbyStateClosed, true},
		{domain.LobbyStateClosed, domain.LobbyStateForming, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewLobbyFromMatch_TeamPartition(t *testing.T) {
	players := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	match := domain.MatchResult{
		MatchID: uuid.New(),
		Entries: []domain.QueueEntry{
			{ID: uuid.New(), PlayerIDs: players[:2]},
			{ID: uuid.New(), PlayerIDs: players[2:3]},
			{ID: uuid.New(), PlayerIDs: players[3:]},
		},
		TeamAssignments: []int{0, 1, 1},
	}

	lobby := domain.NewLobbyFromMatch(match, []int{2, 2}, domain.LobbyMetadata{QueueName: "q"}, time.Now())

	assert.Equal(t, domain.LobbyStateForming, lobby.State)
	assert.Equal(t, match.MatchID, lobby.MatchID)
	require.Len(t, lobby.Teams, 2)
	assert.Equal(t, players[:2], lobby.Teams[0].PlayerIDs)
	assert.Equal(t, players[2:], lobby.Teams[1].PlayerIDs)

	// Flat list equals the union of the teams; nobody sits on two teams.
	assert.ElementsMatch(t, players, lobby.PlayerIDs)
	for i, playerID := range players {
		want := 0
		if i >= 2 {
			want = 1
		}
		assert.Equal(t, want, lobby.PlayerTeam(playerID))
	}
	assert.Equal(t, -1, lobby.PlayerTeam(uuid.New()))
}

func TestLobby_MarkPlayerReadyAutoTransition(t *testing.T) {
	players := []uuid.UUID{uuid.New(), uuid.New()}
	match := domain.MatchResult{
		MatchID: uuid.New(),
		Entries: []domain.QueueEntry{
			{ID: uuid.New(), PlayerIDs: players[:1]},
			{ID: uuid.New(), PlayerIDs: players[1:]},
		},
		TeamAssignments: []int{0, 1},
	}
	lobby := domain.NewLobbyFromMatch(match, []int{1, 1}, domain.LobbyMetadata{}, time.Now())
	require.NoError(t, lobby.TransitionTo(domain.LobbyStateWaitingForReady))

	require.NoError(t, lobby.MarkPlayerReady(players[0]))
	assert.Equal(t, domain.LobbyStateWaitingForReady, lobby.State)
	assert.False(t, lobby.AllPlayersReady())

	require.NoError(t, lobby.MarkPlayerReady(players[1]))
	assert.Equal(t, domain.LobbyStateReady, lobby.State)
	assert.True(t, lobby.AllPlayersReady())

	err := lobby.MarkPlayerReady(uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestMatchFormat(t *testing.T) {
	assert.Equal(t, 2, domain.OneVOne().TotalPlayers())
	assert.Equal(t, 10, domain.FiveVFive().TotalPlayers())
	assert.Equal(t, []int{3, 3}, domain.TeamVTeam(3).TeamSizes)

	ffa := domain.FreeForAll(8)
	assert.Equal(t, 8, ffa.TeamCount())
	assert.Equal(t, 8, ffa.TotalPlayers())
	assert.Equal(t, 1, ffa.MaxTeamSize())
	assert.Equal(t, 5, domain.FiveVFive().MaxTeamSize())
}

func TestQueueEntry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	playerID := uuid.New()

	solo := domain.NewSoloEntry("q", playerID, domain.DefaultBeginnerRating(), domain.EntryMetadata{}, now)
	assert.True(t, solo.IsSolo())
	assert.Equal(t, 1, solo.PlayerCount())
	assert.True(t, solo.HasPlayer(playerID))
	assert.False(t, solo.HasPlayer(uuid.New()))
	assert.Equal(t, 30*time.Second, solo.WaitTime(now.Add(30*time.Second)))

	members := []uuid.UUID{uuid.New(), uuid.New()}
	group := domain.NewPartyEntry("q", uuid.New(), members, domain.DefaultBeginnerRating(), domain.EntryMetadata{}, now)
	assert.False(t, group.IsSolo())
	assert.Equal(t, 2, group.PlayerCount())
	require.NotNil(t, group.PartyID)
}

func TestRating_ConservativeEstimate(t *testing.T) {
	r := domain.NewRating(1600, 150, 0.06)
	assert.Equal(t, 1300.0, r.ConservativeEstimate())
}
