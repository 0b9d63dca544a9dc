package matchmaker_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/matchmaker"
	"github.com/matchforge/matchforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwissMatcher_PairsByScore(t *testing.T) {
	matcher := matchmaker.NewSwissMatcher(1.0, false)

	leader := testutil.NewEntryBuilder("t").WithRating(1600, 100).Build()
	chaser := testutil.NewEntryBuilder("t").WithRating(1550, 100).Build()
	tail := testutil.NewEntryBuilder("t").WithRating(1500, 100).Build()
	straggler := testutil.NewEntryBuilder("t").WithRating(1450, 100).Build()

	scores := map[uuid.UUID]float64{
		leader.PlayerIDs[0]:    3,
		chaser.PlayerIDs[0]:    3,
		tail.PlayerIDs[0]:      1,
		straggler.PlayerIDs[0]: 1,
	}

	matches := matcher.FindPairings([]domain.QueueEntry{tail, leader, straggler, chaser}, scores, nil)

	require.Len(t, matches, 2)
	// The two 3-point entries pair, the two 1-point entries pair.
	first := matches[0]
	assert.ElementsMatch(t,
		[]uuid.UUID{leader.ID, chaser.ID},
		[]uuid.UUID{first.Entries[0].ID, first.Entries[1].ID})
}

func TestSwissMatcher_ScoreGapBlocksPairing(t *testing.T) {
	matcher := matchmaker.NewSwissMatcher(1.0, false)

	a := testutil.NewEntryBuilder("t").WithRating(1500, 100).Build()
	b := testutil.NewEntryBuilder("t").WithRating(1500, 100).Build()
	scores := map[uuid.UUID]float64{
		a.PlayerIDs[0]: 5,
		b.PlayerIDs[0]: 0,
	}

	matches := matcher.FindPairings([]domain.QueueEntry{a, b}, scores, nil)

	assert.Empty(t, matches)
}

func TestSwissMatcher_AvoidsRematch(t *testing.T) {
	matcher := matchmaker.NewSwissMatcher(5.0, true)

	a := testutil.NewEntryBuilder("t").WithRating(1500, 100).Build()
	b := testutil.NewEntryBuilder("t").WithRating(1500, 100).Build()
	scores := map[uuid.UUID]float64{a.PlayerIDs[0]: 1, b.PlayerIDs[0]: 1}
	previous := map[uuid.UUID][]uuid.UUID{
		a.PlayerIDs[0]: {b.PlayerIDs[0]},
	}

	assert.Empty(t, matcher.FindPairings([]domain.QueueEntry{a, b}, scores, previous))
	assert.Len(t, matcher.FindPairings([]domain.QueueEntry{a, b}, scores, nil), 1)
}

func TestAdaptiveMatcher_WidensWithWait(t *testing.T) {
	base := matchmaker.Constraints{MaxRatingDelta: 50}
	matcher := matchmaker.NewAdaptiveMatcher(base, time.Minute, 4.0)

	fresh := testutil.NewEntryBuilder("q").WithRating(1500, 100).WithJoinedAt(t0).Build()
	distant := testutil.NewEntryBuilder("q").WithRating(1620, 100).WithJoinedAt(t0).Build()

	// At join time the 120-point gap exceeds the base delta of 50.
	assert.Empty(t, matcher.FindMatches([]domain.QueueEntry{fresh, distant}, t0))

	// After 30s the delta is 50*(1+0.5*4) = 150 and the pair forms.
	matches := matcher.FindMatches([]domain.QueueEntry{fresh, distant}, t0.Add(30*time.Second))
	require.Len(t, matches, 1)
	assert.Equal(t, []int{0, 1}, matches[0].TeamAssignments)
}

func TestAdaptiveMatcher_PrefersClosestRating(t *testing.T) {
	base := matchmaker.Constraints{MaxRatingDelta: 500}
	matcher := matchmaker.NewAdaptiveMatcher(base, time.Minute, 0)

	anchor := testutil.NewEntryBuilder("q").WithRating(1500, 100).WithJoinedAt(t0).Build()
	near := testutil.NewEntryBuilder("q").WithRating(1520, 100).WithJoinedAt(t0).Build()
	far := testutil.NewEntryBuilder("q").WithRating(1800, 100).WithJoinedAt(t0).Build()

	matches := matcher.FindMatches([]domain.QueueEntry{anchor, far, near}, t0.Add(time.Second))

	require.Len(t, matches, 1)
	assert.Equal(t, anchor.ID, matches[0].Entries[0].ID)
	assert.Equal(t, near.ID, matches[0].Entries[1].ID)
}

func TestBracketGenerator_InitialRound(t *testing.T) {
	gen := matchmaker.NewBracketGenerator(matchmaker.SingleElimination, matchmaker.SeedByRating)

	var entries []domain.QueueEntry
	for i := 0; i < 4; i++ {
		entries = append(entries,
			testutil.NewEntryBuilder("t").WithRating(1500+float64(i)*100, 100).Build())
	}

	bracket := gen.GenerateBracket(entries, domain.OneVOne())

	assert.Equal(t, matchmaker.SingleElimination, bracket.Type)
	assert.Equal(t, 1, bracket.CurrentRound)
	require.Len(t, bracket.Matches, 2)
	// Seeded by rating descending: 1800 and 1700 open the bracket.
	assert.Equal(t, 1800.0, bracket.Matches[0].Entries[0].Rating.Rating)
	assert.Equal(t, 1700.0, bracket.Matches[0].Entries[1].Rating.Rating)
}

func TestBracketGenerator_ByeForTopSeed(t *testing.T) {
	gen := matchmaker.NewBracketGenerator(matchmaker.SingleElimination, matchmaker.SeedByRating)

	strong := testutil.NewEntryBuilder("t").WithRating(1900, 100).Build()
	mid := testutil.NewEntryBuilder("t").WithRating(1600, 100).Build()
	weak := testutil.NewEntryBuilder("t").WithRating(1400, 100).Build()

	bracket := gen.GenerateBracket([]domain.QueueEntry{weak, strong, mid}, domain.OneVOne())

	require.Len(t, bracket.Matches, 2)
	bye := bracket.Matches[0]
	require.True(t, bye.IsComplete())
	assert.Equal(t, strong.PlayerIDs[0], *bye.Winner)
	assert.False(t, bracket.Matches[1].IsComplete())
}

func TestBracketGenerator_NextRoundFromWinners(t *testing.T) {
	gen := matchmaker.NewBracketGenerator(matchmaker.SingleElimination, matchmaker.SeedByRating)

	var entries []domain.QueueEntry
	for i := 0; i < 4; i++ {
		entries = append(entries,
			testutil.NewEntryBuilder("t").WithRating(1500+float64(i)*100, 100).Build())
	}
	bracket := gen.GenerateBracket(entries, domain.OneVOne())
	require.Len(t, bracket.Matches, 2)

	for i := range bracket.Matches {
		match := bracket.Matches[i]
		match.SetWinner(match.Entries[0].PlayerIDs[0])
		bracket.CompletedMatches = append(bracket.CompletedMatches, match)
	}

	next := gen.GenerateNextRound(bracket, domain.OneVOne())

	require.Len(t, next, 1)
	assert.Equal(t, 2, next[0].Round)
	require.Len(t, next[0].Entries, 2)
}

func TestTeamBalancer_SnakeDraftByRating(t *testing.T) {
	balancer := matchmaker.NewTeamBalancer(matchmaker.BalanceByRating)

	var entries []domain.QueueEntry
	for _, r := range []float64{2000, 1800, 1600, 1400} {
		entries = append(entries, testutil.NewEntryBuilder("q").WithRating(r, 100).Build())
	}

	teams := balancer.BalanceTeams(entries, []int{2, 2})

	require.Len(t, teams, 2)
	// Snake draft: 2000+1400 vs 1800+1600.
	assert.InDelta(t, matchmaker.TeamRating(teams[0]), matchmaker.TeamRating(teams[1]), 1e-9)
}

func TestTeamBalancer_LargestPartyFirst(t *testing.T) {
	balancer := matchmaker.NewTeamBalancer(matchmaker.BalanceByPartySize)

	trio := testutil.NewEntryBuilder("q").
		WithPlayers(uuid.New(), uuid.New(), uuid.New()).
		WithParty(uuid.New()).
		WithRating(1500, 100).
		Build()
	duo := testutil.NewEntryBuilder("q").
		WithPlayers(uuid.New(), uuid.New()).
		WithParty(uuid.New()).
		WithRating(1500, 100).
		Build()
	soloA := testutil.NewEntryBuilder("q").WithRating(1500, 100).Build()
	soloB := testutil.NewEntryBuilder("q").WithRating(1500, 100).Build()
	soloC := testutil.NewEntryBuilder("q").WithRating(1500, 100).Build()

	teams := balancer.BalanceTeams(
		[]domain.QueueEntry{soloA, duo, soloB, trio, soloC},
		[]int{4, 4},
	)

	require.Len(t, teams, 2)
	for _, team := range teams {
		players := 0
		for _, e := range team {
			players += e.PlayerCount()
		}
		assert.LessOrEqual(t, players, 4)
	}
}

func TestTeamBalancer_HybridSwapsTowardEqualRatings(t *testing.T) {
	balancer := matchmaker.NewTeamBalancer(matchmaker.BalanceHybrid)

	var entries []domain.QueueEntry
	for _, r := range []float64{2000, 1800, 1600, 1400} {
		entries = append(entries, testutil.NewEntryBuilder("q").WithRating(r, 100).Build())
	}

	teams := balancer.BalanceTeams(entries, []int{2, 2})

	// Size-first alone stacks 2000+1800 on one side; the rating pass swaps
	// until both averages land on 1700.
	require.Len(t, teams, 2)
	require.Len(t, teams[0], 2)
	require.Len(t, teams[1], 2)
	assert.InDelta(t, 1700.0, matchmaker.TeamRating(teams[0]), 1e-9)
	assert.InDelta(t, 1700.0, matchmaker.TeamRating(teams[1]), 1e-9)
}

func TestTeamBalancer_HybridKeepsPartiesWhole(t *testing.T) {
	balancer := matchmaker.NewTeamBalancer(matchmaker.BalanceHybrid)

	duo := testutil.NewEntryBuilder("q").
		WithPlayers(uuid.New(), uuid.New()).
		WithParty(uuid.New()).
		WithRating(2000, 100).
		Build()
	soloA := testutil.NewEntryBuilder("q").WithRating(1000, 100).Build()
	soloB := testutil.NewEntryBuilder("q").WithRating(1800, 100).Build()

	teams := balancer.BalanceTeams([]domain.QueueEntry{soloA, duo, soloB}, []int{2, 2})

	// Only equal-size swaps are legal, so the duo stays a unit and the two
	// solos share the other side even though the gap remains.
	require.Len(t, teams, 2)
	for _, team := range teams {
		players := 0
		for _, e := range team {
			players += e.PlayerCount()
		}
		assert.Equal(t, 2, players)
		if len(team) == 1 {
			assert.Equal(t, duo.ID, team[0].ID)
		}
	}
}
