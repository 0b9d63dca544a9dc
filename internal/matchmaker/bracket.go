package matchmaker

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// BracketType selects the tournament structure.
type BracketType string

const (
	SingleElimination BracketType = "single_elimination"
	DoubleElimination BracketType = "double_elimination"
	RoundRobin        BracketType = "round_robin"
)

// SeedingStrategy orders entries before bracket placement.
type SeedingStrategy string

const (
	SeedRandom   SeedingStrategy = "random"
	SeedByRating SeedingStrategy = "by_rating"
	SeedByScore  SeedingStrategy = "by_score"
	SeedManual   SeedingStrategy = "manual"
)

// BracketMatch is one slot in a tournament round.
type BracketMatch struct {
	MatchID         uuid.UUID          `json:"matchId"`
	Round           int                `json:"round"`
	BracketPosition int                `json:"bracketPosition"`
	Entries         []domain.QueueEntry `json:"entries"`
	Winner          *uuid.UUID         `json:"winner,omitempty"`
	Format          domain.MatchFormat `json:"format"`
}

// SetWinner records the match result.
func (m *BracketMatch) SetWinner(playerID uuid.UUID) {
	id := playerID
	m.Winner = &id
}

// IsComplete reports whether a winner was recorded.
func (m *BracketMatch) IsComplete() bool {
	return m.Winner != nil
}

// Bracket is the evolving state of a tournament.
type Bracket struct {
	Type             BracketType    `json:"type"`
	CurrentRound     int            `json:"currentRound"`
	Matches          []BracketMatch `json:"matches"`
	CompletedMatches []BracketMatch `json:"completedMatches"`
}

// BracketGenerator builds tournament rounds from queue entries.
type BracketGenerator struct {
	Type    BracketType
	Seeding SeedingStrategy
	// ManualOrder seeds entries by player position when Seeding is SeedManual.
	ManualOrder []uuid.UUID
	// Scores backs SeedByScore.
	Scores map[uuid.UUID]float64
}

func NewBracketGenerator(bracketType BracketType, seeding SeedingStrategy) *BracketGenerator {
	return &BracketGenerator{Type: bracketType, Seeding: seeding}
}

// GenerateBracket seeds the entries and builds the opening round. When fewer
// than two full matches can be formed, the top seed receives a bye.
func (g *BracketGenerator) GenerateBracket(entries []domain.QueueEntry, format domain.MatchFormat) Bracket {
	seeded := g.applySeeding(entries)
	matches := g.initialRound(seeded, format)
	return Bracket{
		Type:         g.Type,
		CurrentRound: 1,
		Matches:      matches,
	}
}

func (g *BracketGenerator) applySeeding(entries []domain.QueueEntry) []domain.QueueEntry {
	seeded := make([]domain.QueueEntry, len(entries))
	copy(seeded, entries)

	switch g.Seeding {
	case SeedRandom:
		rand.Shuffle(len(seeded), func(i, j int) {
			seeded[i], seeded[j] = seeded[j], seeded[i]
		})
	case SeedByScore:
		sort.SliceStable(seeded, func(i, j int) bool {
			return entryScore(seeded[i], g.Scores) > entryScore(seeded[j], g.Scores)
		})
	case SeedManual:
		sort.SliceStable(seeded, func(i, j int) bool {
			return g.manualIndex(seeded[i]) < g.manualIndex(seeded[j])
		})
	default: // SeedByRating
		sort.SliceStable(seeded, func(i, j int) bool {
			return seeded[i].Rating.Rating > seeded[j].Rating.Rating
		})
	}
	return seeded
}

func (g *BracketGenerator) manualIndex(entry domain.QueueEntry) int {
	for i, id := range g.ManualOrder {
		if entry.HasPlayer(id) {
			return i
		}
	}
	return len(g.ManualOrder)
}

func (g *BracketGenerator) initialRound(entries []domain.QueueEntry, format domain.MatchFormat) []BracketMatch {
	var matches []BracketMatch
	perMatch := format.TotalPlayers()

	// When the field does not divide evenly, the top seed sits the round out
	// with an auto-win.
	working := entries
	if len(entries) > 0 && countPlayers(entries)%perMatch != 0 {
		bye := BracketMatch{
			MatchID:         uuid.New(),
			Round:           1,
			BracketPosition: 0,
			Entries:         []domain.QueueEntry{entries[0]},
			Format:          format,
		}
		bye.SetWinner(entries[0].PlayerIDs[0])
		matches = append(matches, bye)
		working = entries[1:]
	}

	chunk := make([]domain.QueueEntry, 0, perMatch)
	for _, entry := range working {
		chunk = append(chunk, entry)
		if countPlayers(chunk) >= perMatch {
			matches = append(matches, BracketMatch{
				MatchID:         uuid.New(),
				Round:           1,
				BracketPosition: len(matches),
				Entries:         chunk,
				Format:          format,
			})
			chunk = make([]domain.QueueEntry, 0, perMatch)
		}
	}

	return matches
}

// GenerateNextRound builds the following round from the winners of the
// bracket's completed matches.
func (g *BracketGenerator) GenerateNextRound(bracket Bracket, format domain.MatchFormat) []BracketMatch {
	var winners []domain.QueueEntry
	for _, match := range bracket.CompletedMatches {
		if match.Winner == nil {
			continue
		}
		for _, entry := range match.Entries {
			if entry.HasPlayer(*match.Winner) {
				winners = append(winners, entry)
				break
			}
		}
	}

	var next []BracketMatch
	perMatch := format.TotalPlayers()
	chunk := make([]domain.QueueEntry, 0, perMatch)
	for _, winner := range winners {
		chunk = append(chunk, winner)
		if countPlayers(chunk) >= perMatch {
			next = append(next, BracketMatch{
				MatchID:         uuid.New(),
				Round:           bracket.CurrentRound + 1,
				BracketPosition: len(next),
				Entries:         chunk,
				Format:          format,
			})
			chunk = make([]domain.QueueEntry, 0, perMatch)
		}
	}
	return next
}
