package rating

import (
	"math"

	"github.com/matchforge/matchforge/internal/domain"
)

// DefaultKFactor is the standard Elo K used when none is configured.
const DefaultKFactor = 32.0

// Elo is the classic symmetric rating update.
type Elo struct {
	kFactor float64
}

// NewElo builds an Elo updater with the given K factor.
func NewElo(kFactor float64) *Elo {
	return &Elo{kFactor: kFactor}
}

// NewDefaultElo builds an Elo updater with K=32.
func NewDefaultElo() *Elo {
	return NewElo(DefaultKFactor)
}

func (e *Elo) expectedScore(self, opponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponent-self)/400.0))
}

// Update applies the Elo formula. The deviation shrinks by 1% per match; the
// 0.99 factor is inherited behavior, not derived from a published formula.
func (e *Elo) Update(self, opponent domain.Rating, outcome domain.Outcome) domain.Rating {
	expected := e.expectedScore(self.Rating, opponent.Rating)
	newRating := self.Rating + e.kFactor*(outcome.Score()-expected)

	return domain.Rating{
		Rating:     newRating,
		Deviation:  self.Deviation * 0.99,
		Volatility: self.Volatility,
	}
}

func (e *Elo) Name() string {
	return "elo"
}
