package rating

import (
	"math"

	"github.com/matchforge/matchforge/internal/domain"
)

// maxVariance caps the variance term when the expected score sits at the edge
// of machine precision, where 1/(g²·E·(1−E)) blows up.
const maxVariance = 1e6

// Glicko is a deviation-aware rating update in the Glicko family. The
// opponent's deviation dampens the expected score through g, and the variance
// term widens the player's own deviation after the match.
type Glicko struct {
	tau float64
}

// NewGlicko builds a Glicko updater with the given system constant.
func NewGlicko(tau float64) *Glicko {
	return &Glicko{tau: tau}
}

// NewDefaultGlicko builds a Glicko updater with tau=0.5.
func NewDefaultGlicko() *Glicko {
	return NewGlicko(0.5)
}

// g dampens the opponent's influence by their rating deviation.
func (gl *Glicko) g(deviation float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*deviation*deviation/(math.Pi*math.Pi))
}

func (gl *Glicko) expectedScore(self, opponent, opponentDeviation float64) float64 {
	gv := gl.g(opponentDeviation)
	return 1.0 / (1.0 + math.Exp(-gv*(self-opponent)/400.0))
}

// Update applies the deviation-aware formula. When the opponent's deviation is
// zero the opponent carries no usable information and the rating is returned
// unchanged.
func (gl *Glicko) Update(self, opponent domain.Rating, outcome domain.Outcome) domain.Rating {
	if opponent.Deviation == 0 {
		return self
	}

	gv := gl.g(opponent.Deviation)
	expected := gl.expectedScore(self.Rating, opponent.Rating, opponent.Deviation)

	denom := gv * gv * expected * (1.0 - expected)
	variance := maxVariance
	if denom > 1.0/maxVariance {
		variance = 1.0 / denom
	}

	delta := variance * gv * (outcome.Score() - expected)
	newDeviation := math.Sqrt(self.Deviation*self.Deviation + variance)

	return domain.Rating{
		Rating:     self.Rating + delta,
		Deviation:  math.Min(domain.MaxDeviation, newDeviation),
		Volatility: self.Volatility,
	}
}

func (gl *Glicko) Name() string {
	return "glicko"
}
