package domain

// Default rating parameters for a player with no match history.
const (
	DefaultRating     = 1500.0
	DefaultDeviation  = 350.0
	DefaultVolatility = 0.06

	// MaxDeviation is the ceiling for rating uncertainty.
	MaxDeviation = 350.0
)

// Rating is a player's skill estimate: a point value on an Elo-like scale,
// the current uncertainty of that value, and the rate at which the
// uncertainty changes over time.
type Rating struct {
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

// NewRating builds a rating from explicit components.
func NewRating(rating, deviation, volatility float64) Rating {
	return Rating{Rating: rating, Deviation: deviation, Volatility: volatility}
}

// DefaultBeginnerRating returns the rating assigned to players before their
// first match.
func DefaultBeginnerRating() Rating {
	return Rating{
		Rating:     DefaultRating,
		Deviation:  DefaultDeviation,
		Volatility: DefaultVolatility,
	}
}

// ConservativeEstimate returns rating - 2*deviation, a pessimistic skill
// bound suitable for leaderboards.
func (r Rating) ConservativeEstimate() float64 {
	return r.Rating - 2.0*r.Deviation
}

// Outcome is a match result from a single player's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Score maps an outcome to its scalar value: 1 for a win, 0 for a loss,
// 0.5 for a draw.
func (o Outcome) Score() float64 {
	switch o {
	case OutcomeWin:
		return 1.0
	case OutcomeDraw:
		return 0.5
	default:
		return 0.0
	}
}

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
		return true
	}
	return false
}
