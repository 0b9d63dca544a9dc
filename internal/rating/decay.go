package rating

import (
	"math"
	"time"

	"github.com/matchforge/matchforge/internal/domain"
)

// NoDecay leaves ratings untouched regardless of inactivity.
type NoDecay struct{}

func (NoDecay) ApplyDecay(rating domain.Rating, _ time.Time, _ time.Time) domain.Rating {
	return rating
}

// LinearDecay removes a fixed number of points per whole day of inactivity,
// capped at MaxDecay total, while widening the deviation to reflect the
// growing uncertainty.
type LinearDecay struct {
	DecayPerDay float64
	MaxDecay    float64
}

// NewDefaultLinearDecay loses 1 point per day up to 100 total.
func NewDefaultLinearDecay() LinearDecay {
	return LinearDecay{DecayPerDay: 1.0, MaxDecay: 100.0}
}

func (d LinearDecay) ApplyDecay(rating domain.Rating, lastMatchAt time.Time, now time.Time) domain.Rating {
	days := int(now.Sub(lastMatchAt).Hours() / 24)
	if days <= 0 {
		return rating
	}

	decay := math.Min(d.DecayPerDay*float64(days), d.MaxDecay)

	return domain.Rating{
		Rating:     math.Max(0, rating.Rating-decay),
		Deviation:  math.Min(domain.MaxDeviation, rating.Deviation+0.5*float64(days)),
		Volatility: rating.Volatility,
	}
}
