package party

import (
	"math"

	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
)

// MemberRating pairs a party member with their current rating.
type MemberRating struct {
	PlayerID uuid.UUID
	Rating   domain.Rating
}

// Aggregator derives a single queueable rating for a party from its members'
// ratings.
type Aggregator interface {
	Aggregate(ratings []MemberRating) domain.Rating
}

// AverageAggregator uses the mean point and mean deviation.
type AverageAggregator struct{}

func (AverageAggregator) Aggregate(ratings []MemberRating) domain.Rating {
	if len(ratings) == 0 {
		return domain.DefaultBeginnerRating()
	}

	sumRating, sumDeviation := 0.0, 0.0
	for _, r := range ratings {
		sumRating += r.Rating.Rating
		sumDeviation += r.Rating.Deviation
	}
	n := float64(len(ratings))

	return domain.Rating{
		Rating:     sumRating / n,
		Deviation:  sumDeviation / n,
		Volatility: domain.DefaultVolatility,
	}
}

// MaxAggregator rates the party at its strongest member, a conservative
// choice from the opponents' perspective.
type MaxAggregator struct{}

func (MaxAggregator) Aggregate(ratings []MemberRating) domain.Rating {
	if len(ratings) == 0 {
		return domain.DefaultBeginnerRating()
	}

	best := ratings[0].Rating
	for _, r := range ratings[1:] {
		if r.Rating.Rating > best.Rating {
			best = r.Rating
		}
	}
	return best
}

// WeightedGapAggregator averages the points and adds a penalty proportional
// to the spread between the strongest and weakest member, so wide-gap parties
// queue above their mean and boosting stays unattractive.
type WeightedGapAggregator struct {
	GapPenalty float64
}

func (a WeightedGapAggregator) Aggregate(ratings []MemberRating) domain.Rating {
	if len(ratings) == 0 {
		return domain.DefaultBeginnerRating()
	}

	sum := 0.0
	maxRating := math.Inf(-1)
	minRating := math.Inf(1)
	for _, r := range ratings {
		sum += r.Rating.Rating
		maxRating = math.Max(maxRating, r.Rating.Rating)
		minRating = math.Min(minRating, r.Rating.Rating)
	}
	avg := sum / float64(len(ratings))

	return domain.Rating{
		Rating:     avg + (maxRating-minRating)*a.GapPenalty,
		Deviation:  200.0,
		Volatility: domain.DefaultVolatility,
	}
}
