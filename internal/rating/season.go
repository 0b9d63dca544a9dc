package rating

import (
	"time"

	"github.com/matchforge/matchforge/internal/domain"
)

// Season is a competitive period with fixed boundaries.
type Season struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// IsActive reports whether now falls inside the season window.
func (s Season) IsActive(now time.Time) bool {
	return !now.Before(s.StartTime) && now.Before(s.EndTime)
}

// SoftReset pulls ratings part of the way toward a target and restores a
// moderate uncertainty, preserving relative standings across seasons.
type SoftReset struct {
	TargetRating   float64
	ResetFraction  float64
	ResetDeviation float64
}

// NewDefaultSoftReset moves ratings halfway to 1500 with deviation 200.
func NewDefaultSoftReset() SoftReset {
	return SoftReset{TargetRating: 1500.0, ResetFraction: 0.5, ResetDeviation: 200.0}
}

func (r SoftReset) ResetRating(current domain.Rating) domain.Rating {
	return domain.Rating{
		Rating:     current.Rating + (r.TargetRating-current.Rating)*r.ResetFraction,
		Deviation:  r.ResetDeviation,
		Volatility: current.Volatility,
	}
}

// HardReset discards history: everyone starts the season at the target with
// full uncertainty.
type HardReset struct {
	TargetRating float64
}

func NewHardReset(target float64) HardReset {
	return HardReset{TargetRating: target}
}

func (r HardReset) ResetRating(_ domain.Rating) domain.Rating {
	return domain.Rating{
		Rating:     r.TargetRating,
		Deviation:  domain.DefaultDeviation,
		Volatility: domain.DefaultVolatility,
	}
}
