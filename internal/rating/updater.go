// Package rating implements the skill-rating algorithms: post-match updates,
// inactivity decay, and season-boundary resets.
package rating

import (
	"time"

	"github.com/matchforge/matchforge/internal/domain"
)

// Updater derives a player's new rating from a single match against one
// opponent.
type Updater interface {
	// Update returns the player's rating after a match with the given outcome.
	Update(self, opponent domain.Rating, outcome domain.Outcome) domain.Rating
	// Name identifies the algorithm.
	Name() string
}

// DecayStrategy adjusts a rating for inactivity since the player's last match.
type DecayStrategy interface {
	ApplyDecay(rating domain.Rating, lastMatchAt time.Time, now time.Time) domain.Rating
}

// SeasonResetStrategy maps an end-of-season rating to its starting value for
// the next season.
type SeasonResetStrategy interface {
	ResetRating(current domain.Rating) domain.Rating
}
