// Package matchmaker implements match construction over queue snapshots: the
// pairwise compatibility constraints with time-based relaxation, the greedy
// matcher, and the alternate strategies (swiss, adaptive, brackets, balancer).
package matchmaker

import (
	"math"
	"time"

	"github.com/matchforge/matchforge/internal/domain"
)

// RoleRequirement demands a minimum number of selected players preferring a
// given role.
type RoleRequirement struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// Constraints bound which entries may share a match. The rating bound widens
// linearly with wait time so long-waiting entries match wider.
type Constraints struct {
	// MaxRatingDelta is the base rating difference allowed between entries.
	MaxRatingDelta float64 `json:"maxRatingDelta"`
	// SameRegionRequired gates matches on matching region tags.
	SameRegionRequired bool `json:"sameRegionRequired"`
	// RoleRequirements are checked against the full selected set at commit.
	RoleRequirements []RoleRequirement `json:"roleRequirements,omitempty"`
	// MaxWaitTime is the acceptable queue time before relaxation maxes out.
	MaxWaitTime time.Duration `json:"maxWaitTime"`
	// ExpansionRate widens the rating bound per second waited.
	ExpansionRate float64 `json:"expansionRate"`
}

// PermissiveConstraints suit casual queues: wide delta, no region gate.
func PermissiveConstraints() Constraints {
	return Constraints{
		MaxRatingDelta:     500.0,
		SameRegionRequired: false,
		MaxWaitTime:        60 * time.Second,
		ExpansionRate:      10.0,
	}
}

// StrictConstraints suit ranked queues: tight delta, region-locked.
func StrictConstraints() Constraints {
	return Constraints{
		MaxRatingDelta:     100.0,
		SameRegionRequired: true,
		MaxWaitTime:        300 * time.Second,
		ExpansionRate:      5.0,
	}
}

// EffectiveDelta returns the rating bound for an entry at the given moment:
// base delta plus expansion for every second waited.
func (c Constraints) EffectiveDelta(entry domain.QueueEntry, now time.Time) float64 {
	waitSeconds := entry.WaitTime(now).Seconds()
	if waitSeconds < 0 {
		waitSeconds = 0
	}
	return c.MaxRatingDelta + c.ExpansionRate*waitSeconds
}

// CanMatch reports whether two entries are pairwise compatible: their rating
// difference fits under the wider of the two effective deltas, and the region
// gate (both tagged equal, or both untagged) passes when required.
func (c Constraints) CanMatch(a, b domain.QueueEntry, now time.Time) bool {
	maxDelta := math.Max(c.EffectiveDelta(a, now), c.EffectiveDelta(b, now))
	if math.Abs(a.Rating.Rating-b.Rating.Rating) > maxDelta {
		return false
	}

	if c.SameRegionRequired {
		if a.Metadata.Region != b.Metadata.Region {
			return false
		}
	}

	return true
}

// RolesSatisfied reports whether the selected entries collectively meet every
// role requirement: for each (role, count), at least count selected players
// list that role among their preferences.
func (c Constraints) RolesSatisfied(selected []domain.QueueEntry) bool {
	for _, req := range c.RoleRequirements {
		have := 0
		for _, entry := range selected {
			perPlayer := 0
			for _, role := range entry.Metadata.Roles {
				if role == req.Role {
					perPlayer = entry.PlayerCount()
					break
				}
			}
			have += perPlayer
		}
		if have < req.Count {
			return false
		}
	}
	return true
}
