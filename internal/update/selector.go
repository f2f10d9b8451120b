package update

import (
	"github.com/modfolk/modup/internal/registry"
)

// Stability ranks, most stable first. A selected candidate's rank may never
// exceed the current pinned value's rank.
const (
	rankRelease = 0
	rankBeta    = 1
	rankAlpha   = 2
)

// candidateRank ranks a candidate's stability tier. Unrecognized tiers get
// the worst rank so they are never silently preferred; a missing tier is
// treated as a full release, matching the registry's default.
func candidateRank(tier string) int {
	switch tier {
	case "", registry.TypeRelease:
		return rankRelease
	case registry.TypeBeta:
		return rankBeta
	case registry.TypeAlpha:
		return rankAlpha
	default:
		return rankAlpha
	}
}

// currentRank ranks the pinned value's stability tier. Unlike candidateRank,
// an unrecognized tier falls back to release: when in doubt, only full
// releases may be proposed.
func currentRank(tier string) int {
	switch tier {
	case registry.TypeBeta:
		return rankBeta
	case registry.TypeAlpha:
		return rankAlpha
	default:
		return rankRelease
	}
}

// Outcome classifies a selection result.
type Outcome int

const (
	// OutcomeUpdate means a newer acceptable candidate was found
	OutcomeUpdate Outcome = iota
	// OutcomeUpToDate means the pinned value already matches the newest candidate
	OutcomeUpToDate
	// OutcomeNoCandidates means the registry returned no compatible versions
	OutcomeNoCandidates
	// OutcomeNoneAtTier means no candidate met the stability policy
	OutcomeNoneAtTier
)

// Selection is the result of applying the stability policy to a candidate list.
type Selection struct {
	Outcome     Outcome
	CurrentTier string
	// Candidate is the proposed version; only set for OutcomeUpdate
	Candidate *registry.Version
}

// CurrentTier returns the stability tier of the pinned value, determined by
// scanning candidates for one whose id or version string equals it. When
// nothing matches, the most stable tier is assumed so that only releases
// are proposed.
func CurrentTier(candidates []registry.Version, pinned string) string {
	for _, v := range candidates {
		if v.Matches(pinned) {
			if v.VersionType == "" {
				return registry.TypeRelease
			}
			return v.VersionType
		}
	}
	return registry.TypeRelease
}

// Select applies the stability policy: filter candidates to the current
// tier or better, take the newest survivor (candidates arrive newest-first
// and are never reordered), and suppress it when the pinned value already
// matches by either id or version string.
func Select(candidates []registry.Version, pinned string) Selection {
	if len(candidates) == 0 {
		return Selection{Outcome: OutcomeNoCandidates}
	}

	tier := CurrentTier(candidates, pinned)
	maxRank := currentRank(tier)

	var filtered []registry.Version
	for _, v := range candidates {
		if candidateRank(v.VersionType) <= maxRank {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return Selection{Outcome: OutcomeNoneAtTier, CurrentTier: tier}
	}

	latest := filtered[0]
	if latest.Matches(pinned) {
		return Selection{Outcome: OutcomeUpToDate, CurrentTier: tier}
	}

	return Selection{Outcome: OutcomeUpdate, CurrentTier: tier, Candidate: &latest}
}
