package matching

import (
	"sort"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
)

// Criterion names key the score breakdown and the explanation reasons.
const (
	CriterionZone       = "zone"
	CriterionCapability = "capability"
	CriterionHeadroom   = "headroom"
)

// Scoring weights. Normalized: they sum to 1, so the weighted sum stays in
// [0,1]. Tests pin these values.
const (
	weightZone       = 0.40
	weightCapability = 0.35
	weightHeadroom   = 0.25
)

// Zone affinity sub-scores. A zone mismatch keeps a small non-zero floor:
// cross-zone coverage is sometimes acceptable, so no recruiter is excluded
// on zone alone.
const (
	zonePrimary   = 1.0
	zoneSecondary = 0.60
	zoneNone      = 0.15
)

// Capability fit sub-scores. Under-qualification is penalized harder than
// modest over-qualification.
const (
	capabilityExact        = 1.0
	capabilityOneOver      = 0.90
	capabilityOverStep     = 0.15
	capabilityOverFloor    = 0.30
	capabilityDeficitStep  = 0.35
	capabilityDeficitFloor = 0.05
)

// Fit is the outcome of scoring one (position, recruiter) pair.
type Fit struct {
	Score float64
	// Breakdown holds the weighted contribution per criterion; the values
	// sum to Score.
	Breakdown map[string]float64
	// Reasons names the one or two criteria contributing most, ordered by
	// contribution. Catalog keys, localized by the caller.
	Reasons []string
}

// Eligible is the hard gate: a recruiter at or over capacity is never
// scored, regardless of any other criterion.
func Eligible(r *recruiter.Recruiter) bool {
	return r.Available() && !r.AtCapacity()
}

// Score computes the compatibility of one recruiter for one position.
// Pure and deterministic; current load must already be resolved on the
// recruiter. Callers gate with Eligible first.
func Score(p *position.Position, r *recruiter.Recruiter) Fit {
	zone := weightZone * zoneScore(p, r)
	capability := weightCapability * capabilityScore(p.RequiredLevel, r.Level)
	headroom := weightHeadroom * headroomScore(r)

	// summed in a fixed order: float addition is not associative, so summing
	// the map would make the total depend on iteration order
	breakdown := map[string]float64{
		CriterionZone:       zone,
		CriterionCapability: capability,
		CriterionHeadroom:   headroom,
	}

	return Fit{
		Score:     zone + capability + headroom,
		Breakdown: breakdown,
		Reasons:   dominantReasons(breakdown),
	}
}

func zoneScore(p *position.Position, r *recruiter.Recruiter) float64 {
	switch {
	case r.PrimaryZone == p.Zone:
		return zonePrimary
	case r.CoversZone(p.Zone):
		return zoneSecondary
	default:
		return zoneNone
	}
}

func capabilityScore(required, level int) float64 {
	delta := level - required
	switch {
	case delta == 0:
		return capabilityExact
	case delta == 1:
		return capabilityOneOver
	case delta > 1:
		s := capabilityExact - capabilityOverStep*float64(delta)
		if s < capabilityOverFloor {
			return capabilityOverFloor
		}
		return s
	default: // under-qualified
		s := capabilityExact - capabilityDeficitStep*float64(-delta)
		if s < capabilityDeficitFloor {
			return capabilityDeficitFloor
		}
		return s
	}
}

// headroomScore decreases quadratically as the recruiter fills up, so
// nearly-full recruiters are strongly deprioritized well before the hard
// capacity gate excludes them.
func headroomScore(r *recruiter.Recruiter) float64 {
	if r.Capacity <= 0 {
		return 0
	}
	remaining := 1 - float64(r.CurrentLoad)/float64(r.Capacity)
	if remaining < 0 {
		remaining = 0
	}
	return remaining * remaining
}

// dominantReasons picks the top contributors deterministically: by weighted
// contribution descending, criterion name as the tie-break.
func dominantReasons(breakdown map[string]float64) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if breakdown[names[i]] != breakdown[names[j]] {
			return breakdown[names[i]] > breakdown[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 2 {
		names = names[:2]
	}
	return names
}
