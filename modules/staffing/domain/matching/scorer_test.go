package matching

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
)

func testPosition(zone string, level int) *position.Position {
	return &position.Position{
		ID:            1,
		Title:         "Analista de Selección",
		Zone:          zone,
		Tier:          position.TierP2,
		RequiredLevel: level,
		Status:        position.StatusOpen,
	}
}

func testRecruiter(id int64, zone string, level, load, capacity int) *recruiter.Recruiter {
	return &recruiter.Recruiter{
		ID:          id,
		Name:        "R",
		PrimaryZone: zone,
		Level:       level,
		Capacity:    capacity,
		CurrentLoad: load,
		IsActive:    true,
	}
}

func TestScore_PerfectMatch(t *testing.T) {
	p := testPosition("Lima", 3)
	r := testRecruiter(1, "Lima", 3, 0, 10)

	fit := Score(p, r)
	require.InDelta(t, 1.0, fit.Score, 1e-9)
	require.InDelta(t, 0.40, fit.Breakdown[CriterionZone], 1e-9)
	require.InDelta(t, 0.35, fit.Breakdown[CriterionCapability], 1e-9)
	require.InDelta(t, 0.25, fit.Breakdown[CriterionHeadroom], 1e-9)
}

func TestScore_BoundedAndBreakdownSums(t *testing.T) {
	positions := []*position.Position{
		testPosition("Lima", 1),
		testPosition("Arequipa", 3),
		testPosition("Trujillo", 5),
	}
	recruiters := []*recruiter.Recruiter{
		testRecruiter(1, "Lima", 5, 0, 10),
		testRecruiter(2, "Cusco", 1, 9, 10),
		testRecruiter(3, "Arequipa", 3, 5, 25),
	}
	for _, p := range positions {
		for _, r := range recruiters {
			fit := Score(p, r)
			require.GreaterOrEqual(t, fit.Score, 0.0)
			require.LessOrEqual(t, fit.Score, 1.0)

			var sum float64
			for _, v := range fit.Breakdown {
				sum += v
			}
			require.InDelta(t, fit.Score, sum, 1e-9)
		}
	}
}

func TestScore_ZoneAffinity(t *testing.T) {
	p := testPosition("Trujillo", 3)

	primary := testRecruiter(1, "Trujillo", 3, 0, 10)
	secondary := testRecruiter(2, "Lima", 3, 0, 10)
	secondary.SecondaryZones = []string{"Trujillo"}
	none := testRecruiter(3, "Cusco", 3, 0, 10)

	require.InDelta(t, 0.40*1.0, Score(p, primary).Breakdown[CriterionZone], 1e-9)
	require.InDelta(t, 0.40*0.60, Score(p, secondary).Breakdown[CriterionZone], 1e-9)
	require.InDelta(t, 0.40*0.15, Score(p, none).Breakdown[CriterionZone], 1e-9)
}

func TestScore_CapabilityFit(t *testing.T) {
	cases := []struct {
		required, level int
		sub             float64
	}{
		{3, 3, 1.0},
		{3, 4, 0.90},
		{2, 4, 1.0 - 0.15*2},
		{1, 5, 0.40},
		{1, 8, 0.30}, // over-qualification floor
		{3, 2, 1.0 - 0.35},
		{4, 2, 1.0 - 0.35*2},
		{5, 1, 0.05}, // deficit floor
	}
	for _, tc := range cases {
		p := testPosition("Lima", tc.required)
		r := testRecruiter(1, "Lima", tc.level, 0, 10)
		fit := Score(p, r)
		require.InDelta(t, 0.35*tc.sub, fit.Breakdown[CriterionCapability], 1e-9,
			"required=%d level=%d", tc.required, tc.level)
	}
}

func TestScore_HeadroomQuadratic(t *testing.T) {
	p := testPosition("Lima", 3)

	empty := testRecruiter(1, "Lima", 3, 0, 10)
	half := testRecruiter(2, "Lima", 3, 5, 10)
	nearFull := testRecruiter(3, "Lima", 3, 9, 10)

	require.InDelta(t, 0.25*1.0, Score(p, empty).Breakdown[CriterionHeadroom], 1e-9)
	require.InDelta(t, 0.25*0.25, Score(p, half).Breakdown[CriterionHeadroom], 1e-9)
	require.InDelta(t, 0.25*0.01, Score(p, nearFull).Breakdown[CriterionHeadroom], 1e-9)
}

func TestScore_DominantReasons(t *testing.T) {
	p := testPosition("Lima", 3)

	// zone mismatch, exact level, empty book: capability then headroom
	r := testRecruiter(1, "Cusco", 3, 0, 10)
	fit := Score(p, r)
	require.Equal(t, []string{CriterionCapability, CriterionHeadroom}, fit.Reasons)

	// perfect zone dominates everything
	r2 := testRecruiter(2, "Lima", 3, 5, 10)
	fit2 := Score(p, r2)
	require.Equal(t, CriterionZone, fit2.Reasons[0])
	require.Len(t, fit2.Reasons, 2)
}

func TestEligible_CapacityGate(t *testing.T) {
	free := testRecruiter(1, "Lima", 3, 24, 25)
	full := testRecruiter(2, "Lima", 3, 25, 25)
	inactive := testRecruiter(3, "Lima", 3, 0, 25)
	inactive.IsActive = false

	require.True(t, Eligible(free))
	require.False(t, Eligible(full))
	require.False(t, Eligible(inactive))
}

func TestScore_Deterministic(t *testing.T) {
	p := testPosition("Arequipa", 4)
	r := testRecruiter(9, "Lima", 2, 7, 20)
	r.SecondaryZones = []string{"Arequipa"}

	// secondary zone 0.40*0.60, two-level deficit 0.35*0.30, headroom
	// 0.25*(1-7/20)^2; the total is the same exact float on every call
	first := Score(p, r)
	require.InDelta(t, 0.450625, first.Score, 1e-12)
	for i := 0; i < 50; i++ {
		again := Score(p, r)
		require.Equal(t, first.Score, again.Score)
		require.Equal(t, first.Breakdown, again.Breakdown)
		require.Equal(t, first.Reasons, again.Reasons)
	}
}
