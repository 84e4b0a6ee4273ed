package matching

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
)

func TestRank_OrdersByScoreDescending(t *testing.T) {
	p := testPosition("Lima", 3)
	recruiters := []*recruiter.Recruiter{
		testRecruiter(1, "Cusco", 1, 8, 10),
		testRecruiter(2, "Lima", 3, 0, 10),
		testRecruiter(3, "Lima", 4, 5, 10),
	}

	recs := Rank(p, recruiters, 0)
	require.Len(t, recs, 3)
	for i := 1; i < len(recs); i++ {
		require.GreaterOrEqual(t, recs[i-1].Fit.Score, recs[i].Fit.Score)
	}
	require.Equal(t, int64(2), recs[0].Recruiter.ID)
}

func TestRank_TopK(t *testing.T) {
	p := testPosition("Lima", 3)
	recruiters := []*recruiter.Recruiter{
		testRecruiter(1, "Lima", 3, 0, 10),
		testRecruiter(2, "Lima", 3, 1, 10),
		testRecruiter(3, "Lima", 3, 2, 10),
		testRecruiter(4, "Lima", 3, 3, 10),
	}

	require.Len(t, Rank(p, recruiters, 3), 3)
	require.Len(t, Rank(p, recruiters, 10), 4)
	require.Len(t, Rank(p, recruiters, -1), 4)
}

func TestRank_ExcludesIneligible(t *testing.T) {
	p := testPosition("Lima", 3)
	full := testRecruiter(1, "Lima", 3, 10, 10)
	inactive := testRecruiter(2, "Lima", 3, 0, 10)
	inactive.IsActive = false
	ok := testRecruiter(3, "Cusco", 1, 9, 10)

	recs := Rank(p, []*recruiter.Recruiter{full, inactive, ok}, 0)
	require.Len(t, recs, 1)
	require.Equal(t, int64(3), recs[0].Recruiter.ID)
}

func TestRank_TieBreakLowerLoad(t *testing.T) {
	p := testPosition("Lima", 3)

	// equal scores: same zone and level, proportionally equal headroom
	a := testRecruiter(1, "Lima", 3, 4, 10)
	b := testRecruiter(2, "Lima", 3, 2, 5)

	recs := Rank(p, []*recruiter.Recruiter{a, b}, 0)
	require.Len(t, recs, 2)
	require.InDelta(t, recs[0].Fit.Score, recs[1].Fit.Score, 1e-9)
	require.Equal(t, int64(2), recs[0].Recruiter.ID)
	require.Equal(t, int64(1), recs[1].Recruiter.ID)
}

func TestRank_TieBreakLowerID(t *testing.T) {
	p := testPosition("Lima", 3)

	a := testRecruiter(5, "Lima", 3, 4, 10)
	b := testRecruiter(2, "Lima", 3, 4, 10)
	c := testRecruiter(9, "Lima", 3, 4, 10)

	recs := Rank(p, []*recruiter.Recruiter{a, b, c}, 0)
	require.Len(t, recs, 3)
	require.Equal(t, int64(2), recs[0].Recruiter.ID)
	require.Equal(t, int64(5), recs[1].Recruiter.ID)
	require.Equal(t, int64(9), recs[2].Recruiter.ID)
}

func TestBest(t *testing.T) {
	p := testPosition("Lima", 3)

	_, ok := Best(p, nil)
	require.False(t, ok)

	full := testRecruiter(1, "Lima", 3, 10, 10)
	_, ok = Best(p, []*recruiter.Recruiter{full})
	require.False(t, ok)

	winner := testRecruiter(2, "Lima", 3, 0, 10)
	best, ok := Best(p, []*recruiter.Recruiter{full, winner})
	require.True(t, ok)
	require.Equal(t, int64(2), best.Recruiter.ID)
}
