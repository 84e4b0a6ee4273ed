package matching

import (
	"sort"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
)

// Recommendation pairs a recruiter with its fit for one position.
type Recommendation struct {
	Recruiter *recruiter.Recruiter
	Fit       Fit
}

// Rank scores every eligible recruiter for the position and returns the top
// k, descending. Equal scores break by lower current load, then lower
// recruiter id, so output is reproducible. k <= 0 returns all.
func Rank(p *position.Position, recruiters []*recruiter.Recruiter, k int) []Recommendation {
	recs := make([]Recommendation, 0, len(recruiters))
	for _, r := range recruiters {
		if !Eligible(r) {
			continue
		}
		recs = append(recs, Recommendation{Recruiter: r, Fit: Score(p, r)})
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Fit.Score != b.Fit.Score {
			return a.Fit.Score > b.Fit.Score
		}
		if a.Recruiter.CurrentLoad != b.Recruiter.CurrentLoad {
			return a.Recruiter.CurrentLoad < b.Recruiter.CurrentLoad
		}
		return a.Recruiter.ID < b.Recruiter.ID
	})

	if k > 0 && len(recs) > k {
		recs = recs[:k]
	}
	return recs
}

// Best returns the single top recommendation, or false when no recruiter is
// eligible for the position.
func Best(p *position.Position, recruiters []*recruiter.Recruiter) (Recommendation, bool) {
	top := Rank(p, recruiters, 1)
	if len(top) == 0 {
		return Recommendation{}, false
	}
	return top[0], true
}
