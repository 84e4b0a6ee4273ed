package matching

import (
	"time"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
)

// Queue labels group positions for reporting. They never gate eligibility.
type Queue string

const (
	QueueCritical  Queue = "critical"
	QueueTechnical Queue = "technical"
	QueueGeneral   Queue = "general"
)

// Priority constants. Escalation inside one SLA cycle keeps a lower tier at
// or below the next tier's base: a P3 a full 30 days overdue ties a fresh
// P2 at 60, it never passes it.
const (
	priorityBaseP1 = 100.0
	priorityBaseP2 = 60.0
	priorityBaseP3 = 30.0

	// escalation added per day past the SLA deadline
	escalationPerDayP1 = 3.0
	escalationPerDayP2 = 2.0
	escalationPerDayP3 = 1.0

	// already-handled work should not crowd out unassigned work
	assignedPenalty = 10.0
)

type PriorityInput struct {
	Tier          position.Tier
	OpenedAt      time.Time
	SLADeadline   time.Time
	RequiredLevel int
	HasRecruiter  bool
	// Now is injected so the classifier stays deterministic under test.
	Now time.Time
}

type PriorityResult struct {
	Score float64
	Queue Queue
}

// ClassifyPriority maps a position's urgency attributes to a numeric score
// (higher = more urgent) and a reporting queue. Pure and deterministic:
// identical input always yields identical output.
func ClassifyPriority(in PriorityInput) PriorityResult {
	var base, perDay float64
	switch in.Tier {
	case position.TierP1:
		base, perDay = priorityBaseP1, escalationPerDayP1
	case position.TierP2:
		base, perDay = priorityBaseP2, escalationPerDayP2
	default:
		base, perDay = priorityBaseP3, escalationPerDayP3
	}

	score := base + perDay*overdueDays(in.SLADeadline, in.Now)
	if in.HasRecruiter {
		score -= assignedPenalty
	}

	return PriorityResult{
		Score: score,
		Queue: queueForLevel(in.RequiredLevel),
	}
}

// overdueDays returns how many days the deadline has been missed by,
// fractional, zero when not yet due.
func overdueDays(deadline, now time.Time) float64 {
	if deadline.IsZero() || !now.After(deadline) {
		return 0
	}
	return now.Sub(deadline).Hours() / 24
}

func queueForLevel(level int) Queue {
	switch {
	case level >= 5:
		return QueueCritical
	case level >= 3:
		return QueueTechnical
	default:
		return QueueGeneral
	}
}
