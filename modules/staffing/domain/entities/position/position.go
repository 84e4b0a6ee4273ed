package position

import (
	"time"
)

// Status is the position lifecycle state.
// open -> in_progress -> filled | cancelled | on_hold
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusFilled     Status = "filled"
	StatusCancelled  Status = "cancelled"
	StatusOnHold     Status = "on_hold"
)

// Tier is the priority tier. P1 outranks P2 outranks P3; each tier carries
// an SLA budget in days used to derive the deadline at ingestion time.
type Tier string

const (
	TierP1 Tier = "P1"
	TierP2 Tier = "P2"
	TierP3 Tier = "P3"
)

// SLADays returns the tier's SLA budget in days.
func (t Tier) SLADays() int {
	switch t {
	case TierP1:
		return 7
	case TierP2:
		return 15
	default:
		return 30
	}
}

type Position struct {
	ID            int64
	Title         string
	Zone          string
	Tier          Tier
	RequiredLevel int
	Headcount     int
	Status        Status
	RecruiterID   *int64
	OpenedAt      time.Time
	SLADeadline   time.Time
	ClosedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Assigned reports whether the position currently has an owning recruiter.
func (p *Position) Assigned() bool {
	return p.RecruiterID != nil
}

// Allocatable reports whether the position may participate in allocation at
// all. Filled and cancelled positions are excluded outright.
func (p *Position) Allocatable() bool {
	return p.Status != StatusFilled && p.Status != StatusCancelled
}

type FindParams struct {
	IDs    []int64
	Status Status
	Zone   string
	Limit  int
	Offset int
}
