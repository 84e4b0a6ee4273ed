package recruiter

import (
	"slices"
	"time"
)

// DefaultCapacity is the hard cap applied when a recruiter row carries no
// explicit capacity.
const DefaultCapacity = 25

type Recruiter struct {
	ID             int64
	Name           string
	PrimaryZone    string
	SecondaryZones []string
	// Level is the capability level, ordinal 1..5.
	Level       int
	Capacity    int
	CurrentLoad int
	IsActive    bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available reports whether the recruiter participates in allocation.
func (r *Recruiter) Available() bool {
	return r.IsActive && r.DeletedAt == nil
}

// AtCapacity reports whether the recruiter can take no further positions.
func (r *Recruiter) AtCapacity() bool {
	return r.CurrentLoad >= r.Capacity
}

// Headroom returns how many more positions the recruiter can take.
func (r *Recruiter) Headroom() int {
	if r.AtCapacity() {
		return 0
	}
	return r.Capacity - r.CurrentLoad
}

// CoversZone reports whether the zone is the recruiter's primary or one of
// the secondary zones.
func (r *Recruiter) CoversZone(zone string) bool {
	return r.PrimaryZone == zone || slices.Contains(r.SecondaryZones, zone)
}

type FindParams struct {
	ActiveOnly bool
	Zone       string
	Limit      int
	Offset     int
}
