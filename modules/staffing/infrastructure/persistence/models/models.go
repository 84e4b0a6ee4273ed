package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Recruiter struct {
	ID              int64
	Name            string
	PrimaryZone     string
	SecondaryZones  []string
	CapabilityLevel int
	Capacity        int
	CurrentLoad     int
	IsActive        bool
	DeletedAt       pgtype.Timestamptz
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Position struct {
	ID            int64
	Title         string
	Zone          string
	Tier          string
	RequiredLevel int
	Headcount     int
	Status        string
	RecruiterID   pgtype.Int8
	OpenedAt      time.Time
	SLADeadline   time.Time
	ClosedAt      pgtype.Timestamptz
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Assignment struct {
	ID             int64
	PositionID     int64
	RecruiterID    int64
	Score          float64
	ScoreBreakdown []byte
	Explanation    string
	AssignmentType string
	Status         string
	CurrentStage   string
	AssignedAt     time.Time
	CreatedAt      time.Time
}
