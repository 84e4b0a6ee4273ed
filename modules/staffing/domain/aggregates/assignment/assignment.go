package assignment

import (
	"time"
)

type Type string

const (
	TypeAuto   Type = "auto"
	TypeManual Type = "manual"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusSuperseded Status = "superseded"
)

const StageInitial = "sourcing"

// Assignment links one position to one recruiter with the score that won the
// match. Immutable once created except for status/stage transitions; a
// reassignment supersedes the prior active record, never duplicates it.
type Assignment struct {
	ID           int64
	PositionID   int64
	RecruiterID  int64
	Score        float64
	Breakdown    map[string]float64
	Explanation  string
	Type         Type
	Status       Status
	CurrentStage string
	AssignedAt   time.Time
	CreatedAt    time.Time
}

type FindParams struct {
	PositionID  int64
	RecruiterID int64
	Status      Status
	Limit       int
	Offset      int
}

// ListItem is an assignment row joined with display fields for API listings.
type ListItem struct {
	Assignment
	RecruiterName string
	PositionTitle string
	PositionZone  string
}
