package persistence

import (
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/talentops/staffmatch/modules/staffing/domain/aggregates/assignment"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
	"github.com/talentops/staffmatch/modules/staffing/infrastructure/persistence/models"
)

func toDomainRecruiter(m *models.Recruiter) *recruiter.Recruiter {
	out := &recruiter.Recruiter{
		ID:             m.ID,
		Name:           m.Name,
		PrimaryZone:    m.PrimaryZone,
		SecondaryZones: m.SecondaryZones,
		Level:          m.CapabilityLevel,
		Capacity:       m.Capacity,
		CurrentLoad:    m.CurrentLoad,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		out.DeletedAt = &t
	}
	return out
}

func toDomainPosition(m *models.Position) *position.Position {
	out := &position.Position{
		ID:            m.ID,
		Title:         m.Title,
		Zone:          m.Zone,
		Tier:          position.Tier(m.Tier),
		RequiredLevel: m.RequiredLevel,
		Headcount:     m.Headcount,
		Status:        position.Status(m.Status),
		OpenedAt:      m.OpenedAt,
		SLADeadline:   m.SLADeadline,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.RecruiterID.Valid {
		id := m.RecruiterID.Int64
		out.RecruiterID = &id
	}
	if m.ClosedAt.Valid {
		t := m.ClosedAt.Time
		out.ClosedAt = &t
	}
	return out
}

func toDomainAssignment(m *models.Assignment) (*assignment.Assignment, error) {
	breakdown := map[string]float64{}
	if len(m.ScoreBreakdown) > 0 {
		if err := json.Unmarshal(m.ScoreBreakdown, &breakdown); err != nil {
			return nil, errors.Wrap(err, "failed to decode score breakdown")
		}
	}
	return &assignment.Assignment{
		ID:           m.ID,
		PositionID:   m.PositionID,
		RecruiterID:  m.RecruiterID,
		Score:        m.Score,
		Breakdown:    breakdown,
		Explanation:  m.Explanation,
		Type:         assignment.Type(m.AssignmentType),
		Status:       assignment.Status(m.Status),
		CurrentStage: m.CurrentStage,
		AssignedAt:   m.AssignedAt,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func breakdownJSON(a *assignment.Assignment) ([]byte, error) {
	if a.Breakdown == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(a.Breakdown)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode score breakdown")
	}
	return raw, nil
}
