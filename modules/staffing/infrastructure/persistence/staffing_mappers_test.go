package persistence

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/talentops/staffmatch/modules/staffing/domain/aggregates/assignment"
	"github.com/talentops/staffmatch/modules/staffing/infrastructure/persistence/models"
)

func TestToDomainRecruiter_NullableDeletedAt(t *testing.T) {
	m := &models.Recruiter{
		ID:              3,
		Name:            "Rosa",
		PrimaryZone:     "Trujillo",
		SecondaryZones:  []string{"Lima"},
		CapabilityLevel: 4,
		Capacity:        20,
		CurrentLoad:     7,
		IsActive:        true,
	}

	entity := toDomainRecruiter(m)
	require.Equal(t, int64(3), entity.ID)
	require.Equal(t, 4, entity.Level)
	require.Nil(t, entity.DeletedAt)
	require.True(t, entity.Available())

	deleted := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	m.DeletedAt = pgtype.Timestamptz{Time: deleted, Valid: true}
	entity = toDomainRecruiter(m)
	require.NotNil(t, entity.DeletedAt)
	require.Equal(t, deleted, *entity.DeletedAt)
	require.False(t, entity.Available())
}

func TestToDomainPosition_NullableRecruiter(t *testing.T) {
	m := &models.Position{
		ID:     1,
		Title:  "Supervisor de Tienda",
		Zone:   "Arequipa",
		Tier:   "P1",
		Status: "open",
	}

	entity := toDomainPosition(m)
	require.Nil(t, entity.RecruiterID)
	require.False(t, entity.Assigned())

	m.RecruiterID = pgtype.Int8{Int64: 9, Valid: true}
	entity = toDomainPosition(m)
	require.NotNil(t, entity.RecruiterID)
	require.Equal(t, int64(9), *entity.RecruiterID)
}

func TestAssignmentBreakdownRoundTrip(t *testing.T) {
	src := &assignment.Assignment{
		Breakdown: map[string]float64{"zone": 0.4, "capability": 0.35, "headroom": 0.1},
	}
	raw, err := breakdownJSON(src)
	require.NoError(t, err)

	entity, err := toDomainAssignment(&models.Assignment{ScoreBreakdown: raw})
	require.NoError(t, err)
	require.Equal(t, src.Breakdown, entity.Breakdown)
}

func TestBreakdownJSON_NilMapIsEmptyObject(t *testing.T) {
	raw, err := breakdownJSON(&assignment.Assignment{})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(raw))

	entity, err := toDomainAssignment(&models.Assignment{})
	require.NoError(t, err)
	require.Empty(t, entity.Breakdown)
}
