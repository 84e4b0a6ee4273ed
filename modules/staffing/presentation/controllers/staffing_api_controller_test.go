package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/talentops/staffmatch/modules/staffing/domain/aggregates/assignment"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
	"github.com/talentops/staffmatch/modules/staffing/services"
	"github.com/talentops/staffmatch/pkg/application"
	"github.com/talentops/staffmatch/pkg/eventbus"
	"github.com/talentops/staffmatch/pkg/logging"

	"github.com/sirupsen/logrus"
)

// stubs embed the interface and override only what the exercised routes
// reach; an unexpected call panics and fails the test loudly.

type stubPositionRepo struct {
	position.Repository
	byID map[int64]*position.Position
}

func (s *stubPositionRepo) GetByID(ctx context.Context, id int64) (*position.Position, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, context.Canceled
}

func (s *stubPositionRepo) GetByIDs(ctx context.Context, ids []int64) ([]*position.Position, error) {
	out := make([]*position.Position, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPositionRepo) GetOpen(ctx context.Context) ([]*position.Position, error) {
	out := make([]*position.Position, 0, len(s.byID))
	for _, p := range s.byID {
		if p.Status == position.StatusOpen {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPositionRepo) AssignRecruiter(ctx context.Context, id int64, recruiterID int64, status position.Status) error {
	p := s.byID[id]
	p.RecruiterID = &recruiterID
	p.Status = status
	return nil
}

type stubRecruiterRepo struct {
	recruiter.Repository
	recruiters []*recruiter.Recruiter
}

func (s *stubRecruiterRepo) GetActive(ctx context.Context) ([]*recruiter.Recruiter, error) {
	return s.recruiters, nil
}

func (s *stubRecruiterRepo) ReserveBatch(ctx context.Context, batchID uuid.UUID, reservations []recruiter.Reservation) ([]recruiter.ReservationResult, error) {
	results := make([]recruiter.ReservationResult, 0, len(reservations))
	for _, res := range reservations {
		for _, r := range s.recruiters {
			if r.ID != res.RecruiterID {
				continue
			}
			if r.CurrentLoad+res.Increment > r.Capacity {
				results = append(results, recruiter.ReservationResult{RecruiterID: r.ID, Success: false, NewLoad: r.CurrentLoad})
			} else {
				r.CurrentLoad += res.Increment
				results = append(results, recruiter.ReservationResult{RecruiterID: r.ID, Success: true, NewLoad: r.CurrentLoad})
			}
		}
	}
	return results, nil
}

type stubAssignmentRepo struct {
	assignment.Repository
	created []*assignment.Assignment
}

func (s *stubAssignmentRepo) CreateBatch(ctx context.Context, assignments []*assignment.Assignment) error {
	for i, a := range assignments {
		a.ID = int64(len(s.created) + i + 1)
	}
	s.created = append(s.created, assignments...)
	return nil
}

type stubAuditRepo struct{}

func (s *stubAuditRepo) Insert(ctx context.Context, entry *assignment.AuditEntry) error {
	return nil
}

func newTestRouter(t *testing.T, positions map[int64]*position.Position, recruiters []*recruiter.Recruiter) *mux.Router {
	t.Helper()

	publisher := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.ErrorLevel))
	posRepo := &stubPositionRepo{byID: positions}
	recRepo := &stubRecruiterRepo{recruiters: recruiters}

	app := application.New(&application.ApplicationOptions{
		EventBus: publisher,
		Logger:   logging.ConsoleLogger(logrus.ErrorLevel),
	})
	app.RegisterServices(
		services.NewPositionService(posRepo, publisher),
		services.NewRecruiterService(recRepo, publisher),
		services.NewAssignmentService(posRepo, recRepo, &stubAssignmentRepo{}, &stubAuditRepo{}, publisher),
	)
	app.RegisterControllers(NewStaffingAPIController(app))

	router := mux.NewRouter()
	for _, controller := range app.Controllers() {
		controller.Register(router)
	}
	return router
}

func apiPosition(id int64) *position.Position {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &position.Position{
		ID:            id,
		Title:         "Analista",
		Zone:          "Lima",
		Tier:          position.TierP2,
		RequiredLevel: 3,
		Status:        position.StatusOpen,
		OpenedAt:      now,
		SLADeadline:   now.AddDate(0, 0, 15),
	}
}

func apiRecruiter(id int64, load int) *recruiter.Recruiter {
	return &recruiter.Recruiter{
		ID:          id,
		Name:        "Lucía",
		PrimaryZone: "Lima",
		Level:       3,
		Capacity:    10,
		CurrentLoad: load,
		IsActive:    true,
	}
}

func TestCreateAssignments_Created(t *testing.T) {
	router := newTestRouter(t,
		map[int64]*position.Position{1: apiPosition(1)},
		[]*recruiter.Recruiter{apiRecruiter(7, 0)},
	)

	body := bytes.NewBufferString(`{"position_id": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/assignments", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var payload struct {
		Success bool `json:"success"`
		Data    []struct {
			PositionID  int64   `json:"position_id"`
			RecruiterID int64   `json:"recruiter_id"`
			Score       float64 `json:"score"`
		} `json:"data"`
		Stats struct {
			TotalAssigned int `json:"total_assigned"`
		} `json:"stats"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	require.Equal(t, int64(1), payload.Data[0].PositionID)
	require.Equal(t, int64(7), payload.Data[0].RecruiterID)
	require.Greater(t, payload.Data[0].Score, 0.0)
	require.Equal(t, 1, payload.Stats.TotalAssigned)
	require.NotEmpty(t, payload.Message)
}

func TestCreateAssignments_BadBody(t *testing.T) {
	router := newTestRouter(t, map[int64]*position.Position{}, nil)

	cases := []string{
		`{`,
		`{}`,
		`{"position_id": 1, "position_ids": [2]}`,
		`{"position_id": -1}`,
		`{"unknown_field": true, "position_id": 1}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/assignments", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)

		var payload struct {
			Success bool   `json:"success"`
			Code    string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
		require.False(t, payload.Success)
		require.Equal(t, "STAFFING_INVALID_BODY", payload.Code)
	}
}

func TestCreateAssignments_ConflictWhenNoCapacity(t *testing.T) {
	router := newTestRouter(t,
		map[int64]*position.Position{1: apiPosition(1)},
		[]*recruiter.Recruiter{apiRecruiter(7, 10)},
	)

	req := httptest.NewRequest(http.MethodPost, "/assignments", bytes.NewBufferString(`{"position_id": 1}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)

	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, "STAFFING_NO_CAPACITY", payload.Code)
}

func TestGetSuggestions_OK(t *testing.T) {
	router := newTestRouter(t,
		map[int64]*position.Position{1: apiPosition(1)},
		[]*recruiter.Recruiter{apiRecruiter(1, 0), apiRecruiter(2, 5)},
	)

	req := httptest.NewRequest(http.MethodGet, "/positions/1/suggestions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Success bool `json:"success"`
		Data    []struct {
			RecruiterID int64              `json:"recruiter_id"`
			Score       float64            `json:"score"`
			Breakdown   map[string]float64 `json:"score_breakdown"`
			Explanation string             `json:"explanation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 2)
	require.Equal(t, int64(1), payload.Data[0].RecruiterID)
	require.NotEmpty(t, payload.Data[0].Explanation)
	require.Len(t, payload.Data[0].Breakdown, 3)
}

func TestGetSuggestions_NotFound(t *testing.T) {
	router := newTestRouter(t, map[int64]*position.Position{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/positions/42/suggestions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, "STAFFING_POSITION_NOT_FOUND", payload.Code)
}
