package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/talentops/staffmatch/modules/staffing/domain/aggregates/assignment"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
	"github.com/talentops/staffmatch/modules/staffing/presentation/controllers/dtos"
	"github.com/talentops/staffmatch/modules/staffing/services"
	"github.com/talentops/staffmatch/pkg/application"
	"github.com/talentops/staffmatch/pkg/composables"
	"github.com/talentops/staffmatch/pkg/configuration"
	"github.com/talentops/staffmatch/pkg/httpapi"
)

type StaffingAPIController struct {
	app         application.Application
	assignments *services.AssignmentService
	positions   *services.PositionService
	recruiters  *services.RecruiterService
	basePath    string
}

func NewStaffingAPIController(app application.Application) application.Controller {
	return &StaffingAPIController{
		app:         app,
		assignments: app.Service(services.AssignmentService{}).(*services.AssignmentService),
		positions:   app.Service(services.PositionService{}).(*services.PositionService),
		recruiters:  app.Service(services.RecruiterService{}).(*services.RecruiterService),
		basePath:    "/",
	}
}

func (c *StaffingAPIController) Key() string {
	return c.basePath
}

func (c *StaffingAPIController) Register(r *mux.Router) {
	r.HandleFunc("/assignments", c.CreateAssignments).Methods(http.MethodPost)
	r.HandleFunc("/assignments", c.ListAssignments).Methods(http.MethodGet)

	r.HandleFunc("/positions", c.ListPositions).Methods(http.MethodGet)
	r.HandleFunc("/positions/{id}/suggestions", c.GetSuggestions).Methods(http.MethodGet)

	r.HandleFunc("/recruiters", c.ListRecruiters).Methods(http.MethodGet)
}

func (c *StaffingAPIController) CreateAssignments(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	var body dtos.AssignRequest
	if err := decodeJSON(r.Body, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "invalid json body")
		return
	}
	if !body.ExactlyOneTarget() {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "exactly one of position_id and position_ids is required")
		return
	}
	if err := body.Validate(); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", err.Error())
		return
	}

	result, err := c.assignments.AssignBatch(r.Context(), services.AssignBatchInput{
		PositionIDs: body.TargetIDs(),
		Force:       body.Force,
	})
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusCreated, dtos.NewAssignBatchResponse(result))
}

func (c *StaffingAPIController) ListAssignments(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	params := &assignment.FindParams{}
	query := r.URL.Query()
	if v := query.Get("position_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_QUERY", "position_id is invalid")
			return
		}
		params.PositionID = id
	}
	if v := query.Get("recruiter_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_QUERY", "recruiter_id is invalid")
			return
		}
		params.RecruiterID = id
	}
	if v := query.Get("status"); v != "" {
		params.Status = assignment.Status(v)
	}
	page, perPage := pagination(r)
	params.Limit = perPage
	params.Offset = (page - 1) * perPage

	items, err := c.assignments.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	total, err := c.assignments.Count(r.Context(), params)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	data := make([]dtos.AssignmentListItemResponse, 0, len(items))
	for _, item := range items {
		data = append(data, dtos.AssignmentListItemResponse{
			AssignmentResponse: dtos.AssignmentResponse{
				ID:            item.ID,
				PositionID:    item.PositionID,
				RecruiterID:   item.RecruiterID,
				RecruiterName: item.RecruiterName,
				Score:         item.Score,
				Breakdown:     item.Breakdown,
				Explanation:   item.Explanation,
				Type:          string(item.Type),
				Status:        string(item.Status),
				AssignedAt:    item.AssignedAt,
			},
			PositionTitle: item.PositionTitle,
			PositionZone:  item.PositionZone,
			CurrentStage:  item.CurrentStage,
		})
	}

	type listResponse struct {
		Success bool                              `json:"success"`
		Data    []dtos.AssignmentListItemResponse `json:"data"`
		Page    int                               `json:"page"`
		PerPage int                               `json:"per_page"`
		Total   int64                             `json:"total"`
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    data,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

func (c *StaffingAPIController) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_QUERY", "invalid id")
		return
	}

	suggestions, err := c.assignments.Suggest(r.Context(), id)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	data := make([]dtos.SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		data = append(data, dtos.SuggestionResponse{
			RecruiterID:   s.RecruiterID,
			RecruiterName: s.RecruiterName,
			Score:         s.Score,
			Breakdown:     s.Breakdown,
			Explanation:   s.Explanation,
		})
	}

	type suggestionsResponse struct {
		Success bool                      `json:"success"`
		Data    []dtos.SuggestionResponse `json:"data"`
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, suggestionsResponse{Success: true, Data: data})
}

func (c *StaffingAPIController) ListPositions(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	params := &position.FindParams{}
	query := r.URL.Query()
	if v := query.Get("status"); v != "" {
		params.Status = position.Status(v)
	}
	if v := query.Get("zone"); v != "" {
		params.Zone = v
	}
	page, perPage := pagination(r)
	params.Limit = perPage
	params.Offset = (page - 1) * perPage

	views, err := c.positions.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	type positionResponse struct {
		ID            int64   `json:"id"`
		Title         string  `json:"title"`
		Zone          string  `json:"zone"`
		Tier          string  `json:"tier"`
		RequiredLevel int     `json:"required_level"`
		Status        string  `json:"status"`
		RecruiterID   *int64  `json:"recruiter_id,omitempty"`
		PriorityScore float64 `json:"priority_score"`
		Queue         string  `json:"queue"`
	}
	data := make([]positionResponse, 0, len(views))
	for _, view := range views {
		data = append(data, positionResponse{
			ID:            view.ID,
			Title:         view.Title,
			Zone:          view.Zone,
			Tier:          string(view.Tier),
			RequiredLevel: view.RequiredLevel,
			Status:        string(view.Status),
			RecruiterID:   view.RecruiterID,
			PriorityScore: view.PriorityScore,
			Queue:         string(view.Queue),
		})
	}

	type listResponse struct {
		Success bool               `json:"success"`
		Data    []positionResponse `json:"data"`
		Page    int                `json:"page"`
		PerPage int                `json:"per_page"`
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, listResponse{Success: true, Data: data, Page: page, PerPage: perPage})
}

func (c *StaffingAPIController) ListRecruiters(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	params := &recruiter.FindParams{ActiveOnly: true}
	if v := r.URL.Query().Get("zone"); v != "" {
		params.Zone = v
	}
	page, perPage := pagination(r)
	params.Limit = perPage
	params.Offset = (page - 1) * perPage

	rows, err := c.recruiters.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	type recruiterResponse struct {
		ID          int64    `json:"id"`
		Name        string   `json:"name"`
		PrimaryZone string   `json:"primary_zone"`
		Zones       []string `json:"secondary_zones"`
		Level       int      `json:"capability_level"`
		Capacity    int      `json:"capacity"`
		CurrentLoad int      `json:"current_load"`
		Headroom    int      `json:"headroom"`
	}
	data := make([]recruiterResponse, 0, len(rows))
	for _, row := range rows {
		data = append(data, recruiterResponse{
			ID:          row.ID,
			Name:        row.Name,
			PrimaryZone: row.PrimaryZone,
			Zones:       row.SecondaryZones,
			Level:       row.Level,
			Capacity:    row.Capacity,
			CurrentLoad: row.CurrentLoad,
			Headroom:    row.Headroom(),
		})
	}

	type listResponse struct {
		Success bool                `json:"success"`
		Data    []recruiterResponse `json:"data"`
		Page    int                 `json:"page"`
		PerPage int                 `json:"per_page"`
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, listResponse{Success: true, Data: data, Page: page, PerPage: perPage})
}

func pagination(r *http.Request) (page, perPage int) {
	conf := configuration.Use()
	page = 1
	perPage = conf.PageSize
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
		}
	}
	if perPage > conf.MaxPageSize {
		perPage = conf.MaxPageSize
	}
	return page, perPage
}

func decodeJSON(body io.ReadCloser, out any) error {
	defer func() { _ = body.Close() }()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeServiceError(w http.ResponseWriter, requestID string, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		writeAPIError(w, svcErr.Status, requestID, svcErr.Code, svcErr.Message)
		return
	}
	writeAPIError(w, http.StatusInternalServerError, requestID, "STAFFING_INTERNAL", err.Error())
}

func writeAPIError(w http.ResponseWriter, status int, requestID, code, message string) {
	meta := map[string]string{}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	_ = httpapi.WriteError(w, status, code, message, meta)
}
