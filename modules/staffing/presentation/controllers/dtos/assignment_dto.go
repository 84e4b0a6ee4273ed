package dtos

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/talentops/staffmatch/modules/staffing/services"
)

var validate = validator.New()

// AssignRequest triggers an allocation batch. Exactly one of PositionID and
// PositionIDs must be set.
type AssignRequest struct {
	PositionID  *int64  `json:"position_id" validate:"omitempty,gt=0"`
	PositionIDs []int64 `json:"position_ids" validate:"omitempty,min=1,dive,gt=0"`
	Force       bool    `json:"force"`
}

func (d *AssignRequest) Validate() error {
	return validate.Struct(d)
}

// TargetIDs collapses the two accepted input shapes into one id list.
func (d *AssignRequest) TargetIDs() []int64 {
	if d.PositionID != nil {
		return []int64{*d.PositionID}
	}
	return d.PositionIDs
}

// ExactlyOneTarget reports whether exactly one of position_id/position_ids
// was supplied.
func (d *AssignRequest) ExactlyOneTarget() bool {
	return (d.PositionID != nil) != (len(d.PositionIDs) > 0)
}

type AssignmentResponse struct {
	ID            int64              `json:"id"`
	PositionID    int64              `json:"position_id"`
	RecruiterID   int64              `json:"recruiter_id"`
	RecruiterName string             `json:"recruiter_name"`
	Score         float64            `json:"score"`
	Breakdown     map[string]float64 `json:"score_breakdown"`
	Explanation   string             `json:"explanation"`
	Type          string             `json:"assignment_type"`
	Status        string             `json:"status"`
	AssignedAt    time.Time          `json:"assigned_at"`
}

type AssignStatsResponse struct {
	TotalAssigned int            `json:"total_assigned"`
	TotalFailed   int            `json:"total_failed"`
	AverageScore  float64        `json:"average_score"`
	ByPriority    map[string]int `json:"by_priority"`
}

type AssignBatchResponse struct {
	Success bool                 `json:"success"`
	Data    []AssignmentResponse `json:"data"`
	Stats   AssignStatsResponse  `json:"stats"`
	Message string               `json:"message"`
	Warning string               `json:"warning,omitempty"`
}

func NewAssignBatchResponse(result *services.AssignBatchResult) AssignBatchResponse {
	data := make([]AssignmentResponse, 0, len(result.Assignments))
	for _, created := range result.Assignments {
		a := created.Assignment
		data = append(data, AssignmentResponse{
			ID:            a.ID,
			PositionID:    a.PositionID,
			RecruiterID:   a.RecruiterID,
			RecruiterName: created.RecruiterName,
			Score:         a.Score,
			Breakdown:     a.Breakdown,
			Explanation:   a.Explanation,
			Type:          string(a.Type),
			Status:        string(a.Status),
			AssignedAt:    a.AssignedAt,
		})
	}
	return AssignBatchResponse{
		Success: true,
		Data:    data,
		Stats: AssignStatsResponse{
			TotalAssigned: result.Stats.TotalAssigned,
			TotalFailed:   result.Stats.TotalFailed,
			AverageScore:  result.Stats.AverageScore,
			ByPriority:    result.Stats.ByTier,
		},
		Message: result.Message,
		Warning: result.Warning,
	}
}

type AssignmentListItemResponse struct {
	AssignmentResponse
	PositionTitle string `json:"position_title"`
	PositionZone  string `json:"position_zone"`
	CurrentStage  string `json:"current_stage"`
}

type SuggestionResponse struct {
	RecruiterID   int64              `json:"recruiter_id"`
	RecruiterName string             `json:"recruiter_name"`
	Score         float64            `json:"score"`
	Breakdown     map[string]float64 `json:"score_breakdown"`
	Explanation   string             `json:"explanation"`
}
