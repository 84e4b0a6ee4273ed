package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/talentops/staffmatch/modules/staffing/domain/aggregates/assignment"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
	"github.com/talentops/staffmatch/modules/staffing/domain/matching"
	"github.com/talentops/staffmatch/pkg/composables"
	"github.com/talentops/staffmatch/pkg/eventbus"
)

// SuggestionCount is how many ranked recruiters the read-only suggestion
// views return per position.
const SuggestionCount = 3

type AssignBatchInput struct {
	PositionIDs []int64
	Force       bool
}

type CreatedAssignment struct {
	Assignment    *assignment.Assignment
	RecruiterName string
}

type AssignStats struct {
	TotalAssigned int
	TotalFailed   int
	AverageScore  float64
	ByTier        map[string]int
}

type AssignBatchResult struct {
	Assignments []CreatedAssignment
	Stats       AssignStats
	Message     string
	Warning     string
}

type Suggestion struct {
	RecruiterID   int64
	RecruiterName string
	Score         float64
	Breakdown     map[string]float64
	Explanation   string
}

type AssignmentService struct {
	positions   position.Repository
	recruiters  recruiter.Repository
	assignments assignment.Repository
	audit       assignment.AuditRepository
	publisher   eventbus.EventBus

	// injected for deterministic tests
	clock func() time.Time
}

func NewAssignmentService(
	positions position.Repository,
	recruiters recruiter.Repository,
	assignments assignment.Repository,
	audit assignment.AuditRepository,
	publisher eventbus.EventBus,
) *AssignmentService {
	return &AssignmentService{
		positions:   positions,
		recruiters:  recruiters,
		assignments: assignments,
		audit:       audit,
		publisher:   publisher,
		clock:       time.Now,
	}
}

func (s *AssignmentService) Count(ctx context.Context, params *assignment.FindParams) (int64, error) {
	return s.assignments.Count(ctx, params)
}

func (s *AssignmentService) GetPaginated(ctx context.Context, params *assignment.FindParams) ([]*assignment.ListItem, error) {
	return s.assignments.GetPaginated(ctx, params)
}

// Suggest returns the top-ranked recruiters for one position without
// reserving capacity or persisting anything.
func (s *AssignmentService) Suggest(ctx context.Context, positionID int64) ([]Suggestion, error) {
	pos, err := s.positions.GetByID(ctx, positionID)
	if err != nil {
		return nil, NewNotFoundError("STAFFING_POSITION_NOT_FOUND", localize(ctx, "Assignments.Error.PositionNotFound", "position not found", nil))
	}
	if !pos.Allocatable() {
		return nil, NewConflictError("STAFFING_POSITION_CLOSED", localize(ctx, "Assignments.Error.PositionClosed", "position is no longer allocatable", nil))
	}

	active, err := s.recruiters.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	recs := matching.Rank(pos, active, SuggestionCount)
	out := make([]Suggestion, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Suggestion{
			RecruiterID:   rec.Recruiter.ID,
			RecruiterName: rec.Recruiter.Name,
			Score:         rec.Fit.Score,
			Breakdown:     rec.Fit.Breakdown,
			Explanation:   s.explain(ctx, rec.Fit.Reasons),
		})
	}
	return out, nil
}

// proposal is one position with its winning recruiter, pre-reservation.
type proposal struct {
	position  *position.Position
	recruiter *recruiter.Recruiter
	fit       matching.Fit
}

// AssignBatch runs the allocation workflow: resolve positions and
// recruiters, pick one winner per position, reserve capacity for the whole
// batch in a single atomic call, persist the surviving assignments and
// update position state. Capacity reserved for a batch that later fails to
// persist is released before returning.
func (s *AssignmentService) AssignBatch(ctx context.Context, input AssignBatchInput) (*AssignBatchResult, error) {
	logger := composables.UseLogger(ctx)

	positions, recruiters, err := s.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	// most urgent first, so contested capacity goes to urgent work
	now := s.clock()
	sortByPriority(positions, now)

	// Winner selection accounts for capacity claimed earlier in the same
	// batch: a recruiter whose headroom is exhausted by prior wins is not
	// eligible for later positions, and their load headroom score reflects
	// the pending increments.
	proposals := make([]proposal, 0, len(positions))
	planned := map[int64]int{}
	failedNoMatch := 0
	for _, pos := range positions {
		candidates := make([]*recruiter.Recruiter, 0, len(recruiters))
		for _, r := range recruiters {
			if inc := planned[r.ID]; inc > 0 {
				adjusted := *r
				adjusted.CurrentLoad += inc
				candidates = append(candidates, &adjusted)
				continue
			}
			candidates = append(candidates, r)
		}
		best, ok := matching.Best(pos, candidates)
		if !ok {
			failedNoMatch++
			continue
		}
		planned[best.Recruiter.ID]++
		proposals = append(proposals, proposal{position: pos, recruiter: best.Recruiter, fit: best.Fit})
	}
	if len(proposals) == 0 {
		return nil, NewConflictError("STAFFING_NO_CAPACITY", localize(ctx, "Assignments.Error.NoCapacity", "no recruiter has capacity for the requested positions", nil))
	}

	// one reservation call per batch, increments pre-aggregated per recruiter
	increments := map[int64]int{}
	for _, p := range proposals {
		increments[p.recruiter.ID]++
	}
	reservations := make([]recruiter.Reservation, 0, len(increments))
	for id, inc := range increments {
		reservations = append(reservations, recruiter.Reservation{RecruiterID: id, Increment: inc})
	}

	batchID := uuid.New()
	results, err := s.recruiters.ReserveBatch(ctx, batchID, reservations)
	if err != nil {
		return nil, NewPersistenceError("STAFFING_RESERVATION_FAILED", localize(ctx, "Assignments.Error.ReservationFailed", "capacity reservation failed", nil))
	}
	reserved := map[int64]bool{}
	failedRecruiterIDs := make([]int64, 0)
	for _, res := range results {
		reserved[res.RecruiterID] = res.Success
		if !res.Success {
			failedRecruiterIDs = append(failedRecruiterIDs, res.RecruiterID)
		}
	}

	accepted := make([]proposal, 0, len(proposals))
	failedNoCapacity := 0
	for _, p := range proposals {
		if reserved[p.recruiter.ID] {
			accepted = append(accepted, p)
		} else {
			failedNoCapacity++
		}
	}
	if len(accepted) == 0 {
		// nothing was applied for the dropped recruiters, no rollback needed
		return nil, NewConflictError("STAFFING_NO_CAPACITY", localize(ctx, "Assignments.Error.NoCapacity", "no recruiter has capacity for the requested positions", nil))
	}

	created := make([]CreatedAssignment, 0, len(accepted))
	records := make([]*assignment.Assignment, 0, len(accepted))
	for _, p := range accepted {
		record := &assignment.Assignment{
			PositionID:   p.position.ID,
			RecruiterID:  p.recruiter.ID,
			Score:        p.fit.Score,
			Breakdown:    p.fit.Breakdown,
			Explanation:  s.explain(ctx, p.fit.Reasons),
			Type:         assignment.TypeAuto,
			Status:       assignment.StatusActive,
			CurrentStage: assignment.StageInitial,
			AssignedAt:   now,
		}
		records = append(records, record)
		created = append(created, CreatedAssignment{Assignment: record, RecruiterName: p.recruiter.Name})
	}

	if err := s.assignments.CreateBatch(ctx, records); err != nil {
		logger.WithError(err).Error("assignment persistence failed, releasing reserved capacity")
		if relErr := s.recruiters.ReleaseBatch(ctx, batchID); relErr != nil {
			logger.WithError(relErr).Error("failed to release reserved capacity")
		}
		return nil, NewPersistenceError("STAFFING_PERSISTENCE_FAILED", localize(ctx, "Assignments.Error.PersistenceFailed", "failed to persist assignments", nil))
	}

	// assignment records are the system of record; a failed status update is
	// surfaced as a warning and reconciled later, never rolled back
	statusFailures := 0
	for _, p := range accepted {
		if err := s.positions.AssignRecruiter(ctx, p.position.ID, p.recruiter.ID, position.StatusInProgress); err != nil {
			statusFailures++
			logger.WithError(err).Warnf("failed to update status of position %d", p.position.ID)
		}
	}

	for _, record := range records {
		s.publisher.Publish("assignment.created", record)
	}

	totalFailed := failedNoMatch + failedNoCapacity
	stats := buildStats(accepted, totalFailed)

	if err := s.audit.Insert(ctx, &assignment.AuditEntry{
		BatchID:            batchID.String(),
		TotalAssigned:      stats.TotalAssigned,
		TotalFailed:        stats.TotalFailed,
		FailedRecruiterIDs: failedRecruiterIDs,
		AverageScore:       stats.AverageScore,
		ByTier:             stats.ByTier,
	}); err != nil {
		logger.WithError(err).Warn("failed to write assignment audit entry")
	}

	result := &AssignBatchResult{
		Assignments: created,
		Stats:       stats,
		Message:     s.summaryMessage(ctx, stats),
	}
	if totalFailed > 0 {
		result.Warning = localize(ctx, "Assignments.Warning.CapacityShortfall",
			"{{.Count}} position(s) could not be assigned for lack of capacity",
			map[string]interface{}{"Count": totalFailed})
	}
	if statusFailures > 0 {
		warning := localize(ctx, "Assignments.Warning.StatusUpdate",
			"{{.Count}} position status update(s) failed and will be reconciled later",
			map[string]interface{}{"Count": statusFailures})
		if result.Warning != "" {
			result.Warning += "; " + warning
		} else {
			result.Warning = warning
		}
	}
	return result, nil
}

// resolve loads the target positions and the active recruiter set. The two
// reads are independent and issued concurrently.
func (s *AssignmentService) resolve(ctx context.Context, input AssignBatchInput) ([]*position.Position, []*recruiter.Recruiter, error) {
	var (
		positions  []*position.Position
		recruiters []*recruiter.Recruiter
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if len(input.PositionIDs) > 0 {
			positions, err = s.positions.GetByIDs(gctx, input.PositionIDs)
		} else {
			positions, err = s.positions.GetOpen(gctx)
		}
		return err
	})
	g.Go(func() error {
		var err error
		recruiters, err = s.recruiters.GetActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, NewPersistenceError("STAFFING_READ_FAILED", localize(ctx, "Assignments.Error.ReadFailed", "failed to load positions or recruiters", nil))
	}

	if len(input.PositionIDs) > 0 && len(positions) < len(input.PositionIDs) {
		return nil, nil, NewNotFoundError("STAFFING_POSITION_NOT_FOUND", localize(ctx, "Assignments.Error.PositionNotFound", "one or more positions do not exist", nil))
	}
	if len(positions) == 0 {
		return nil, nil, NewNotFoundError("STAFFING_NO_POSITIONS", localize(ctx, "Assignments.Error.NoPositions", "no matching positions", nil))
	}

	eligible := make([]*position.Position, 0, len(positions))
	conflicted := 0
	for _, pos := range positions {
		switch {
		case pos.Status == position.StatusOpen:
			eligible = append(eligible, pos)
		case input.Force && pos.Allocatable():
			eligible = append(eligible, pos)
		case pos.Assigned() || pos.Status == position.StatusInProgress:
			conflicted++
		}
	}
	if len(eligible) == 0 {
		if conflicted > 0 {
			return nil, nil, NewConflictError("STAFFING_ALREADY_ASSIGNED", localize(ctx, "Assignments.Error.AlreadyAssigned", "position is already assigned; use force to reassign", nil))
		}
		return nil, nil, NewNotFoundError("STAFFING_NO_POSITIONS", localize(ctx, "Assignments.Error.NoPositions", "no matching positions", nil))
	}

	if len(recruiters) == 0 {
		return nil, nil, NewConflictError("STAFFING_NO_RECRUITERS", localize(ctx, "Assignments.Error.NoRecruiters", "no active recruiters available", nil))
	}
	return eligible, recruiters, nil
}

func (s *AssignmentService) explain(ctx context.Context, reasons []string) string {
	labels := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		switch reason {
		case matching.CriterionZone:
			labels = append(labels, localize(ctx, "Assignments.Reasons.Zone", "zone match", nil))
		case matching.CriterionCapability:
			labels = append(labels, localize(ctx, "Assignments.Reasons.Capability", "capability fit", nil))
		case matching.CriterionHeadroom:
			labels = append(labels, localize(ctx, "Assignments.Reasons.Headroom", "low current load", nil))
		}
	}
	return strings.Join(labels, ", ")
}

func (s *AssignmentService) summaryMessage(ctx context.Context, stats AssignStats) string {
	data := map[string]interface{}{
		"Assigned": stats.TotalAssigned,
		"Failed":   stats.TotalFailed,
	}
	if stats.TotalFailed == 0 {
		return localize(ctx, "Assignments.Message.Full",
			"all {{.Assigned}} position(s) assigned", data)
	}
	return localize(ctx, "Assignments.Message.Partial",
		"{{.Assigned}} position(s) assigned, {{.Failed}} failed", data)
}

func sortByPriority(positions []*position.Position, now time.Time) {
	scores := make(map[int64]float64, len(positions))
	for _, pos := range positions {
		scores[pos.ID] = matching.ClassifyPriority(matching.PriorityInput{
			Tier:          pos.Tier,
			OpenedAt:      pos.OpenedAt,
			SLADeadline:   pos.SLADeadline,
			RequiredLevel: pos.RequiredLevel,
			HasRecruiter:  pos.Assigned(),
			Now:           now,
		}).Score
	}
	sort.SliceStable(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if scores[a.ID] != scores[b.ID] {
			return scores[a.ID] > scores[b.ID]
		}
		return a.ID < b.ID
	})
}

func buildStats(accepted []proposal, totalFailed int) AssignStats {
	stats := AssignStats{
		TotalAssigned: len(accepted),
		TotalFailed:   totalFailed,
		ByTier:        map[string]int{},
	}
	var sum float64
	for _, p := range accepted {
		sum += p.fit.Score
		stats.ByTier[string(p.position.Tier)]++
	}
	if len(accepted) > 0 {
		stats.AverageScore = sum / float64(len(accepted))
	}
	return stats
}
