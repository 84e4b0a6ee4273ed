package services

import (
	"context"
	"time"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/domain/matching"
	"github.com/talentops/staffmatch/pkg/eventbus"
)

// PositionView decorates a position with its computed urgency for
// operator-facing listings. The queue label groups work for reporting only.
type PositionView struct {
	*position.Position
	PriorityScore float64
	Queue         matching.Queue
}

type PositionService struct {
	repo      position.Repository
	publisher eventbus.EventBus
	clock     func() time.Time
}

func NewPositionService(repo position.Repository, publisher eventbus.EventBus) *PositionService {
	return &PositionService{
		repo:      repo,
		publisher: publisher,
		clock:     time.Now,
	}
}

func (s *PositionService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *PositionService) GetByID(ctx context.Context, id int64) (*PositionView, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(entity), nil
}

func (s *PositionService) GetPaginated(ctx context.Context, params *position.FindParams) ([]*PositionView, error) {
	entities, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]*PositionView, 0, len(entities))
	for _, entity := range entities {
		out = append(out, s.decorate(entity))
	}
	return out, nil
}

func (s *PositionService) Create(ctx context.Context, data *position.Position) error {
	if data.Status == "" {
		data.Status = position.StatusOpen
	}
	if data.OpenedAt.IsZero() {
		data.OpenedAt = s.clock()
	}
	if data.SLADeadline.IsZero() {
		data.SLADeadline = data.OpenedAt.AddDate(0, 0, data.Tier.SLADays())
	}
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("position.created", data)
	return nil
}

func (s *PositionService) Update(ctx context.Context, data *position.Position) error {
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("position.updated", data)
	return nil
}

func (s *PositionService) decorate(entity *position.Position) *PositionView {
	result := matching.ClassifyPriority(matching.PriorityInput{
		Tier:          entity.Tier,
		OpenedAt:      entity.OpenedAt,
		SLADeadline:   entity.SLADeadline,
		RequiredLevel: entity.RequiredLevel,
		HasRecruiter:  entity.Assigned(),
		Now:           s.clock(),
	})
	return &PositionView{
		Position:      entity,
		PriorityScore: result.Score,
		Queue:         result.Queue,
	}
}
