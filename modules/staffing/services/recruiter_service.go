package services

import (
	"context"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
	"github.com/talentops/staffmatch/pkg/eventbus"
)

type RecruiterService struct {
	repo      recruiter.Repository
	publisher eventbus.EventBus
}

func NewRecruiterService(repo recruiter.Repository, publisher eventbus.EventBus) *RecruiterService {
	return &RecruiterService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *RecruiterService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *RecruiterService) GetByID(ctx context.Context, id int64) (*recruiter.Recruiter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RecruiterService) GetActive(ctx context.Context) ([]*recruiter.Recruiter, error) {
	return s.repo.GetActive(ctx)
}

func (s *RecruiterService) GetPaginated(ctx context.Context, params *recruiter.FindParams) ([]*recruiter.Recruiter, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *RecruiterService) Create(ctx context.Context, data *recruiter.Recruiter) error {
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("recruiter.created", data)
	return nil
}

func (s *RecruiterService) Update(ctx context.Context, data *recruiter.Recruiter) error {
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("recruiter.updated", data)
	return nil
}
