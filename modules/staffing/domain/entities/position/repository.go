package position

import "context"

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Position, error)
	GetByID(ctx context.Context, id int64) (*Position, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Position, error)
	GetOpen(ctx context.Context) ([]*Position, error)
	Create(ctx context.Context, data *Position) error
	Update(ctx context.Context, data *Position) error
	// AssignRecruiter moves the position into the given status and sets the
	// owning recruiter in one statement.
	AssignRecruiter(ctx context.Context, id int64, recruiterID int64, status Status) error
}
