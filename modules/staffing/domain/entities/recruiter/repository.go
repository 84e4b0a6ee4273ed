package recruiter

import (
	"context"

	"github.com/google/uuid"
)

// Reservation is one per-recruiter increment inside a batch. Recruiter ids
// never repeat within one batch; callers pre-aggregate.
type Reservation struct {
	RecruiterID int64
	Increment   int
}

// ReservationResult reports the outcome for one recruiter of the batch.
// NewLoad reflects the applied increment when Success is true and the
// untouched load when it is false.
type ReservationResult struct {
	RecruiterID int64
	Success     bool
	NewLoad     int
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Recruiter, error)
	GetByID(ctx context.Context, id int64) (*Recruiter, error)
	GetActive(ctx context.Context) ([]*Recruiter, error)
	Create(ctx context.Context, data *Recruiter) error
	Update(ctx context.Context, data *Recruiter) error

	// ReserveBatch atomically checks and applies every increment of the batch
	// in one transaction. Recruiters whose post-increment load would exceed
	// capacity are rejected; their load is untouched. Accepted increments are
	// recorded in the reservation ledger under batchID so a later release of
	// the same batch is idempotent.
	ReserveBatch(ctx context.Context, batchID uuid.UUID, reservations []Reservation) ([]ReservationResult, error)

	// ReleaseBatch compensates a previously applied batch. Releasing a batch
	// that was never applied, or releasing it twice, is a no-op.
	ReleaseBatch(ctx context.Context, batchID uuid.UUID) error

	// DecrementLoad releases capacity directly, clamped at zero. Manual
	// correction path; batch rollback goes through ReleaseBatch.
	DecrementLoad(ctx context.Context, id int64, amount int) error
}
