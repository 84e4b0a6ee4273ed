package assignment

import "context"

type Repository interface {
	// Count honors the same filters as GetPaginated; Limit and Offset are
	// ignored. A nil params counts everything.
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*ListItem, error)
	GetByID(ctx context.Context, id int64) (*Assignment, error)
	GetActiveByPosition(ctx context.Context, positionID int64) (*Assignment, error)
	// CreateBatch persists all assignments in one transaction, superseding any
	// prior active assignment of the same positions. Either every record lands
	// or none do.
	CreateBatch(ctx context.Context, assignments []*Assignment) error
}

// AuditEntry is the immutable record emitted once per allocation batch.
type AuditEntry struct {
	ID                 int64
	BatchID            string
	TotalAssigned      int
	TotalFailed        int
	FailedRecruiterIDs []int64
	AverageScore       float64
	ByTier             map[string]int
}

type AuditRepository interface {
	Insert(ctx context.Context, entry *AuditEntry) error
}
