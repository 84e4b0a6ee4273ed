package persistence

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/talentops/staffmatch/modules/staffing/domain/aggregates/assignment"
	"github.com/talentops/staffmatch/pkg/composables"
)

const auditInsertQuery = `
        INSERT INTO assignment_audit (
            batch_id, total_assigned, total_failed, failed_recruiter_ids, average_score, by_tier
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

type PgAuditRepository struct{}

func NewAuditRepository() assignment.AuditRepository {
	return &PgAuditRepository{}
}

func (g *PgAuditRepository) Insert(ctx context.Context, entry *assignment.AuditEntry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	byTier := entry.ByTier
	if byTier == nil {
		byTier = map[string]int{}
	}
	raw, err := json.Marshal(byTier)
	if err != nil {
		return errors.Wrap(err, "failed to encode tier breakdown")
	}

	failed := entry.FailedRecruiterIDs
	if failed == nil {
		failed = []int64{}
	}

	return tx.QueryRow(
		ctx,
		auditInsertQuery,
		entry.BatchID,
		entry.TotalAssigned,
		entry.TotalFailed,
		failed,
		entry.AverageScore,
		raw,
	).Scan(&entry.ID)
}
