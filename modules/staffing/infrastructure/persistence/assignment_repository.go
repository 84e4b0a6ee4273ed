package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/talentops/staffmatch/modules/staffing/domain/aggregates/assignment"
	"github.com/talentops/staffmatch/modules/staffing/infrastructure/persistence/models"
	"github.com/talentops/staffmatch/pkg/composables"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
)

const (
	assignmentFindQuery = `
        SELECT
            a.id,
            a.position_id,
            a.recruiter_id,
            a.score,
            a.score_breakdown,
            a.explanation,
            a.assignment_type,
            a.status,
            a.current_stage,
            a.assigned_at,
            a.created_at
        FROM assignments a`

	assignmentListQuery = `
        SELECT
            a.id,
            a.position_id,
            a.recruiter_id,
            a.score,
            a.score_breakdown,
            a.explanation,
            a.assignment_type,
            a.status,
            a.current_stage,
            a.assigned_at,
            a.created_at,
            r.name,
            p.title,
            p.zone
        FROM assignments a
        JOIN recruiters r ON r.id = a.recruiter_id
        JOIN positions p ON p.id = a.position_id`

	assignmentCountQuery = `SELECT COUNT(a.id) FROM assignments a`

	assignmentSupersedeQuery = `
        UPDATE assignments SET status = 'superseded'
        WHERE position_id = $1 AND status = 'active'`

	assignmentInsertQuery = `
        INSERT INTO assignments (
            position_id, recruiter_id, score, score_breakdown, explanation,
            assignment_type, status, current_stage, assigned_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
)

type PgAssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &PgAssignmentRepository{}
}

func (g *PgAssignmentRepository) Count(ctx context.Context, params *assignment.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := assignmentFilters(params)
	var count int64
	query := assignmentCountQuery + " WHERE " + strings.Join(where, " AND ")
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// assignmentFilters builds the WHERE fragments shared by Count and
// GetPaginated, so the listing and its total always agree.
func assignmentFilters(params *assignment.FindParams) ([]string, []interface{}) {
	where := []string{"1=1"}
	args := []interface{}{}
	if params == nil {
		return where, args
	}
	if params.PositionID != 0 {
		args = append(args, params.PositionID)
		where = append(where, fmt.Sprintf("a.position_id = $%d", len(args)))
	}
	if params.RecruiterID != 0 {
		args = append(args, params.RecruiterID)
		where = append(where, fmt.Sprintf("a.recruiter_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	return where, args
}

func (g *PgAssignmentRepository) GetPaginated(ctx context.Context, params *assignment.FindParams) ([]*assignment.ListItem, error) {
	if params == nil {
		params = &assignment.FindParams{}
	}

	where, args := assignmentFilters(params)
	query := assignmentListQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY a.assigned_at DESC, a.id DESC"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*assignment.ListItem, 0)
	for rows.Next() {
		var m models.Assignment
		var item assignment.ListItem
		if err := rows.Scan(
			&m.ID,
			&m.PositionID,
			&m.RecruiterID,
			&m.Score,
			&m.ScoreBreakdown,
			&m.Explanation,
			&m.AssignmentType,
			&m.Status,
			&m.CurrentStage,
			&m.AssignedAt,
			&m.CreatedAt,
			&item.RecruiterName,
			&item.PositionTitle,
			&item.PositionZone,
		); err != nil {
			return nil, err
		}
		entity, err := toDomainAssignment(&m)
		if err != nil {
			return nil, err
		}
		item.Assignment = *entity
		out = append(out, &item)
	}
	return out, rows.Err()
}

func (g *PgAssignmentRepository) GetByID(ctx context.Context, id int64) (*assignment.Assignment, error) {
	return g.queryOne(ctx, assignmentFindQuery+` WHERE a.id = $1`, id)
}

func (g *PgAssignmentRepository) GetActiveByPosition(ctx context.Context, positionID int64) (*assignment.Assignment, error) {
	return g.queryOne(ctx, assignmentFindQuery+` WHERE a.position_id = $1 AND a.status = 'active'`, positionID)
}

// CreateBatch supersedes prior active assignments of the touched positions
// and inserts the new records, all in one transaction.
func (g *PgAssignmentRepository) CreateBatch(ctx context.Context, assignments []*assignment.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			if _, err := tx.Exec(txCtx, assignmentSupersedeQuery, a.PositionID); err != nil {
				return err
			}
			raw, err := breakdownJSON(a)
			if err != nil {
				return err
			}
			if err := tx.QueryRow(
				txCtx,
				assignmentInsertQuery,
				a.PositionID,
				a.RecruiterID,
				a.Score,
				raw,
				a.Explanation,
				string(a.Type),
				string(a.Status),
				a.CurrentStage,
				a.AssignedAt,
			).Scan(&a.ID, &a.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *PgAssignmentRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.Assignment
	err = tx.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.PositionID,
		&m.RecruiterID,
		&m.Score,
		&m.ScoreBreakdown,
		&m.Explanation,
		&m.AssignmentType,
		&m.Status,
		&m.CurrentStage,
		&m.AssignedAt,
		&m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainAssignment(&m)
}
