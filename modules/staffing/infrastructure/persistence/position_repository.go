package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/position"
	"github.com/talentops/staffmatch/modules/staffing/infrastructure/persistence/models"
	"github.com/talentops/staffmatch/pkg/composables"
)

var (
	ErrPositionNotFound = errors.New("position not found")
)

const (
	positionFindQuery = `
        SELECT
            p.id,
            p.title,
            p.zone,
            p.tier,
            p.required_level,
            p.headcount,
            p.status,
            p.recruiter_id,
            p.opened_at,
            p.sla_deadline,
            p.closed_at,
            p.created_at,
            p.updated_at
        FROM positions p`

	positionCountQuery = `SELECT COUNT(p.id) FROM positions p`

	positionInsertQuery = `
        INSERT INTO positions (
            title, zone, tier, required_level, headcount, status, opened_at, sla_deadline
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	positionUpdateQuery = `
        UPDATE positions SET
            title = $2,
            zone = $3,
            tier = $4,
            required_level = $5,
            headcount = $6,
            status = $7,
            recruiter_id = $8,
            sla_deadline = $9,
            closed_at = $10,
            updated_at = NOW()
        WHERE id = $1`

	positionAssignQuery = `
        UPDATE positions SET
            recruiter_id = $2,
            status = $3,
            updated_at = NOW()
        WHERE id = $1`
)

type PgPositionRepository struct{}

func NewPositionRepository() position.Repository {
	return &PgPositionRepository{}
}

func (g *PgPositionRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, positionCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgPositionRepository) GetPaginated(ctx context.Context, params *position.FindParams) ([]*position.Position, error) {
	if params == nil {
		params = &position.FindParams{}
	}

	where := []string{"1=1"}
	args := []interface{}{}
	if len(params.IDs) > 0 {
		args = append(args, params.IDs)
		where = append(where, fmt.Sprintf("p.id = ANY($%d)", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if params.Zone != "" {
		args = append(args, params.Zone)
		where = append(where, fmt.Sprintf("p.zone = $%d", len(args)))
	}

	query := positionFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY p.id"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return g.queryPositions(ctx, query, args...)
}

func (g *PgPositionRepository) GetByID(ctx context.Context, id int64) (*position.Position, error) {
	rows, err := g.queryPositions(ctx, positionFindQuery+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrPositionNotFound
	}
	return rows[0], nil
}

func (g *PgPositionRepository) GetByIDs(ctx context.Context, ids []int64) ([]*position.Position, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return g.queryPositions(ctx, positionFindQuery+` WHERE p.id = ANY($1) ORDER BY p.id`, ids)
}

func (g *PgPositionRepository) GetOpen(ctx context.Context) ([]*position.Position, error) {
	return g.queryPositions(ctx, positionFindQuery+` WHERE p.status = 'open' ORDER BY p.id`)
}

func (g *PgPositionRepository) Create(ctx context.Context, data *position.Position) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	return tx.QueryRow(
		ctx,
		positionInsertQuery,
		data.Title,
		data.Zone,
		string(data.Tier),
		data.RequiredLevel,
		data.Headcount,
		string(data.Status),
		data.OpenedAt,
		data.SLADeadline,
	).Scan(&data.ID)
}

func (g *PgPositionRepository) Update(ctx context.Context, data *position.Position) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		positionUpdateQuery,
		data.ID,
		data.Title,
		data.Zone,
		string(data.Tier),
		data.RequiredLevel,
		data.Headcount,
		string(data.Status),
		data.RecruiterID,
		data.SLADeadline,
		data.ClosedAt,
	)
	return err
}

func (g *PgPositionRepository) AssignRecruiter(ctx context.Context, id int64, recruiterID int64, status position.Status) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, positionAssignQuery, id, recruiterID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPositionNotFound
	}
	return nil
}

func (g *PgPositionRepository) queryPositions(ctx context.Context, query string, args ...interface{}) ([]*position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*position.Position, 0)
	for rows.Next() {
		var m models.Position
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Zone,
			&m.Tier,
			&m.RequiredLevel,
			&m.Headcount,
			&m.Status,
			&m.RecruiterID,
			&m.OpenedAt,
			&m.SLADeadline,
			&m.ClosedAt,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainPosition(&m))
	}
	return out, rows.Err()
}
