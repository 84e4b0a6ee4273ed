package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentops/staffmatch/modules/staffing/domain/entities/recruiter"
	"github.com/talentops/staffmatch/modules/staffing/infrastructure/persistence/models"
	"github.com/talentops/staffmatch/pkg/composables"
)

var (
	ErrRecruiterNotFound = errors.New("recruiter not found")
)

const (
	recruiterFindQuery = `
        SELECT
            r.id,
            r.name,
            r.primary_zone,
            r.secondary_zones,
            r.capability_level,
            r.capacity,
            r.current_load,
            r.is_active,
            r.deleted_at,
            r.created_at,
            r.updated_at
        FROM recruiters r`

	recruiterCountQuery = `SELECT COUNT(r.id) FROM recruiters r WHERE r.deleted_at IS NULL`

	recruiterInsertQuery = `
        INSERT INTO recruiters (
            name, primary_zone, secondary_zones, capability_level, capacity, current_load, is_active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	recruiterUpdateQuery = `
        UPDATE recruiters SET
            name = $2,
            primary_zone = $3,
            secondary_zones = $4,
            capability_level = $5,
            capacity = $6,
            is_active = $7,
            updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL`

	// locks the touched rows in a stable order so concurrent batches cannot
	// deadlock against each other
	recruiterLockQuery = `
        SELECT r.id, r.capacity, r.current_load
        FROM recruiters r
        WHERE r.id = ANY($1)
        ORDER BY r.id
        FOR UPDATE`

	recruiterApplyLoadQuery = `
        UPDATE recruiters SET current_load = current_load + $2, updated_at = NOW()
        WHERE id = $1`

	reservationInsertQuery = `
        INSERT INTO capacity_reservations (batch_id, recruiter_id, amount)
        VALUES ($1, $2, $3)`

	reservationReleaseQuery = `
        UPDATE capacity_reservations SET released = TRUE
        WHERE batch_id = $1 AND released = FALSE
        RETURNING recruiter_id, amount`

	recruiterDecrementQuery = `
        UPDATE recruiters SET current_load = GREATEST(current_load - $2, 0), updated_at = NOW()
        WHERE id = $1
        RETURNING current_load`
)

type PgRecruiterRepository struct{}

func NewRecruiterRepository() recruiter.Repository {
	return &PgRecruiterRepository{}
}

func (g *PgRecruiterRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, recruiterCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgRecruiterRepository) GetPaginated(ctx context.Context, params *recruiter.FindParams) ([]*recruiter.Recruiter, error) {
	if params == nil {
		params = &recruiter.FindParams{}
	}

	where := []string{"r.deleted_at IS NULL"}
	args := []interface{}{}
	if params.ActiveOnly {
		where = append(where, "r.is_active = TRUE")
	}
	if params.Zone != "" {
		args = append(args, params.Zone)
		n := len(args)
		where = append(where, fmt.Sprintf("(r.primary_zone = $%d OR $%d = ANY(r.secondary_zones))", n, n))
	}

	query := recruiterFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY r.id"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return g.queryRecruiters(ctx, query, args...)
}

func (g *PgRecruiterRepository) GetByID(ctx context.Context, id int64) (*recruiter.Recruiter, error) {
	rows, err := g.queryRecruiters(ctx, recruiterFindQuery+` WHERE r.id = $1 AND r.deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrRecruiterNotFound
	}
	return rows[0], nil
}

func (g *PgRecruiterRepository) GetActive(ctx context.Context) ([]*recruiter.Recruiter, error) {
	return g.queryRecruiters(ctx, recruiterFindQuery+` WHERE r.deleted_at IS NULL AND r.is_active = TRUE ORDER BY r.id`)
}

func (g *PgRecruiterRepository) Create(ctx context.Context, data *recruiter.Recruiter) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if data.Capacity <= 0 {
		data.Capacity = recruiter.DefaultCapacity
	}
	return tx.QueryRow(
		ctx,
		recruiterInsertQuery,
		data.Name,
		data.PrimaryZone,
		data.SecondaryZones,
		data.Level,
		data.Capacity,
		data.CurrentLoad,
		data.IsActive,
	).Scan(&data.ID)
}

func (g *PgRecruiterRepository) Update(ctx context.Context, data *recruiter.Recruiter) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		recruiterUpdateQuery,
		data.ID,
		data.Name,
		data.PrimaryZone,
		data.SecondaryZones,
		data.Level,
		data.Capacity,
		data.IsActive,
	)
	return err
}

// ReserveBatch locks the affected recruiter rows, checks every increment
// against capacity and applies the accepted ones, all inside one
// transaction. Rejected recruiters are reported with their untouched load.
func (g *PgRecruiterRepository) ReserveBatch(ctx context.Context, batchID uuid.UUID, reservations []recruiter.Reservation) ([]recruiter.ReservationResult, error) {
	if len(reservations) == 0 {
		return nil, nil
	}

	byID := make(map[int64]int, len(reservations))
	ids := make([]int64, 0, len(reservations))
	for _, res := range reservations {
		byID[res.RecruiterID] = res.Increment
		ids = append(ids, res.RecruiterID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var results []recruiter.ReservationResult
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}

		rows, err := tx.Query(txCtx, recruiterLockQuery, ids)
		if err != nil {
			return err
		}
		locked := make(map[int64]*models.Recruiter, len(ids))
		for rows.Next() {
			var m models.Recruiter
			if err := rows.Scan(&m.ID, &m.Capacity, &m.CurrentLoad); err != nil {
				rows.Close()
				return err
			}
			locked[m.ID] = &m
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		results = make([]recruiter.ReservationResult, 0, len(ids))
		for _, id := range ids {
			inc := byID[id]
			row, ok := locked[id]
			if !ok {
				return ErrRecruiterNotFound
			}
			if row.CurrentLoad+inc > row.Capacity {
				results = append(results, recruiter.ReservationResult{
					RecruiterID: id,
					Success:     false,
					NewLoad:     row.CurrentLoad,
				})
				continue
			}
			if _, err := tx.Exec(txCtx, recruiterApplyLoadQuery, id, inc); err != nil {
				return err
			}
			if _, err := tx.Exec(txCtx, reservationInsertQuery, batchID, id, inc); err != nil {
				return err
			}
			results = append(results, recruiter.ReservationResult{
				RecruiterID: id,
				Success:     true,
				NewLoad:     row.CurrentLoad + inc,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ReleaseBatch reverses every still-unreleased increment of the batch.
// The ledger makes repeated releases no-ops, so a retried rollback cannot
// under-count load.
func (g *PgRecruiterRepository) ReleaseBatch(ctx context.Context, batchID uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}

		rows, err := tx.Query(txCtx, reservationReleaseQuery, batchID)
		if err != nil {
			return err
		}
		type release struct {
			recruiterID int64
			amount      int
		}
		var releases []release
		for rows.Next() {
			var rel release
			if err := rows.Scan(&rel.recruiterID, &rel.amount); err != nil {
				rows.Close()
				return err
			}
			releases = append(releases, rel)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, rel := range releases {
			if _, err := tx.Exec(txCtx, recruiterDecrementQuery, rel.recruiterID, rel.amount); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *PgRecruiterRepository) DecrementLoad(ctx context.Context, id int64, amount int) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	var newLoad int
	err = tx.QueryRow(ctx, recruiterDecrementQuery, id, amount).Scan(&newLoad)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRecruiterNotFound
	}
	return err
}

func (g *PgRecruiterRepository) queryRecruiters(ctx context.Context, query string, args ...interface{}) ([]*recruiter.Recruiter, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*recruiter.Recruiter, 0)
	for rows.Next() {
		var m models.Recruiter
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.PrimaryZone,
			&m.SecondaryZones,
			&m.CapabilityLevel,
			&m.Capacity,
			&m.CurrentLoad,
			&m.IsActive,
			&m.DeletedAt,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainRecruiter(&m))
	}
	return out, rows.Err()
}
