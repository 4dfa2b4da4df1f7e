package injury

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kravdata/kravdata/internal/platform/db"
)

const injuryTypeCols = `id, injury_group, name, severity, active`

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns a Postgres-backed injury type repository.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Insert(ctx context.Context, it *InjuryType) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	if err := it.Validate(); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO injury_type (id, injury_group, name, severity, active)
		VALUES ($1, $2, $3, $4, $5)`,
		it.ID, it.Group, it.Name, it.Severity, it.Active)
	if err != nil {
		return fmt.Errorf("insert injury type: %w", err)
	}
	return nil
}

func (r *repoPG) ListActive(ctx context.Context) ([]*InjuryType, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+injuryTypeCols+` FROM injury_type WHERE active ORDER BY injury_group, name`)
	if err != nil {
		return nil, fmt.Errorf("list injury types: %w", err)
	}
	defer rows.Close()

	var out []*InjuryType
	for rows.Next() {
		var it InjuryType
		if err := rows.Scan(&it.ID, &it.Group, &it.Name, &it.Severity, &it.Active); err != nil {
			return nil, fmt.Errorf("scan injury type: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM injury_type`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count injury types: %w", err)
	}
	return n, nil
}
