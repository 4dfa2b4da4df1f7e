package medcode

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kravdata/kravdata/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Insert(ctx context.Context, m *MedicalCode) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_code (id, code_system, code, title, active)
		VALUES ($1,$2,$3,$4,$5)`,
		m.ID, m.System, m.Code, m.Title, m.Active,
	)
	return err
}

func (r *repoPG) ListActive(ctx context.Context) ([]*MedicalCode, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, code_system, code, title, active
		FROM medical_code WHERE active ORDER BY code_system, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []*MedicalCode
	for rows.Next() {
		var m MedicalCode
		if err := rows.Scan(&m.ID, &m.System, &m.Code, &m.Title, &m.Active); err != nil {
			return nil, err
		}
		codes = append(codes, &m)
	}
	return codes, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_code`).Scan(&total)
	return total, err
}
