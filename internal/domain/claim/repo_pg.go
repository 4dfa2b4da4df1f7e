package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kravdata/kravdata/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns a Postgres-backed claim repository.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Insert(ctx context.Context, c *Claim) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO claim (
			id, claim_reference, patient_age, patient_sex, region,
			received_date, decision_date, status, decision, care_level,
			claim_amount_nok, provider_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.ClaimReference, c.PatientAge, c.PatientSex, c.Region,
		c.ReceivedDate, c.DecisionDate, c.Status, c.Decision, c.CareLevel,
		c.AmountNOK, c.ProviderID)
	if err != nil {
		return fmt.Errorf("insert claim %s: %w", c.ClaimReference, err)
	}
	return nil
}

func (r *repoPG) InsertMedicalCodeLink(ctx context.Context, l *MedicalCodeLink) error {
	if err := l.Validate(); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO claim_medical_code (claim_id, medical_code_id, role)
		VALUES ($1, $2, $3)`,
		l.ClaimID, l.MedicalCodeID, l.Role)
	if err != nil {
		return fmt.Errorf("insert claim medical code: %w", err)
	}
	return nil
}

func (r *repoPG) InsertInjuryLink(ctx context.Context, l *InjuryLink) error {
	if err := l.Validate(); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO claim_injury (claim_id, injury_type_id, is_primary)
		VALUES ($1, $2, $3)`,
		l.ClaimID, l.InjuryTypeID, l.IsPrimary)
	if err != nil {
		return fmt.Errorf("insert claim injury: %w", err)
	}
	return nil
}

func (r *repoPG) Count(ctx context.Context) (int64, error) {
	return r.countTable(ctx, "claim")
}

func (r *repoPG) CountMedicalCodeLinks(ctx context.Context) (int64, error) {
	return r.countTable(ctx, "claim_medical_code")
}

func (r *repoPG) CountInjuryLinks(ctx context.Context) (int64, error) {
	return r.countTable(ctx, "claim_injury")
}

func (r *repoPG) countTable(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *repoPG) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT status, COUNT(*) FROM claim GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("count claims by status: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// CountDecisionViolations counts rows where decision presence does not track
// closed status. The schema check makes this unreachable, so a non-zero
// result means the constraint was dropped or bypassed.
func (r *repoPG) CountDecisionViolations(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM claim
		WHERE (decision IS NOT NULL) <> (status = 'Closed')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count decision violations: %w", err)
	}
	return n, nil
}

func (r *repoPG) ReceivedDateRange(ctx context.Context) (*DateRange, error) {
	var min, max *time.Time
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT MIN(received_date), MAX(received_date) FROM claim`).Scan(&min, &max)
	if err != nil {
		return nil, fmt.Errorf("received date range: %w", err)
	}
	if min == nil || max == nil {
		return nil, nil
	}
	return &DateRange{Min: *min, Max: *max}, nil
}

func (r *repoPG) ClosedPayoutStats(ctx context.Context) (*PayoutStats, error) {
	var ps PayoutStats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(MIN(claim_amount_nok), 0),
		       COALESCE(MAX(claim_amount_nok), 0),
		       COALESCE(AVG(claim_amount_nok), 0)
		FROM claim WHERE status = 'Closed'`).Scan(&ps.Min, &ps.Max, &ps.Avg)
	if err != nil {
		return nil, fmt.Errorf("closed payout stats: %w", err)
	}
	return &ps, nil
}
