package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/injury"
	"github.com/kravdata/kravdata/internal/domain/medcode"
	"github.com/kravdata/kravdata/internal/domain/provider"
	"github.com/kravdata/kravdata/internal/platform/db"
)

// Loader writes a dataset into Postgres in a single transaction. The target
// tables are cleared first, so a run is repeatable from a clean or dirty
// state and never leaves a partial dataset behind.
type Loader struct {
	pool      *pgxpool.Pool
	providers provider.Repository
	codes     medcode.Repository
	injuries  injury.Repository
	claims    claim.Repository
	log       zerolog.Logger
}

// NewLoader wires a loader over the shared pool and repositories.
func NewLoader(pool *pgxpool.Pool, providers provider.Repository, codes medcode.Repository,
	injuries injury.Repository, claims claim.Repository, log zerolog.Logger) *Loader {
	return &Loader{
		pool:      pool,
		providers: providers,
		codes:     codes,
		injuries:  injuries,
		claims:    claims,
		log:       log.With().Str("component", "seed.loader").Logger(),
	}
}

// Load validates the dataset, then truncates and repopulates all six tables
// inside one transaction. Any failure rolls the whole load back.
func (l *Loader) Load(ctx context.Context, ds *Dataset) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("seed load: %w", err)
	}

	start := time.Now()
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("seed load: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	txCtx := db.WithTx(ctx, tx)

	// Child tables first; CASCADE covers the FK web and RESTART IDENTITY
	// resets any sequence-backed counters.
	_, err = tx.Exec(txCtx, `TRUNCATE claim_medical_code, claim_injury, claim,
		provider, medical_code, injury_type RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("seed load: truncate: %w", err)
	}

	for _, p := range ds.Providers {
		if err := l.providers.Insert(txCtx, p); err != nil {
			return fmt.Errorf("seed load: %w", err)
		}
	}
	for _, m := range ds.MedicalCodes {
		if err := l.codes.Insert(txCtx, m); err != nil {
			return fmt.Errorf("seed load: %w", err)
		}
	}
	for _, it := range ds.InjuryTypes {
		if err := l.injuries.Insert(txCtx, it); err != nil {
			return fmt.Errorf("seed load: %w", err)
		}
	}
	for _, c := range ds.Claims {
		if err := l.claims.Insert(txCtx, c); err != nil {
			return fmt.Errorf("seed load: %w", err)
		}
	}
	for _, link := range ds.CodeLinks {
		if err := l.claims.InsertMedicalCodeLink(txCtx, link); err != nil {
			return fmt.Errorf("seed load: %w", err)
		}
	}
	for _, link := range ds.InjuryLinks {
		if err := l.claims.InsertInjuryLink(txCtx, link); err != nil {
			return fmt.Errorf("seed load: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("seed load: commit: %w", err)
	}

	l.log.Info().
		Int("providers", len(ds.Providers)).
		Int("medical_codes", len(ds.MedicalCodes)).
		Int("injury_types", len(ds.InjuryTypes)).
		Int("claims", len(ds.Claims)).
		Int("code_links", len(ds.CodeLinks)).
		Int("injury_links", len(ds.InjuryLinks)).
		Dur("elapsed", time.Since(start)).
		Msg("seed dataset loaded")
	return nil
}
