package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arezooghiami/pahbar/internal/models"
	"github.com/arezooghiami/pahbar/pkg/database"
	"github.com/arezooghiami/pahbar/pkg/logging"
	"github.com/arezooghiami/pahbar/pkg/metrics"
)

// LoadRepository provides data access for hourly load records
type LoadRepository interface {
	// Load operations
	UpsertLoadsBatch(ctx context.Context, loads []*models.HourlyLoad) error
	GetLoads(ctx context.Context, discoID int, from, to time.Time) ([]*models.HourlyLoad, error)
	GetDateSummary(ctx context.Context, discoID int) (*models.DiscoDateSummary, error)

	// User operations
	GetUserDisco(ctx context.Context, username string) (int, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// loadRepository implements LoadRepository
type loadRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewLoadRepository creates a new load repository
func NewLoadRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) LoadRepository {
	return &loadRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// UpsertLoadsBatch writes a validated batch in a single transaction,
// replacing existing records by (disco_id, recorded_at). The batch commits
// in full or not at all.
func (r *loadRepository) UpsertLoadsBatch(ctx context.Context, loads []*models.HourlyLoad) error {
	if len(loads) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		r.metrics.UploadBatchSize.Observe(float64(len(loads)))
		r.logger.Debug(ctx, "[REPO_BATCH_UPSERT] Batch upsert completed", logging.Fields{
			"count":       len(loads),
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO real_loads (disco_id, recorded_at, load_mwh, source, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (disco_id, recorded_at) DO UPDATE SET
			load_mwh = EXCLUDED.load_mwh,
			source   = EXCLUDED.source
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, load := range loads {
		_, err := stmt.ExecContext(ctx,
			load.DiscoID,
			load.RecordedAt,
			load.LoadMWh,
			load.Source,
			load.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert load: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.LoadsWrittenTotal.Add(float64(len(loads)))

	return nil
}

// GetLoads retrieves the records of one disco whose timestamps fall in
// [from, to).
func (r *loadRepository) GetLoads(ctx context.Context, discoID int, from, to time.Time) ([]*models.HourlyLoad, error) {
	query := `
		SELECT id, disco_id, recorded_at, load_mwh, source, created_at
		FROM real_loads
		WHERE disco_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at
	`

	var loads []*models.HourlyLoad
	err := r.db.SelectContext(ctx, "get_loads", &loads, query, discoID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get loads: %w", err)
	}

	return loads, nil
}

// GetDateSummary returns the earliest and latest record dates of a disco,
// or nil when the disco has no records.
func (r *loadRepository) GetDateSummary(ctx context.Context, discoID int) (*models.DiscoDateSummary, error) {
	query := `
		SELECT MIN(recorded_at) AS first_date, MAX(recorded_at) AS last_date
		FROM real_loads
		WHERE disco_id = $1
	`

	var row struct {
		FirstDate *time.Time `db:"first_date"`
		LastDate  *time.Time `db:"last_date"`
	}
	err := r.db.GetContext(ctx, "get_date_summary", &row, query, discoID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get date summary: %w", err)
	}

	// MIN/MAX over zero rows come back NULL.
	if row.FirstDate == nil || row.LastDate == nil {
		return nil, nil
	}

	return &models.DiscoDateSummary{
		FirstDate: *row.FirstDate,
		LastDate:  *row.LastDate,
	}, nil
}

// GetUserDisco resolves the disco a user reports for.
func (r *loadRepository) GetUserDisco(ctx context.Context, username string) (int, error) {
	query := `
		SELECT disco_id
		FROM users
		WHERE username = $1
	`

	var discoID int
	err := r.db.GetContext(ctx, "get_user_disco", &discoID, query, username)

	if err == sql.ErrNoRows {
		return 0, &NotFoundError{
			Resource: "user",
			ID:       username,
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get user disco: %w", err)
	}

	return discoID, nil
}

// HealthCheck performs a repository health check
func (r *loadRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
