package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotStore persists one stocked-value row per organization.
type SnapshotStore interface {
	SnapshotAll(ctx context.Context) (int64, error)
}

// PGSnapshotStore computes the valuation inside PostgreSQL: one row per
// organization holding Σ (buy price + other cost) × stock over its products.
type PGSnapshotStore struct {
	pool *pgxpool.Pool
}

// NewPGSnapshotStore constructs the store.
func NewPGSnapshotStore(pool *pgxpool.Pool) *PGSnapshotStore {
	return &PGSnapshotStore{pool: pool}
}

func (s *PGSnapshotStore) SnapshotAll(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO valuation_snapshots (organization_id, stocked_value, created_at)
SELECT organization_id, COALESCE(SUM((buy_price + other_cost_per_unit) * stock), 0), NOW()
FROM products GROUP BY organization_id`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// NewValuationSnapshotHandler builds the Asynq handler for the snapshot task.
func NewValuationSnapshotHandler(logger *slog.Logger, store SnapshotStore) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ValuationSnapshotPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		rows, err := store.SnapshotAll(ctx)
		if err != nil {
			logger.Error("valuation snapshot", slog.Any("error", err))
			return err
		}
		logger.Info("valuation snapshot written",
			slog.Int64("organizations", rows),
			slog.Time("scheduled_for", payload.ScheduledFor))
		return nil
	}
}
