package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrgLister enumerates organizations eligible for warming. Disabled
// organizations are skipped because the write gate keeps their users out of
// the dashboard anyway.
type OrgLister interface {
	ActiveOrganizationIDs(ctx context.Context) ([]int64, error)
}

// DashboardWarmer recomputes and stores the cached dashboard for one org.
type DashboardWarmer interface {
	WarmDashboard(ctx context.Context, orgID int64) error
}

// PGOrgLister lists active organization ids straight from PostgreSQL.
type PGOrgLister struct {
	pool *pgxpool.Pool
}

// NewPGOrgLister constructs the lister.
func NewPGOrgLister(pool *pgxpool.Pool) *PGOrgLister {
	return &PGOrgLister{pool: pool}
}

func (l *PGOrgLister) ActiveOrganizationIDs(ctx context.Context) ([]int64, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id FROM organizations WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NewDashboardWarmupHandler builds the Asynq handler that warms every active
// organization's dashboard. A single org failing does not abort the sweep;
// failures are logged and the rest still get a fresh entry.
func NewDashboardWarmupHandler(logger *slog.Logger, orgs OrgLister, warmer DashboardWarmer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DashboardWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		ids, err := orgs.ActiveOrganizationIDs(ctx)
		if err != nil {
			logger.Error("dashboard warmup: list organizations", slog.Any("error", err))
			return err
		}
		var warmed int
		for _, id := range ids {
			if err := warmer.WarmDashboard(ctx, id); err != nil {
				logger.Warn("dashboard warmup",
					slog.Int64("org_id", id),
					slog.Any("error", err))
				continue
			}
			warmed++
		}
		logger.Info("dashboard warmup finished",
			slog.Int("organizations", len(ids)),
			slog.Int("warmed", warmed),
			slog.Time("scheduled_for", payload.ScheduledFor))
		return nil
	}
}
