package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskValuationSnapshot triggers the nightly inventory valuation snapshot.
	TaskValuationSnapshot = "valuation:snapshot"
	// TaskDashboardWarmup refreshes the cached default-window dashboards.
	TaskDashboardWarmup = "dashboard:warmup"
)

// ValuationSnapshotPayload carries scheduling metadata.
type ValuationSnapshotPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewValuationSnapshotTask constructs an Asynq task for the valuation snapshot.
func NewValuationSnapshotTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ValuationSnapshotPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskValuationSnapshot, body, asynq.Queue(QueueDefault)), nil
}

// DashboardWarmupPayload carries scheduling metadata.
type DashboardWarmupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewDashboardWarmupTask constructs an Asynq task for the dashboard warm-up.
func NewDashboardWarmupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(DashboardWarmupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, body, asynq.Queue(QueueDefault)), nil
}
