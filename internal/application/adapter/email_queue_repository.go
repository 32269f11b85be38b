package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// EmailQueueRepository persists queued group notifications.
type EmailQueueRepository interface {
	// Create adds a notification to the queue.
	Create(ctx context.Context, job *entity.EmailJob) error

	// ClaimDueJobs marks up to limit due pending jobs as processing and
	// returns them, oldest schedule first. A claimed job is not handed out
	// again until it is updated back to pending.
	ClaimDueJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error)

	// Update saves changes to a job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// ListByGroup returns a group's notifications of one kind, newest first.
	ListByGroup(ctx context.Context, groupID uuid.UUID, kind entity.NotificationKind) ([]*entity.EmailJob, error)

	// DeleteSentBefore removes jobs sent before cutoff.
	DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
