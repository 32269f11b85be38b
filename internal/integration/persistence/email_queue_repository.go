package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/persistence/model"
)

type emailQueueRepository struct {
	db *gorm.DB
}

// NewEmailQueueRepository creates the notification queue repository.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{
		db: db,
	}
}

func (r *emailQueueRepository) Create(ctx context.Context, job *entity.EmailJob) error {
	if err := r.db.WithContext(ctx).Create(model.EmailQueueModelFromEntity(job)).Error; err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			fmt.Sprintf("failed to queue %s notification for group %s", job.Kind, job.GroupID),
			err,
		)
	}
	return nil
}

// ClaimDueJobs selects the batch and flips it to processing in one
// transaction. A job is handed to at most one caller.
func (r *emailQueueRepository) ClaimDueJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error) {
	var jobs []*entity.EmailJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []model.EmailQueueModel
		err := tx.
			Where("status = ? AND scheduled_at <= ?", entity.EmailStatusPending, time.Now().UTC()).
			Order("scheduled_at ASC").
			Limit(limit).
			Find(&models).Error
		if err != nil || len(models) == 0 {
			return err
		}

		ids := make([]uuid.UUID, len(models))
		for i := range models {
			ids[i] = models[i].ID
		}

		result := tx.Model(&model.EmailQueueModel{}).
			Where("id IN ? AND status = ?", ids, entity.EmailStatusPending).
			Update("status", entity.EmailStatusProcessing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("claimed %d of %d jobs", result.RowsAffected, len(ids))
		}

		jobs = make([]*entity.EmailJob, len(models))
		for i := range models {
			jobs[i] = models[i].ToEntity()
			jobs[i].MarkProcessing()
		}
		return nil
	})
	if err != nil {
		return nil, domainerror.NewEmailError(domainerror.ErrCodeEmailClaimFailed, "failed to claim due notifications", err)
	}

	return jobs, nil
}

func (r *emailQueueRepository) Update(ctx context.Context, job *entity.EmailJob) error {
	if err := r.db.WithContext(ctx).Save(model.EmailQueueModelFromEntity(job)).Error; err != nil {
		return fmt.Errorf("failed to update notification %s: %w", job.ID, err)
	}
	return nil
}

func (r *emailQueueRepository) ListByGroup(ctx context.Context, groupID uuid.UUID, kind entity.NotificationKind) ([]*entity.EmailJob, error) {
	var models []model.EmailQueueModel
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND kind = ?", groupID, string(kind)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	jobs := make([]*entity.EmailJob, len(models))
	for i := range models {
		jobs[i] = models[i].ToEntity()
	}
	return jobs, nil
}

func (r *emailQueueRepository) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", entity.EmailStatusSent, cutoff).
		Delete(&model.EmailQueueModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete sent notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
