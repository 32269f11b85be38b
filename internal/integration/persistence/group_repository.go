package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/integration/persistence/model"
)

// groupRepository implements the adapter.GroupRepository interface.
type groupRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGroupRepository creates a new group repository instance.
func NewGroupRepository(db *gorm.DB, timeout time.Duration) adapter.GroupRepository {
	return &groupRepository{
		db:      db,
		timeout: timeout,
	}
}

// CreateGroup stores a new group together with its first member.
func (r *groupRepository) CreateGroup(ctx context.Context, group *entity.Group, owner *entity.GroupMember) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.GroupFromEntity(group)).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(model.GroupMemberFromEntity(owner)).Error
	})
}

// FindGroupsByUserID retrieves all groups a user belongs to or has left.
func (r *groupRepository) FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GroupListItem, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	db := r.db.WithContext(ctx)

	var memberships []model.GroupMemberModel
	if err := db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []*entity.GroupListItem{}, nil
	}

	groupIDs := make([]uuid.UUID, len(memberships))
	byGroup := make(map[uuid.UUID]model.GroupMemberModel, len(memberships))
	for i, m := range memberships {
		groupIDs[i] = m.GroupID
		byGroup[m.GroupID] = m
	}

	var groups []model.GroupModel
	if err := db.Where("id IN ?", groupIDs).Order("created_at DESC").Find(&groups).Error; err != nil {
		return nil, err
	}

	var counts []struct {
		GroupID uuid.UUID
		Total   int
	}
	err := db.Model(&model.GroupMemberModel{}).
		Select("group_id, COUNT(*) AS total").
		Where("group_id IN ? AND status = ?", groupIDs, entity.MemberStatusActive).
		Group("group_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByGroup := make(map[uuid.UUID]int, len(counts))
	for _, c := range counts {
		countByGroup[c.GroupID] = c.Total
	}

	items := make([]*entity.GroupListItem, len(groups))
	for i, g := range groups {
		membership := byGroup[g.ID]
		items[i] = &entity.GroupListItem{
			ID:          g.ID,
			Name:        g.Name,
			MemberCount: countByGroup[g.ID],
			Role:        entity.MemberRole(membership.Role),
			Status:      entity.MemberStatus(membership.Status),
			CreatedAt:   g.CreatedAt,
		}
	}
	return items, nil
}
