// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// GroupRepository defines the interface for group persistence operations
// that do not touch the ledger.
type GroupRepository interface {
	// CreateGroup stores a new group together with its first member.
	CreateGroup(ctx context.Context, group *entity.Group, owner *entity.GroupMember) error

	// FindGroupsByUserID retrieves all groups a user belongs to or has left.
	FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.GroupListItem, error)
}
