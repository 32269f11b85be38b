// Package group contains group-related use cases.
package group

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
)

const (
	// MaxGroupNameLength is the maximum allowed length for group names.
	MaxGroupNameLength = 100
)

// CreateGroupInput represents the input for group creation.
type CreateGroupInput struct {
	Name   string
	UserID uuid.UUID
}

// CreateGroupOutput represents the output of group creation.
type CreateGroupOutput struct {
	Group   *entity.Group
	Members []*entity.GroupMember
}

// CreateGroupUseCase handles group creation logic.
type CreateGroupUseCase struct {
	groupRepo adapter.GroupRepository
	userRepo  adapter.UserRepository
}

// NewCreateGroupUseCase creates a new CreateGroupUseCase instance.
func NewCreateGroupUseCase(groupRepo adapter.GroupRepository, userRepo adapter.UserRepository) *CreateGroupUseCase {
	return &CreateGroupUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// Execute creates the group with the caller as its admin member.
func (uc *CreateGroupUseCase) Execute(ctx context.Context, input CreateGroupInput) (*CreateGroupOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameRequired,
			"group name is required",
			domainerror.ErrGroupNameRequired,
		)
	}

	if utf8.RuneCountInString(name) > MaxGroupNameLength {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameTooLong,
			fmt.Sprintf("group name must not exceed %d characters", MaxGroupNameLength),
			domainerror.ErrGroupNameTooLong,
		)
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	group := entity.NewGroup(name, user.ID)

	owner := entity.NewGroupMember(group.ID, user.ID, entity.MemberRoleAdmin)
	owner.UserName = user.Name
	owner.UserEmail = user.Email
	owner.UserUPIID = user.UPIID

	if err := uc.groupRepo.CreateGroup(ctx, group, owner); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "user_id", user.ID)

	return &CreateGroupOutput{
		Group:   group,
		Members: []*entity.GroupMember{owner},
	}, nil
}
