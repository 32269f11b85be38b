package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/application/usecase/auth"
	"github.com/cashsplit/backend/internal/domain/entity"
)

// UpdateProfileInput represents the editable profile fields.
type UpdateProfileInput struct {
	UserID uuid.UUID
	Name   string
	Phone  string
	UPIID  string
}

// UpdateProfileUseCase handles profile edits.
type UpdateProfileUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdateProfileUseCase creates a new UpdateProfileUseCase instance.
func NewUpdateProfileUseCase(userRepo adapter.UserRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{
		userRepo: userRepo,
	}
}

// Execute validates and stores the profile.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*entity.User, error) {
	if err := auth.ValidateProfile(input.Name, input.UPIID); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.UpdateProfile(strings.TrimSpace(input.Name), strings.TrimSpace(input.Phone), input.UPIID)

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
