package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
)

// ListSuggestionsUseCase lists people the user already shares a group
// with, for quick member adding.
type ListSuggestionsUseCase struct {
	userRepo adapter.UserRepository
}

// NewListSuggestionsUseCase creates a new ListSuggestionsUseCase instance.
func NewListSuggestionsUseCase(userRepo adapter.UserRepository) *ListSuggestionsUseCase {
	return &ListSuggestionsUseCase{
		userRepo: userRepo,
	}
}

// Execute returns the user's groupmates ordered by name.
func (uc *ListSuggestionsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*entity.User, error) {
	users, err := uc.userRepo.FindGroupmates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	return users, nil
}
