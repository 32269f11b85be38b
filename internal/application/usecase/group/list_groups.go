package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/application/usecase/balance"
	"github.com/cashsplit/backend/internal/domain/entity"
)

// ListGroupsInput represents the input for listing groups.
type ListGroupsInput struct {
	UserID uuid.UUID
}

// ListGroupsOutput represents the output of listing groups.
type ListGroupsOutput struct {
	Groups []*entity.GroupListItem
}

// ListGroupsUseCase lists the caller's groups with their balance in each.
type ListGroupsUseCase struct {
	groupRepo  adapter.GroupRepository
	ledgerRepo adapter.LedgerRepository
	calculator *balance.Calculator
}

// NewListGroupsUseCase creates a new ListGroupsUseCase instance.
func NewListGroupsUseCase(
	groupRepo adapter.GroupRepository,
	ledgerRepo adapter.LedgerRepository,
	calculator *balance.Calculator,
) *ListGroupsUseCase {
	return &ListGroupsUseCase{
		groupRepo:  groupRepo,
		ledgerRepo: ledgerRepo,
		calculator: calculator,
	}
}

// Execute performs the group listing.
func (uc *ListGroupsUseCase) Execute(ctx context.Context, input ListGroupsInput) (*ListGroupsOutput, error) {
	groups, err := uc.groupRepo.FindGroupsByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	for _, item := range groups {
		snapshot, err := uc.ledgerRepo.LoadSnapshot(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load group %s: %w", item.ID, err)
		}
		summary, err := uc.calculator.Summarize(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balances for group %s: %w", item.ID, err)
		}
		item.Balance = summary.Balances[input.UserID]
	}

	return &ListGroupsOutput{
		Groups: groups,
	}, nil
}
