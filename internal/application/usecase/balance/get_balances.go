package balance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
)

// GetBalancesInput represents the input for reading group balances.
type GetBalancesInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// GetBalancesOutput represents the balances with member display data.
type GetBalancesOutput struct {
	Summary *entity.GroupBalances
	Members []*entity.GroupMember
}

// GetBalancesUseCase returns per-member balances and the settlement plan.
type GetBalancesUseCase struct {
	ledgerRepo adapter.LedgerRepository
	calculator *Calculator
}

// NewGetBalancesUseCase creates a new GetBalancesUseCase instance.
func NewGetBalancesUseCase(ledgerRepo adapter.LedgerRepository, calculator *Calculator) *GetBalancesUseCase {
	return &GetBalancesUseCase{
		ledgerRepo: ledgerRepo,
		calculator: calculator,
	}
}

// Execute loads the group snapshot and summarizes it.
func (uc *GetBalancesUseCase) Execute(ctx context.Context, input GetBalancesInput) (*GetBalancesOutput, error) {
	snapshot, err := uc.ledgerRepo.LoadSnapshot(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	// Former members keep read access to the history they took part in.
	if snapshot.Member(input.UserID) == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupMember,
			"you are not a member of this group",
			domainerror.ErrNotGroupMember,
		)
	}

	summary, err := uc.calculator.Summarize(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balances: %w", err)
	}

	return &GetBalancesOutput{
		Summary: summary,
		Members: snapshot.Members,
	}, nil
}
