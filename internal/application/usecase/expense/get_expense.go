package expense

import (
	"context"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/ledger"
)

// GetExpenseInput represents the input for reading one expense.
type GetExpenseInput struct {
	GroupID   uuid.UUID
	ExpenseID uuid.UUID
	UserID    uuid.UUID
}

// GetExpenseOutput carries the expense plus the group's members so callers
// can resolve names.
type GetExpenseOutput struct {
	Expense *entity.Expense
	Members []*entity.GroupMember
	Version int64
}

// GetExpenseUseCase reads one live expense or settlement.
type GetExpenseUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewGetExpenseUseCase creates a new GetExpenseUseCase instance.
func NewGetExpenseUseCase(ledgerRepo adapter.LedgerRepository) *GetExpenseUseCase {
	return &GetExpenseUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// Execute performs the expense lookup.
func (uc *GetExpenseUseCase) Execute(ctx context.Context, input GetExpenseInput) (*GetExpenseOutput, error) {
	snapshot, err := uc.ledgerRepo.LoadSnapshot(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if _, err := ledger.RequireMember(snapshot, input.UserID); err != nil {
		return nil, err
	}

	expense := snapshot.Expense(input.ExpenseID)
	if expense == nil {
		return nil, notFound()
	}

	return &GetExpenseOutput{
		Expense: expense,
		Members: snapshot.Members,
		Version: snapshot.Group.Version,
	}, nil
}
