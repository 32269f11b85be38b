package expense

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/ledger"
)

// DeleteExpenseInput represents the input for deleting an expense.
type DeleteExpenseInput struct {
	GroupID   uuid.UUID
	ExpenseID uuid.UUID
	UserID    uuid.UUID
	Version   int64
}

// DeleteExpenseOutput represents the output of deleting an expense.
type DeleteExpenseOutput struct {
	Version int64
}

// DeleteExpenseUseCase soft-deletes an expense so it no longer counts
// towards balances.
type DeleteExpenseUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(ledgerRepo adapter.LedgerRepository) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// Execute performs the expense deletion.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) (*DeleteExpenseOutput, error) {
	version, err := uc.ledgerRepo.Mutate(ctx, input.GroupID, input.Version,
		func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
			if _, err := ledger.RequireActiveMember(snapshot, input.UserID); err != nil {
				return err
			}
			if _, err := findEditable(snapshot, input.ExpenseID, input.UserID); err != nil {
				return err
			}
			if err := ledger.CheckFormerMemberBalances(snapshot, snapshot.ExpensesWithout(input.ExpenseID)); err != nil {
				return err
			}
			return w.DeleteExpense(ctx, input.ExpenseID)
		})
	if err != nil {
		return nil, err
	}

	slog.Info("Expense deleted", "group_id", input.GroupID, "expense_id", input.ExpenseID, "version", version)

	return &DeleteExpenseOutput{
		Version: version,
	}, nil
}
