package expense

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/ledger"
)

// CreateExpenseInput represents the input for adding an expense.
type CreateExpenseInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
	Version int64
	Details Details
}

// CreateExpenseOutput represents the output of adding an expense.
type CreateExpenseOutput struct {
	Expense *entity.Expense
	Version int64
}

// CreateExpenseUseCase handles expense creation.
type CreateExpenseUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(ledgerRepo adapter.LedgerRepository) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// Execute validates and stores a new expense.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	p, err := parseDetails(input.Details)
	if err != nil {
		return nil, err
	}

	var expense *entity.Expense
	version, err := uc.ledgerRepo.Mutate(ctx, input.GroupID, input.Version,
		func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
			if _, err := ledger.RequireActiveMember(snapshot, input.UserID); err != nil {
				return err
			}
			if err := ledger.CheckExpenseMembers(snapshot, input.Details.PaidBy, p.spec.Participants, nil); err != nil {
				return err
			}

			splits, err := ledger.BuildSplits(p.spec)
			if err != nil {
				return err
			}

			expense = entity.NewExpense(input.GroupID, p.description, p.spec.Amount, input.Details.PaidBy, input.UserID, p.spec.Type, splits)
			return w.CreateExpense(ctx, expense)
		})
	if err != nil {
		return nil, err
	}

	slog.Info("Expense created", "group_id", input.GroupID, "expense_id", expense.ID, "version", version)

	return &CreateExpenseOutput{
		Expense: expense,
		Version: version,
	}, nil
}
