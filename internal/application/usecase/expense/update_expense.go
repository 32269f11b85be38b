package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/ledger"
)

// UpdateExpenseInput represents the input for editing an expense.
type UpdateExpenseInput struct {
	GroupID   uuid.UUID
	ExpenseID uuid.UUID
	UserID    uuid.UUID
	Version   int64
	Details   Details
}

// UpdateExpenseOutput represents the output of editing an expense.
type UpdateExpenseOutput struct {
	Expense *entity.Expense
	Version int64
}

// UpdateExpenseUseCase replaces an expense's details. Only its creator may
// do so, and settlements are never editable.
type UpdateExpenseUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(ledgerRepo adapter.LedgerRepository) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// Execute performs the expense update.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	p, err := parseDetails(input.Details)
	if err != nil {
		return nil, err
	}

	var updated *entity.Expense
	version, err := uc.ledgerRepo.Mutate(ctx, input.GroupID, input.Version,
		func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
			if _, err := ledger.RequireActiveMember(snapshot, input.UserID); err != nil {
				return err
			}

			existing, err := findEditable(snapshot, input.ExpenseID, input.UserID)
			if err != nil {
				return err
			}
			if err := ledger.CheckExpenseMembers(snapshot, input.Details.PaidBy, p.spec.Participants, existing); err != nil {
				return err
			}

			splits, err := ledger.BuildSplits(p.spec)
			if err != nil {
				return err
			}

			updated = &entity.Expense{
				ID:          existing.ID,
				GroupID:     existing.GroupID,
				Kind:        existing.Kind,
				Description: p.description,
				Amount:      p.spec.Amount,
				PaidBy:      input.Details.PaidBy,
				CreatedBy:   existing.CreatedBy,
				SplitType:   p.spec.Type,
				Splits:      splits,
				CreatedAt:   existing.CreatedAt,
				UpdatedAt:   time.Now().UTC(),
			}
			if err := ledger.CheckFormerMemberBalances(snapshot, snapshot.ExpensesWith(updated)); err != nil {
				return err
			}
			return w.UpdateExpense(ctx, updated)
		})
	if err != nil {
		return nil, err
	}

	slog.Info("Expense updated", "group_id", input.GroupID, "expense_id", input.ExpenseID, "version", version)

	return &UpdateExpenseOutput{
		Expense: updated,
		Version: version,
	}, nil
}
