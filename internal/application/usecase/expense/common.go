// Package expense contains use cases for a group's shared expenses.
package expense

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/domain/ledger"
	"github.com/cashsplit/backend/internal/domain/valueobject"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 255

// Details holds the client-editable fields of an expense.
type Details struct {
	Description  string
	Amount       decimal.Decimal
	PaidBy       uuid.UUID
	SplitBetween []uuid.UUID
	SplitType    entity.SplitType
	Percentages  map[uuid.UUID]decimal.Decimal
}

// parsed is Details after boundary validation.
type parsed struct {
	description string
	spec        ledger.SplitSpec
}

func parseDetails(d Details) (*parsed, error) {
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeDescriptionRequired, "description is required", domainerror.ErrDescriptionRequired)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeDescriptionTooLong, "description must not exceed 255 characters", domainerror.ErrDescriptionTooLong)
	}

	amount, err := MinorUnits(d.Amount)
	if err != nil {
		return nil, err
	}

	if !d.SplitType.IsValid() {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeInvalidSplitType, "split type must be equal or percentage", domainerror.ErrInvalidSplitType)
	}

	return &parsed{
		description: description,
		spec: ledger.SplitSpec{
			Amount:       amount,
			Type:         d.SplitType,
			Participants: d.SplitBetween,
			Percentages:  d.Percentages,
		},
	}, nil
}

// MinorUnits converts a client amount into minor units, rejecting
// non-positive amounts and sub-cent precision.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, domainerror.NewExpenseError(domainerror.ErrCodeInvalidAmount, "amount must be greater than zero", domainerror.ErrInvalidAmount)
	}

	minor, err := valueobject.ToMinorUnits(amount)
	switch {
	case errors.Is(err, valueobject.ErrTooPrecise):
		return 0, domainerror.NewExpenseError(domainerror.ErrCodeAmountPrecision, "amount must have at most two decimal places", domainerror.ErrAmountPrecision)
	case err != nil:
		return 0, domainerror.NewExpenseError(domainerror.ErrCodeInvalidAmount, "amount is out of range", domainerror.ErrInvalidAmount)
	}
	return minor, nil
}

func findEditable(snapshot *entity.LedgerSnapshot, expenseID, userID uuid.UUID) (*entity.Expense, error) {
	existing := snapshot.Expense(expenseID)
	if existing == nil {
		return nil, notFound()
	}
	if existing.IsSettlement() {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeSettlementImmutable, "settlements cannot be edited or deleted", domainerror.ErrSettlementImmutable)
	}
	if existing.CreatedBy != userID {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeNotExpenseCreator, "only the creator can change this expense", domainerror.ErrNotExpenseCreator)
	}
	return existing, nil
}

func notFound() error {
	return domainerror.NewExpenseError(domainerror.ErrCodeExpenseNotFound, "expense not found", domainerror.ErrExpenseNotFound)
}
