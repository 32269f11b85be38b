package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashsplit/backend/internal/application/usecase/expense"
	"github.com/cashsplit/backend/internal/domain/entity"
)

// ExpenseRequest is the body of expense create and update requests.
// Percentages is keyed by user id and only used for percentage splits.
type ExpenseRequest struct {
	Description  string                        `json:"description" binding:"required,max=255"`
	Amount       decimal.Decimal               `json:"amount"`
	PaidBy       uuid.UUID                     `json:"paidBy" binding:"required"`
	SplitBetween []uuid.UUID                   `json:"splitBetween" binding:"required,min=1"`
	SplitType    string                        `json:"splitType" binding:"required,splittype"`
	Percentages  map[uuid.UUID]decimal.Decimal `json:"percentages"`
}

// ToDetails converts the request into use case input.
func (r ExpenseRequest) ToDetails() expense.Details {
	return expense.Details{
		Description:  r.Description,
		Amount:       r.Amount,
		PaidBy:       r.PaidBy,
		SplitBetween: r.SplitBetween,
		SplitType:    entity.SplitType(r.SplitType),
		Percentages:  r.Percentages,
	}
}

// ExpenseResponse represents an expense or recorded settlement.
type ExpenseResponse struct {
	ID          string                 `json:"id"`
	Kind        string                 `json:"kind"`
	Description string                 `json:"description"`
	Amount      json.Number            `json:"amount"`
	PaidBy      UserSummaryResponse    `json:"paidBy"`
	CreatedBy   UserSummaryResponse    `json:"createdBy"`
	SplitType   string                 `json:"splitType"`
	Splits      []ExpenseSplitResponse `json:"splits"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// ExpenseSplitResponse is one participant's share of an expense.
type ExpenseSplitResponse struct {
	User       UserSummaryResponse `json:"user"`
	Share      json.Number         `json:"share"`
	Percentage json.Number         `json:"percentage,omitempty"`
}

// ExpenseMutationResponse is returned after an expense is created or updated.
type ExpenseMutationResponse struct {
	Expense ExpenseResponse `json:"expense"`
	Version int64           `json:"version"`
}

// ToExpenseResponse converts a domain Expense using lookup for display data.
func ToExpenseResponse(e *entity.Expense, lookup MemberLookup) ExpenseResponse {
	response := ExpenseResponse{
		ID:          e.ID.String(),
		Kind:        string(e.Kind),
		Description: e.Description,
		Amount:      Amount(e.Amount),
		PaidBy:      lookup.User(e.PaidBy),
		CreatedBy:   lookup.User(e.CreatedBy),
		SplitType:   string(e.SplitType),
		Splits:      make([]ExpenseSplitResponse, len(e.Splits)),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	for i, s := range e.Splits {
		split := ExpenseSplitResponse{
			User:  lookup.User(s.UserID),
			Share: Amount(s.Share),
		}
		if e.SplitType == entity.SplitTypePercentage {
			split.Percentage = json.Number(s.Percentage.String())
		}
		response.Splits[i] = split
	}

	return response
}
