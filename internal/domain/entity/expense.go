package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseKind separates ordinary expenses from recorded settlements.
type ExpenseKind string

const (
	ExpenseKindExpense    ExpenseKind = "expense"
	ExpenseKindSettlement ExpenseKind = "settlement"
)

// SplitType is the rule used to divide an expense among participants.
type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypePercentage SplitType = "percentage"
)

// IsValid checks whether the split type is supported.
func (s SplitType) IsValid() bool {
	return s == SplitTypeEqual || s == SplitTypePercentage
}

// ExpenseSplit is one participant's owed part of an expense, in minor units.
// Percentage is zero for equal splits.
type ExpenseSplit struct {
	UserID     uuid.UUID
	Share      int64
	Percentage decimal.Decimal
}

// Expense is an amount paid by one member on behalf of some participants.
// Amount is in minor currency units.
type Expense struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	Kind        ExpenseKind
	Description string
	Amount      int64
	PaidBy      uuid.UUID
	CreatedBy   uuid.UUID
	SplitType   SplitType
	Splits      []ExpenseSplit
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpense creates a new ordinary Expense.
func NewExpense(groupID uuid.UUID, description string, amount int64, paidBy, createdBy uuid.UUID, splitType SplitType, splits []ExpenseSplit) *Expense {
	now := time.Now().UTC()
	return &Expense{
		ID:          uuid.New(),
		GroupID:     groupID,
		Kind:        ExpenseKindExpense,
		Description: description,
		Amount:      amount,
		PaidBy:      paidBy,
		CreatedBy:   createdBy,
		SplitType:   splitType,
		Splits:      splits,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSettlement creates the record of payer paying amount to payee.
func NewSettlement(groupID, payer, payee uuid.UUID, amount int64) *Expense {
	e := NewExpense(groupID, "Settlement", amount, payer, payer, SplitTypeEqual, []ExpenseSplit{
		{UserID: payee, Share: amount},
	})
	e.Kind = ExpenseKindSettlement
	return e
}

// IsSettlement reports whether the record is a recorded payment.
func (e *Expense) IsSettlement() bool {
	return e.Kind == ExpenseKindSettlement
}

// Participants returns the ids of everyone the expense is split between.
func (e *Expense) Participants() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Splits))
	for _, s := range e.Splits {
		ids = append(ids, s.UserID)
	}
	return ids
}

// Shares returns each participant's owed share.
func (e *Expense) Shares() map[uuid.UUID]int64 {
	shares := make(map[uuid.UUID]int64, len(e.Splits))
	for _, s := range e.Splits {
		shares[s.UserID] += s.Share
	}
	return shares
}

// HasParticipant checks whether userID is among the participants.
func (e *Expense) HasParticipant(userID uuid.UUID) bool {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
