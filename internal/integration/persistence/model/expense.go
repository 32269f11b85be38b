package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// ExpenseModel represents the expenses table. Amounts are minor units.
type ExpenseModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	GroupID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	Kind        string              `gorm:"type:varchar(20);not null;default:'expense'"`
	Description string              `gorm:"type:varchar(255);not null"`
	Amount      int64               `gorm:"not null"`
	PaidBy      uuid.UUID           `gorm:"type:uuid;not null"`
	CreatedBy   uuid.UUID           `gorm:"type:uuid;not null"`
	SplitType   string              `gorm:"type:varchar(20);not null"`
	Splits      []ExpenseSplitModel `gorm:"foreignKey:ExpenseID"`
	CreatedAt   time.Time           `gorm:"not null"`
	UpdatedAt   time.Time           `gorm:"not null"`
	DeletedAt   gorm.DeletedAt      `gorm:"index"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ExpenseSplitModel represents one participant's share of an expense.
type ExpenseSplitModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExpenseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null"`
	Share      int64           `gorm:"not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
}

// TableName returns the table name for the ExpenseSplitModel.
func (ExpenseSplitModel) TableName() string {
	return "expense_splits"
}

// ToEntity converts an ExpenseModel and its preloaded splits to a domain Expense.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	splits := make([]entity.ExpenseSplit, len(m.Splits))
	for i, s := range m.Splits {
		splits[i] = entity.ExpenseSplit{
			UserID:     s.UserID,
			Share:      s.Share,
			Percentage: s.Percentage,
		}
	}

	return &entity.Expense{
		ID:          m.ID,
		GroupID:     m.GroupID,
		Kind:        entity.ExpenseKind(m.Kind),
		Description: m.Description,
		Amount:      m.Amount,
		PaidBy:      m.PaidBy,
		CreatedBy:   m.CreatedBy,
		SplitType:   entity.SplitType(m.SplitType),
		Splits:      splits,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ExpenseFromEntity creates an ExpenseModel with its split rows from a domain Expense.
func ExpenseFromEntity(expense *entity.Expense) *ExpenseModel {
	splits := make([]ExpenseSplitModel, len(expense.Splits))
	for i, s := range expense.Splits {
		splits[i] = ExpenseSplitModel{
			ID:         uuid.New(),
			ExpenseID:  expense.ID,
			UserID:     s.UserID,
			Share:      s.Share,
			Percentage: s.Percentage,
		}
	}

	return &ExpenseModel{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		Kind:        string(expense.Kind),
		Description: expense.Description,
		Amount:      expense.Amount,
		PaidBy:      expense.PaidBy,
		CreatedBy:   expense.CreatedBy,
		SplitType:   string(expense.SplitType),
		Splits:      splits,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}
