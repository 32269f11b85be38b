package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// LedgerWriter applies changes to a group while a mutation is in progress.
type LedgerWriter interface {
	// CreateExpense stores a new expense or settlement.
	CreateExpense(ctx context.Context, expense *entity.Expense) error

	// UpdateExpense replaces an expense and its splits.
	UpdateExpense(ctx context.Context, expense *entity.Expense) error

	// DeleteExpense soft-deletes an expense.
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	// AddMember inserts a new group member.
	AddMember(ctx context.Context, member *entity.GroupMember) error

	// UpdateMember stores a member's status changes.
	UpdateMember(ctx context.Context, member *entity.GroupMember) error
}

// LedgerMutation validates a change against the snapshot and writes it.
// Returning an error rolls the whole mutation back.
type LedgerMutation func(ctx context.Context, snapshot *entity.LedgerSnapshot, w LedgerWriter) error

// LedgerRepository gives consistent access to a group's members and expenses.
type LedgerRepository interface {
	// LoadSnapshot reads the group, its members and live expenses in one transaction.
	LoadSnapshot(ctx context.Context, groupID uuid.UUID) (*entity.LedgerSnapshot, error)

	// Mutate runs fn inside a transaction and bumps the group version.
	// When expectedVersion is non-zero it must match the stored version.
	// Returns the new version.
	Mutate(ctx context.Context, groupID uuid.UUID, expectedVersion int64, fn LedgerMutation) (int64, error)
}
