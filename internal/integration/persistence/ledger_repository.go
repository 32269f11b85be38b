package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/persistence/model"
)

// ledgerRepository implements adapter.LedgerRepository. Each group row
// carries a version that every mutation bumps with a compare-and-swap.
type ledgerRepository struct {
	db       *gorm.DB
	timeout  time.Duration
	readOpts *sql.TxOptions
}

// NewLedgerRepository creates a new ledger repository instance.
func NewLedgerRepository(db *gorm.DB, timeout time.Duration) adapter.LedgerRepository {
	r := &ledgerRepository{
		db:      db,
		timeout: timeout,
	}
	// SQLite serialises everything on one connection already.
	if db.Dialector.Name() == "postgres" {
		r.readOpts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return r
}

// LoadSnapshot reads the group, its members and live expenses in one transaction.
func (r *ledgerRepository) LoadSnapshot(ctx context.Context, groupID uuid.UUID) (*entity.LedgerSnapshot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var snapshot *entity.LedgerSnapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snapshot, err = loadSnapshot(tx, groupID)
		return err
	}, r.readOpts)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Mutate locks the group row by bumping its version, then runs fn against a
// snapshot read in the same transaction.
func (r *ledgerRepository) Mutate(ctx context.Context, groupID uuid.UUID, expectedVersion int64, fn adapter.LedgerMutation) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var newVersion int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snapshot, err := loadSnapshot(tx, groupID)
		if err != nil {
			return err
		}

		current := snapshot.Group.Version
		if expectedVersion != 0 && expectedVersion != current {
			return domainerror.NewConcurrentModificationError()
		}

		result := tx.Model(&model.GroupModel{}).
			Where("id = ? AND version = ?", groupID, current).
			Updates(map[string]any{
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to bump group version: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domainerror.NewConcurrentModificationError()
		}

		if err := fn(ctx, snapshot, &ledgerWriter{tx: tx}); err != nil {
			return err
		}

		newVersion = current + 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

func loadSnapshot(tx *gorm.DB, groupID uuid.UUID) (*entity.LedgerSnapshot, error) {
	var groupModel model.GroupModel
	if err := tx.Where("id = ?", groupID).First(&groupModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewGroupError(domainerror.ErrCodeGroupNotFound, "group not found", domainerror.ErrGroupNotFound)
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	var memberModels []model.GroupMemberModel
	err := tx.Preload("User").
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&memberModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	var expenseModels []model.ExpenseModel
	err = tx.Preload("Splits", func(db *gorm.DB) *gorm.DB {
		return db.Order("user_id ASC")
	}).
		Where("group_id = ?", groupID).
		Order("created_at DESC, id ASC").
		Find(&expenseModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	snapshot := &entity.LedgerSnapshot{
		Group:    groupModel.ToEntity(),
		Members:  make([]*entity.GroupMember, len(memberModels)),
		Expenses: make([]*entity.Expense, len(expenseModels)),
	}
	for i := range memberModels {
		snapshot.Members[i] = memberModels[i].ToEntity()
	}
	for i := range expenseModels {
		snapshot.Expenses[i] = expenseModels[i].ToEntity()
	}
	return snapshot, nil
}

// ledgerWriter implements adapter.LedgerWriter on an open transaction.
type ledgerWriter struct {
	tx *gorm.DB
}

// CreateExpense stores a new expense with its splits.
func (w *ledgerWriter) CreateExpense(ctx context.Context, expense *entity.Expense) error {
	if err := w.tx.WithContext(ctx).Create(model.ExpenseFromEntity(expense)).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// UpdateExpense replaces an expense row and all of its splits.
func (w *ledgerWriter) UpdateExpense(ctx context.Context, expense *entity.Expense) error {
	tx := w.tx.WithContext(ctx)
	expenseModel := model.ExpenseFromEntity(expense)

	if err := tx.Where("expense_id = ?", expense.ID).Delete(&model.ExpenseSplitModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear expense splits: %w", err)
	}
	if err := tx.Omit("Splits").Save(expenseModel).Error; err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if len(expenseModel.Splits) > 0 {
		if err := tx.Create(&expenseModel.Splits).Error; err != nil {
			return fmt.Errorf("failed to store expense splits: %w", err)
		}
	}
	return nil
}

// DeleteExpense soft-deletes an expense. Its splits stay for auditing.
func (w *ledgerWriter) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if err := w.tx.WithContext(ctx).Delete(&model.ExpenseModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// AddMember inserts a new group member.
func (w *ledgerWriter) AddMember(ctx context.Context, member *entity.GroupMember) error {
	err := w.tx.WithContext(ctx).Omit("User").Create(model.GroupMemberFromEntity(member)).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domainerror.NewGroupError(domainerror.ErrCodeUserAlreadyMember, "user is already a member of this group", domainerror.ErrUserAlreadyMember)
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// UpdateMember stores a member's status changes.
func (w *ledgerWriter) UpdateMember(ctx context.Context, member *entity.GroupMember) error {
	err := w.tx.WithContext(ctx).
		Model(&model.GroupMemberModel{}).
		Where("id = ?", member.ID).
		Updates(map[string]any{
			"role":      string(member.Role),
			"status":    string(member.Status),
			"joined_at": member.JoinedAt,
			"left_at":   member.LeftAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}
