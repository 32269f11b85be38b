package expense

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/persistence"
	"github.com/cashsplit/backend/internal/testutil"
)

type fixture struct {
	ledgerRepo adapter.LedgerRepository
	create     *CreateExpenseUseCase
	update     *UpdateExpenseUseCase
	remove     *DeleteExpenseUseCase
	get        *GetExpenseUseCase
	group      *entity.Group
	alice      *entity.User
	bob        *entity.User
	carol      *entity.User
}

// newFixture builds a group where alice and bob are active and carol has left.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := testutil.NewTestDB(t)
	ledgerRepo := persistence.NewLedgerRepository(db, time.Second)
	f := &fixture{
		ledgerRepo: ledgerRepo,
		create:     NewCreateExpenseUseCase(ledgerRepo),
		update:     NewUpdateExpenseUseCase(ledgerRepo),
		remove:     NewDeleteExpenseUseCase(ledgerRepo),
		get:        NewGetExpenseUseCase(ledgerRepo),
		alice:      testutil.CreateUser(t, db, "Alice", "alice@example.com"),
		bob:        testutil.CreateUser(t, db, "Bob", "bob@example.com"),
		carol:      testutil.CreateUser(t, db, "Carol", "carol@example.com"),
	}

	f.group = entity.NewGroup("Flat", f.alice.ID)
	owner := entity.NewGroupMember(f.group.ID, f.alice.ID, entity.MemberRoleAdmin)
	require.NoError(t, persistence.NewGroupRepository(db, time.Second).CreateGroup(ctx, f.group, owner))

	_, err := ledgerRepo.Mutate(ctx, f.group.ID, 0, func(ctx context.Context, _ *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
		if err := w.AddMember(ctx, entity.NewGroupMember(f.group.ID, f.bob.ID, entity.MemberRoleMember)); err != nil {
			return err
		}
		carol := entity.NewGroupMember(f.group.ID, f.carol.ID, entity.MemberRoleMember)
		carol.Leave()
		return w.AddMember(ctx, carol)
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) details(amount string, paidBy uuid.UUID, participants ...uuid.UUID) Details {
	return Details{
		Description:  "Dinner",
		Amount:       decimal.RequireFromString(amount),
		PaidBy:       paidBy,
		SplitBetween: participants,
		SplitType:    entity.SplitTypeEqual,
	}
}

func expenseCode(t *testing.T, err error) domainerror.ExpenseErrorCode {
	t.Helper()
	var expenseErr *domainerror.ExpenseError
	require.ErrorAs(t, err, &expenseErr)
	return expenseErr.Code
}

func groupCode(t *testing.T, err error) domainerror.GroupErrorCode {
	t.Helper()
	var groupErr *domainerror.GroupError
	require.ErrorAs(t, err, &groupErr)
	return groupErr.Code
}

func TestCreateExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.create.Execute(ctx, CreateExpenseInput{
		GroupID: f.group.ID,
		UserID:  f.alice.ID,
		Details: f.details("10.01", f.alice.ID, f.alice.ID, f.bob.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), out.Expense.Amount)
	assert.Equal(t, int64(3), out.Version)

	shares := out.Expense.Shares()
	assert.Equal(t, int64(1001), shares[f.alice.ID]+shares[f.bob.ID])
	assert.LessOrEqual(t, shares[f.alice.ID]-shares[f.bob.ID], int64(1))
	assert.GreaterOrEqual(t, shares[f.alice.ID]-shares[f.bob.ID], int64(-1))
}

func TestCreateExpense_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	percentages := f.details("100", f.alice.ID, f.alice.ID, f.bob.ID)
	percentages.SplitType = entity.SplitTypePercentage
	percentages.Percentages = map[uuid.UUID]decimal.Decimal{
		f.alice.ID: decimal.NewFromInt(60),
		f.bob.ID:   decimal.NewFromInt(30),
	}

	blank := f.details("10", f.alice.ID, f.alice.ID)
	blank.Description = "   "

	tests := []struct {
		name    string
		details Details
		code    domainerror.ExpenseErrorCode
	}{
		{"zero amount", f.details("0", f.alice.ID, f.alice.ID), domainerror.ErrCodeInvalidAmount},
		{"negative amount", f.details("-5", f.alice.ID, f.alice.ID), domainerror.ErrCodeInvalidAmount},
		{"sub-cent amount", f.details("1.005", f.alice.ID, f.alice.ID), domainerror.ErrCodeAmountPrecision},
		{"no participants", f.details("10", f.alice.ID), domainerror.ErrCodeNoParticipants},
		{"duplicate participant", f.details("10", f.alice.ID, f.bob.ID, f.bob.ID), domainerror.ErrCodeDuplicateParticipant},
		{"inactive participant", f.details("10", f.alice.ID, f.alice.ID, f.carol.ID), domainerror.ErrCodeParticipantNotEligible},
		{"inactive payer", f.details("10", f.carol.ID, f.alice.ID), domainerror.ErrCodePayerNotEligible},
		{"stranger participant", f.details("10", f.alice.ID, uuid.New()), domainerror.ErrCodeParticipantNotEligible},
		{"percentages off", percentages, domainerror.ErrCodePercentageSum},
		{"blank description", blank, domainerror.ErrCodeDescriptionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(ctx, CreateExpenseInput{GroupID: f.group.ID, UserID: f.alice.ID, Details: tt.details})
			assert.Equal(t, tt.code, expenseCode(t, err))
		})
	}

	snapshot, err := f.ledgerRepo.LoadSnapshot(ctx, f.group.ID)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Expenses)
	assert.Equal(t, int64(2), snapshot.Group.Version)
}

func TestUpdateExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.create.Execute(ctx, CreateExpenseInput{
		GroupID: f.group.ID,
		UserID:  f.alice.ID,
		Details: f.details("30", f.alice.ID, f.alice.ID, f.bob.ID),
	})
	require.NoError(t, err)

	t.Run("creator edits", func(t *testing.T) {
		details := f.details("45", f.bob.ID, f.alice.ID, f.bob.ID)
		details.Description = "Dinner and drinks"

		out, err := f.update.Execute(ctx, UpdateExpenseInput{
			GroupID:   f.group.ID,
			ExpenseID: created.Expense.ID,
			UserID:    f.alice.ID,
			Version:   created.Version,
			Details:   details,
		})
		require.NoError(t, err)
		assert.Equal(t, created.Version+1, out.Version)

		got, err := f.get.Execute(ctx, GetExpenseInput{GroupID: f.group.ID, ExpenseID: created.Expense.ID, UserID: f.bob.ID})
		require.NoError(t, err)
		assert.Equal(t, "Dinner and drinks", got.Expense.Description)
		assert.Equal(t, int64(4500), got.Expense.Amount)
		assert.Equal(t, f.bob.ID, got.Expense.PaidBy)
		assert.Equal(t, f.alice.ID, got.Expense.CreatedBy)
	})

	t.Run("other member may not edit", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateExpenseInput{
			GroupID:   f.group.ID,
			ExpenseID: created.Expense.ID,
			UserID:    f.bob.ID,
			Details:   f.details("10", f.bob.ID, f.bob.ID),
		})
		assert.Equal(t, domainerror.ErrCodeNotExpenseCreator, expenseCode(t, err))
	})

	t.Run("stale version", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateExpenseInput{
			GroupID:   f.group.ID,
			ExpenseID: created.Expense.ID,
			UserID:    f.alice.ID,
			Version:   created.Version,
			Details:   f.details("10", f.alice.ID, f.alice.ID),
		})
		var ledgerErr *domainerror.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Equal(t, domainerror.ErrCodeConcurrentModification, ledgerErr.Code)
	})

	t.Run("unknown expense", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateExpenseInput{
			GroupID:   f.group.ID,
			ExpenseID: uuid.New(),
			UserID:    f.alice.ID,
			Details:   f.details("10", f.alice.ID, f.alice.ID),
		})
		assert.Equal(t, domainerror.ErrCodeExpenseNotFound, expenseCode(t, err))
	})
}

func TestUpdateExpense_KeepsFormerParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// carol took part while still active, then left.
	expense := entity.NewExpense(f.group.ID, "Rent", 900, f.alice.ID, f.alice.ID, entity.SplitTypeEqual, []entity.ExpenseSplit{
		{UserID: f.alice.ID, Share: 450},
		{UserID: f.carol.ID, Share: 450},
	})
	_, err := f.ledgerRepo.Mutate(ctx, f.group.ID, 0, func(ctx context.Context, _ *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
		return w.CreateExpense(ctx, expense)
	})
	require.NoError(t, err)

	t.Run("same shares", func(t *testing.T) {
		details := f.details("9", f.alice.ID, f.alice.ID, f.carol.ID)
		details.Description = "Rent for March"

		out, err := f.update.Execute(ctx, UpdateExpenseInput{
			GroupID:   f.group.ID,
			ExpenseID: expense.ID,
			UserID:    f.alice.ID,
			Details:   details,
		})
		require.NoError(t, err)
		assert.Equal(t, "Rent for March", out.Expense.Description)
	})

	t.Run("new amount moves carol's balance", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateExpenseInput{
			GroupID:   f.group.ID,
			ExpenseID: expense.ID,
			UserID:    f.alice.ID,
			Details:   f.details("10", f.alice.ID, f.alice.ID, f.carol.ID),
		})
		assert.Equal(t, domainerror.ErrCodeFormerMemberBalance, groupCode(t, err))
	})

	t.Run("inactive payer", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateExpenseInput{
			GroupID:   f.group.ID,
			ExpenseID: expense.ID,
			UserID:    f.alice.ID,
			Details:   f.details("9", f.carol.ID, f.alice.ID, f.carol.ID),
		})
		assert.Equal(t, domainerror.ErrCodePayerNotEligible, expenseCode(t, err))
	})
}

func TestFormerMemberBalanceStaysSettled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dinner, err := f.create.Execute(ctx, CreateExpenseInput{
		GroupID: f.group.ID,
		UserID:  f.alice.ID,
		Details: f.details("100", f.alice.ID, f.alice.ID, f.bob.ID),
	})
	require.NoError(t, err)

	// bob pays his half back and leaves at zero.
	_, err = f.ledgerRepo.Mutate(ctx, f.group.ID, 0, func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
		if err := w.CreateExpense(ctx, entity.NewSettlement(f.group.ID, f.bob.ID, f.alice.ID, 5000)); err != nil {
			return err
		}
		bob := snapshot.Member(f.bob.ID)
		bob.Leave()
		return w.UpdateMember(ctx, bob)
	})
	require.NoError(t, err)

	_, err = f.update.Execute(ctx, UpdateExpenseInput{
		GroupID:   f.group.ID,
		ExpenseID: dinner.Expense.ID,
		UserID:    f.alice.ID,
		Details:   f.details("1000", f.alice.ID, f.alice.ID, f.bob.ID),
	})
	assert.Equal(t, domainerror.ErrCodeFormerMemberBalance, groupCode(t, err))

	_, err = f.remove.Execute(ctx, DeleteExpenseInput{GroupID: f.group.ID, ExpenseID: dinner.Expense.ID, UserID: f.alice.ID})
	assert.Equal(t, domainerror.ErrCodeFormerMemberBalance, groupCode(t, err))

	snapshot, err := f.ledgerRepo.LoadSnapshot(ctx, f.group.ID)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Expense(dinner.Expense.ID))
	assert.Equal(t, int64(10000), snapshot.Expense(dinner.Expense.ID).Amount)

	renamed := f.details("100", f.alice.ID, f.alice.ID, f.bob.ID)
	renamed.Description = "Dinner at Leela's"
	_, err = f.update.Execute(ctx, UpdateExpenseInput{
		GroupID:   f.group.ID,
		ExpenseID: dinner.Expense.ID,
		UserID:    f.alice.ID,
		Details:   renamed,
	})
	require.NoError(t, err)
}

func TestDeleteExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.create.Execute(ctx, CreateExpenseInput{
		GroupID: f.group.ID,
		UserID:  f.bob.ID,
		Details: f.details("20", f.bob.ID, f.alice.ID, f.bob.ID),
	})
	require.NoError(t, err)

	_, err = f.remove.Execute(ctx, DeleteExpenseInput{GroupID: f.group.ID, ExpenseID: created.Expense.ID, UserID: f.alice.ID})
	assert.Equal(t, domainerror.ErrCodeNotExpenseCreator, expenseCode(t, err))

	_, err = f.remove.Execute(ctx, DeleteExpenseInput{GroupID: f.group.ID, ExpenseID: created.Expense.ID, UserID: f.bob.ID})
	require.NoError(t, err)

	_, err = f.get.Execute(ctx, GetExpenseInput{GroupID: f.group.ID, ExpenseID: created.Expense.ID, UserID: f.bob.ID})
	assert.Equal(t, domainerror.ErrCodeExpenseNotFound, expenseCode(t, err))
}

func TestSettlementsAreImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	settlement := entity.NewSettlement(f.group.ID, f.bob.ID, f.alice.ID, 500)
	_, err := f.ledgerRepo.Mutate(ctx, f.group.ID, 0, func(ctx context.Context, _ *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
		return w.CreateExpense(ctx, settlement)
	})
	require.NoError(t, err)

	_, err = f.update.Execute(ctx, UpdateExpenseInput{
		GroupID:   f.group.ID,
		ExpenseID: settlement.ID,
		UserID:    f.bob.ID,
		Details:   f.details("10", f.bob.ID, f.alice.ID),
	})
	assert.Equal(t, domainerror.ErrCodeSettlementImmutable, expenseCode(t, err))

	_, err = f.remove.Execute(ctx, DeleteExpenseInput{GroupID: f.group.ID, ExpenseID: settlement.ID, UserID: f.bob.ID})
	assert.Equal(t, domainerror.ErrCodeSettlementImmutable, expenseCode(t, err))
}
