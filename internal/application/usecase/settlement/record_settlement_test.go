package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/application/usecase/balance"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/cache"
	"github.com/cashsplit/backend/internal/integration/persistence"
	"github.com/cashsplit/backend/internal/testutil"
)

// newScenario seeds alice paying 300.00 split equally between alice, bob
// and carol, so bob and carol each owe alice 100.00.
func newScenario(t *testing.T) (*RecordSettlementUseCase, *balance.GetBalancesUseCase, *testutil.EmailRecorder, *entity.Group, []*entity.User) {
	t.Helper()
	ctx := context.Background()

	db := testutil.NewTestDB(t)
	ledgerRepo := persistence.NewLedgerRepository(db, time.Second)
	calculator := balance.NewCalculator(cache.NoopBalanceCache{})
	emails := &testutil.EmailRecorder{}

	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")
	carol := testutil.CreateUser(t, db, "Carol", "carol@example.com")

	group := entity.NewGroup("Trip", alice.ID)
	require.NoError(t, persistence.NewGroupRepository(db, time.Second).CreateGroup(ctx, group,
		entity.NewGroupMember(group.ID, alice.ID, entity.MemberRoleAdmin)))

	_, err := ledgerRepo.Mutate(ctx, group.ID, 0, func(ctx context.Context, _ *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
		for _, u := range []*entity.User{bob, carol} {
			if err := w.AddMember(ctx, entity.NewGroupMember(group.ID, u.ID, entity.MemberRoleMember)); err != nil {
				return err
			}
		}
		return w.CreateExpense(ctx, entity.NewExpense(group.ID, "Hotel", 30000, alice.ID, alice.ID, entity.SplitTypeEqual, []entity.ExpenseSplit{
			{UserID: alice.ID, Share: 10000},
			{UserID: bob.ID, Share: 10000},
			{UserID: carol.ID, Share: 10000},
		}))
	})
	require.NoError(t, err)

	return NewRecordSettlementUseCase(ledgerRepo, calculator, emails),
		balance.NewGetBalancesUseCase(ledgerRepo, calculator),
		emails, group, []*entity.User{alice, bob, carol}
}

func expenseCode(t *testing.T, err error) domainerror.ExpenseErrorCode {
	t.Helper()
	var expenseErr *domainerror.ExpenseError
	require.ErrorAs(t, err, &expenseErr)
	return expenseErr.Code
}

func TestRecordSettlement(t *testing.T) {
	record, balances, emails, group, users := newScenario(t)
	alice, bob := users[0], users[1]
	ctx := context.Background()

	out, err := record.Execute(ctx, RecordSettlementInput{
		GroupID: group.ID,
		UserID:  bob.ID,
		PayeeID: alice.ID,
		Amount:  decimal.RequireFromString("40.50"),
	})
	require.NoError(t, err)
	assert.True(t, out.Settlement.IsSettlement())
	assert.Equal(t, int64(4050), out.Settlement.Amount)

	got, err := balances.Execute(ctx, balance.GetBalancesInput{GroupID: group.ID, UserID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, out.Version, got.Summary.Version)
	assert.Equal(t, int64(-5950), got.Summary.Balances[bob.ID])
	assert.Equal(t, int64(15950), got.Summary.Balances[alice.ID])

	require.Len(t, emails.Settlements, 1)
	assert.Equal(t, "alice@example.com", emails.Settlements[0].PayeeEmail)
	assert.Equal(t, "40.50", emails.Settlements[0].Amount)

	// Paying the rest clears bob.
	_, err = record.Execute(ctx, RecordSettlementInput{
		GroupID: group.ID,
		UserID:  bob.ID,
		PayeeID: alice.ID,
		Amount:  decimal.RequireFromString("59.50"),
	})
	require.NoError(t, err)

	got, err = balances.Execute(ctx, balance.GetBalancesInput{GroupID: group.ID, UserID: alice.ID})
	require.NoError(t, err)
	assert.Zero(t, got.Summary.Balances[bob.ID])
	assert.Equal(t, []entity.SettlementTransaction{{From: users[2].ID, To: alice.ID, Amount: 10000}}, got.Summary.Transactions)
}

func TestRecordSettlement_Rejected(t *testing.T) {
	record, _, emails, group, users := newScenario(t)
	alice, bob, carol := users[0], users[1], users[2]
	ctx := context.Background()

	tests := []struct {
		name   string
		payer  uuid.UUID
		payee  uuid.UUID
		amount string
		code   domainerror.ExpenseErrorCode
	}{
		{"more than owed", bob.ID, alice.ID, "100.01", domainerror.ErrCodeSettlementExceedsPlan},
		{"creditor paying", alice.ID, bob.ID, "10", domainerror.ErrCodeNothingToSettle},
		{"between debtors", bob.ID, carol.ID, "10", domainerror.ErrCodeNothingToSettle},
		{"to self", bob.ID, bob.ID, "10", domainerror.ErrCodeSettlementSelf},
		{"zero", bob.ID, alice.ID, "0", domainerror.ErrCodeInvalidAmount},
		{"sub-cent", bob.ID, alice.ID, "0.001", domainerror.ErrCodeAmountPrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := record.Execute(ctx, RecordSettlementInput{
				GroupID: group.ID,
				UserID:  tt.payer,
				PayeeID: tt.payee,
				Amount:  decimal.RequireFromString(tt.amount),
			})
			assert.Equal(t, tt.code, expenseCode(t, err))
		})
	}

	t.Run("payee outside the group", func(t *testing.T) {
		_, err := record.Execute(ctx, RecordSettlementInput{
			GroupID: group.ID,
			UserID:  bob.ID,
			PayeeID: uuid.New(),
			Amount:  decimal.NewFromInt(10),
		})
		var groupErr *domainerror.GroupError
		require.ErrorAs(t, err, &groupErr)
		assert.Equal(t, domainerror.ErrCodeNotGroupMember, groupErr.Code)
	})

	assert.Empty(t, emails.Settlements)
}

func TestRecordSettlement_FormerMemberPaysOff(t *testing.T) {
	record, balances, _, group, users := newScenario(t)
	alice, carol := users[0], users[2]
	ctx := context.Background()

	// carol left while still owing, before leaving required a zero balance.
	_, err := record.ledgerRepo.Mutate(ctx, group.ID, 0, func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
		member := snapshot.Member(carol.ID)
		member.Leave()
		return w.UpdateMember(ctx, member)
	})
	require.NoError(t, err)

	_, err = record.Execute(ctx, RecordSettlementInput{
		GroupID: group.ID,
		UserID:  carol.ID,
		PayeeID: alice.ID,
		Amount:  decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	got, err := balances.Execute(ctx, balance.GetBalancesInput{GroupID: group.ID, UserID: alice.ID})
	require.NoError(t, err)
	assert.Zero(t, got.Summary.Balances[carol.ID])

	_, err = record.Execute(ctx, RecordSettlementInput{
		GroupID: group.ID,
		UserID:  carol.ID,
		PayeeID: alice.ID,
		Amount:  decimal.NewFromInt(1),
	})
	assert.Equal(t, domainerror.ErrCodeNothingToSettle, expenseCode(t, err))
}
