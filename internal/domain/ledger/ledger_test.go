package ledger

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	bob   = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	carol = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	dave  = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expenseCode(t *testing.T, err error) domainerror.ExpenseErrorCode {
	t.Helper()
	var expErr *domainerror.ExpenseError
	require.True(t, errors.As(err, &expErr), "expected ExpenseError, got %v", err)
	return expErr.Code
}

func TestResolveSplit_Equal(t *testing.T) {
	tests := []struct {
		name         string
		amount       int64
		participants []uuid.UUID
		want         map[uuid.UUID]int64
	}{
		{
			name:         "divides evenly",
			amount:       10000,
			participants: []uuid.UUID{alice, bob},
			want:         map[uuid.UUID]int64{alice: 5000, bob: 5000},
		},
		{
			name:         "remainder goes to lowest id",
			amount:       10000,
			participants: []uuid.UUID{carol, bob, alice},
			want:         map[uuid.UUID]int64{alice: 3334, bob: 3333, carol: 3333},
		},
		{
			name:         "remainder of two",
			amount:       11,
			participants: []uuid.UUID{dave, carol, bob},
			want:         map[uuid.UUID]int64{bob: 4, carol: 4, dave: 3},
		},
		{
			name:         "amount smaller than participants",
			amount:       2,
			participants: []uuid.UUID{alice, bob, carol},
			want:         map[uuid.UUID]int64{alice: 1, bob: 1, carol: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSplit(SplitSpec{Amount: tt.amount, Type: entity.SplitTypeEqual, Participants: tt.participants})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSplit_Percentage(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		percentages map[uuid.UUID]decimal.Decimal
		want        map[uuid.UUID]int64
	}{
		{
			name:        "scenario C shares",
			amount:      10000,
			percentages: map[uuid.UUID]decimal.Decimal{alice: pct("50"), bob: pct("30"), carol: pct("20")},
			want:        map[uuid.UUID]int64{alice: 5000, bob: 3000, carol: 2000},
		},
		{
			name:        "largest share absorbs rounding",
			amount:      10000,
			percentages: map[uuid.UUID]decimal.Decimal{alice: pct("33.33"), bob: pct("33.33"), carol: pct("33.34")},
			want:        map[uuid.UUID]int64{alice: 3333, bob: 3333, carol: 3334},
		},
		{
			name:        "rounds half up",
			amount:      1,
			percentages: map[uuid.UUID]decimal.Decimal{alice: pct("50"), bob: pct("50")},
			want:        map[uuid.UUID]int64{alice: 0, bob: 1},
		},
		{
			name:        "within tolerance",
			amount:      1000,
			percentages: map[uuid.UUID]decimal.Decimal{alice: pct("33.33"), bob: pct("33.33"), carol: pct("33.33")},
			want:        map[uuid.UUID]int64{alice: 334, bob: 333, carol: 333},
		},
		{
			name:        "drift larger than any share",
			amount:      2,
			percentages: map[uuid.UUID]decimal.Decimal{alice: pct("25"), bob: pct("25"), carol: pct("25"), dave: pct("25")},
			want:        map[uuid.UUID]int64{alice: 0, bob: 0, carol: 1, dave: 1},
		},
		{
			name:        "zero percent participant",
			amount:      500,
			percentages: map[uuid.UUID]decimal.Decimal{alice: pct("100"), bob: pct("0")},
			want:        map[uuid.UUID]int64{alice: 500, bob: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants := make([]uuid.UUID, 0, len(tt.percentages))
			for id := range tt.percentages {
				participants = append(participants, id)
			}

			got, err := ResolveSplit(SplitSpec{
				Amount:       tt.amount,
				Type:         entity.SplitTypePercentage,
				Participants: participants,
				Percentages:  tt.percentages,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSplit_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec SplitSpec
		want domainerror.ExpenseErrorCode
	}{
		{
			name: "zero amount",
			spec: SplitSpec{Amount: 0, Type: entity.SplitTypeEqual, Participants: []uuid.UUID{alice}},
			want: domainerror.ErrCodeInvalidAmount,
		},
		{
			name: "negative amount",
			spec: SplitSpec{Amount: -100, Type: entity.SplitTypeEqual, Participants: []uuid.UUID{alice}},
			want: domainerror.ErrCodeInvalidAmount,
		},
		{
			name: "no participants",
			spec: SplitSpec{Amount: 100, Type: entity.SplitTypeEqual},
			want: domainerror.ErrCodeNoParticipants,
		},
		{
			name: "duplicate participant",
			spec: SplitSpec{Amount: 100, Type: entity.SplitTypeEqual, Participants: []uuid.UUID{alice, alice}},
			want: domainerror.ErrCodeDuplicateParticipant,
		},
		{
			name: "unknown split type",
			spec: SplitSpec{Amount: 100, Type: "shares", Participants: []uuid.UUID{alice}},
			want: domainerror.ErrCodeInvalidSplitType,
		},
		{
			name: "scenario D percentages sum to 101",
			spec: SplitSpec{
				Amount:       10000,
				Type:         entity.SplitTypePercentage,
				Participants: []uuid.UUID{alice, bob, carol},
				Percentages:  map[uuid.UUID]decimal.Decimal{alice: pct("51"), bob: pct("30"), carol: pct("20")},
			},
			want: domainerror.ErrCodePercentageSum,
		},
		{
			name: "just outside tolerance",
			spec: SplitSpec{
				Amount:       10000,
				Type:         entity.SplitTypePercentage,
				Participants: []uuid.UUID{alice, bob},
				Percentages:  map[uuid.UUID]decimal.Decimal{alice: pct("50"), bob: pct("49.989")},
			},
			want: domainerror.ErrCodePercentageSum,
		},
		{
			name: "percentage for non participant",
			spec: SplitSpec{
				Amount:       10000,
				Type:         entity.SplitTypePercentage,
				Participants: []uuid.UUID{alice, bob},
				Percentages:  map[uuid.UUID]decimal.Decimal{alice: pct("50"), carol: pct("50")},
			},
			want: domainerror.ErrCodePercentageMismatch,
		},
		{
			name: "missing percentage",
			spec: SplitSpec{
				Amount:       10000,
				Type:         entity.SplitTypePercentage,
				Participants: []uuid.UUID{alice, bob},
				Percentages:  map[uuid.UUID]decimal.Decimal{alice: pct("100")},
			},
			want: domainerror.ErrCodePercentageMismatch,
		},
		{
			name: "negative percentage",
			spec: SplitSpec{
				Amount:       10000,
				Type:         entity.SplitTypePercentage,
				Participants: []uuid.UUID{alice, bob},
				Percentages:  map[uuid.UUID]decimal.Decimal{alice: pct("110"), bob: pct("-10")},
			},
			want: domainerror.ErrCodeNegativePercentage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveSplit(tt.spec)
			require.Error(t, err)
			assert.Equal(t, tt.want, expenseCode(t, err))
		})
	}
}

func TestBuildSplits_OrderedByID(t *testing.T) {
	splits, err := BuildSplits(SplitSpec{
		Amount:       10000,
		Type:         entity.SplitTypePercentage,
		Participants: []uuid.UUID{carol, alice, bob},
		Percentages:  map[uuid.UUID]decimal.Decimal{alice: pct("50"), bob: pct("30"), carol: pct("20")},
	})
	require.NoError(t, err)
	require.Len(t, splits, 3)

	assert.Equal(t, alice, splits[0].UserID)
	assert.Equal(t, bob, splits[1].UserID)
	assert.Equal(t, carol, splits[2].UserID)
	assert.True(t, splits[1].Percentage.Equal(pct("30")))
	assert.Equal(t, int64(2000), splits[2].Share)
}

func equalExpense(payer uuid.UUID, amount int64, participants ...uuid.UUID) *entity.Expense {
	splits, err := BuildSplits(SplitSpec{Amount: amount, Type: entity.SplitTypeEqual, Participants: participants})
	if err != nil {
		panic(err)
	}
	return entity.NewExpense(uuid.Nil, "test", amount, payer, payer, entity.SplitTypeEqual, splits)
}

func snapshotOf(members []uuid.UUID, expenses ...*entity.Expense) *entity.LedgerSnapshot {
	group := entity.NewGroup("test", members[0])
	snapshot := &entity.LedgerSnapshot{Group: group, Expenses: expenses}
	for _, id := range members {
		snapshot.Members = append(snapshot.Members, entity.NewGroupMember(group.ID, id, entity.MemberRoleMember))
	}
	return snapshot
}

func TestScenarios(t *testing.T) {
	t.Run("A: two members equal split", func(t *testing.T) {
		summary, err := Summarize(snapshotOf([]uuid.UUID{alice, bob}, equalExpense(alice, 10000, alice, bob)))
		require.NoError(t, err)

		assert.Equal(t, Balances{alice: 5000, bob: -5000}, Balances(summary.Balances))
		assert.Equal(t, []entity.SettlementTransaction{{From: bob, To: alice, Amount: 5000}}, summary.Transactions)
	})

	t.Run("B: three members equal split with remainder", func(t *testing.T) {
		summary, err := Summarize(snapshotOf([]uuid.UUID{alice, bob, carol}, equalExpense(alice, 10000, alice, bob, carol)))
		require.NoError(t, err)

		assert.Equal(t, Balances{alice: 6666, bob: -3333, carol: -3333}, Balances(summary.Balances))
		assert.Equal(t, []entity.SettlementTransaction{
			{From: bob, To: alice, Amount: 3333},
			{From: carol, To: alice, Amount: 3333},
		}, summary.Transactions)
	})

	t.Run("C: percentage split", func(t *testing.T) {
		splits, err := BuildSplits(SplitSpec{
			Amount:       10000,
			Type:         entity.SplitTypePercentage,
			Participants: []uuid.UUID{alice, bob, carol},
			Percentages:  map[uuid.UUID]decimal.Decimal{alice: pct("50"), bob: pct("30"), carol: pct("20")},
		})
		require.NoError(t, err)
		expense := entity.NewExpense(uuid.Nil, "dinner", 10000, alice, alice, entity.SplitTypePercentage, splits)

		summary, err := Summarize(snapshotOf([]uuid.UUID{alice, bob, carol}, expense))
		require.NoError(t, err)
		assert.Equal(t, Balances{alice: 5000, bob: -3000, carol: -2000}, Balances(summary.Balances))
	})

	t.Run("E: settlement clears scenario A", func(t *testing.T) {
		snapshot := snapshotOf([]uuid.UUID{alice, bob}, equalExpense(alice, 10000, alice, bob))
		before, err := Summarize(snapshot)
		require.NoError(t, err)
		require.NoError(t, CheckSettlement(before, bob, alice, 5000))

		snapshot.Expenses = append(snapshot.Expenses, entity.NewSettlement(snapshot.Group.ID, bob, alice, 5000))
		after, err := Summarize(snapshot)
		require.NoError(t, err)

		assert.Equal(t, Balances{alice: 0, bob: 0}, Balances(after.Balances))
		assert.Empty(t, after.Transactions)
	})
}

func TestComputeBalances(t *testing.T) {
	t.Run("members without expenses start at zero", func(t *testing.T) {
		b, err := ComputeBalances([]uuid.UUID{alice, bob, dave}, EntriesFromExpenses([]*entity.Expense{equalExpense(alice, 10000, alice, bob)}))
		require.NoError(t, err)
		assert.Equal(t, Balances{alice: 5000, bob: -5000, dave: 0}, b)
	})

	t.Run("historical participant not in member list is counted", func(t *testing.T) {
		b, err := ComputeBalances([]uuid.UUID{alice}, EntriesFromExpenses([]*entity.Expense{equalExpense(alice, 300, alice, carol)}))
		require.NoError(t, err)
		assert.Equal(t, Balances{alice: 150, carol: -150}, b)
	})

	t.Run("entry whose shares do not cover the amount", func(t *testing.T) {
		_, err := ComputeBalances([]uuid.UUID{alice, bob}, []Entry{{Payer: alice, Amount: 100, Shares: map[uuid.UUID]int64{bob: 90}}})
		require.Error(t, err)

		var ledgerErr *domainerror.LedgerError
		require.True(t, errors.As(err, &ledgerErr))
		assert.Equal(t, domainerror.ErrCodeLedgerInconsistency, ledgerErr.Code)
		assert.ErrorIs(t, err, domainerror.ErrLedgerInconsistency)
	})
}

func TestPlanSettlements(t *testing.T) {
	t.Run("empty balances", func(t *testing.T) {
		plan, err := PlanSettlements(Balances{alice: 0, bob: 0})
		require.NoError(t, err)
		assert.Empty(t, plan)
	})

	t.Run("largest debtor pays largest creditor first", func(t *testing.T) {
		plan, err := PlanSettlements(Balances{alice: 7000, bob: -1000, carol: 3000, dave: -9000})
		require.NoError(t, err)
		assert.Equal(t, []entity.SettlementTransaction{
			{From: dave, To: alice, Amount: 7000},
			{From: dave, To: carol, Amount: 2000},
			{From: bob, To: carol, Amount: 1000},
		}, plan)
	})

	t.Run("ties resolved by id", func(t *testing.T) {
		plan, err := PlanSettlements(Balances{dave: 500, carol: 500, bob: -500, alice: -500})
		require.NoError(t, err)
		assert.Equal(t, []entity.SettlementTransaction{
			{From: alice, To: carol, Amount: 500},
			{From: bob, To: dave, Amount: 500},
		}, plan)
	})

	t.Run("unbalanced input", func(t *testing.T) {
		_, err := PlanSettlements(Balances{alice: 100, bob: -90})
		require.ErrorIs(t, err, domainerror.ErrLedgerInconsistency)
	})
}

func TestCheckSettlement(t *testing.T) {
	summary, err := Summarize(snapshotOf([]uuid.UUID{alice, bob, carol}, equalExpense(alice, 9000, alice, bob, carol)))
	require.NoError(t, err)

	tests := []struct {
		name   string
		payer  uuid.UUID
		payee  uuid.UUID
		amount int64
		want   domainerror.ExpenseErrorCode
	}{
		{name: "partial payment", payer: bob, payee: alice, amount: 1000},
		{name: "full payment", payer: bob, payee: alice, amount: 3000},
		{name: "overpayment", payer: bob, payee: alice, amount: 3001, want: domainerror.ErrCodeSettlementExceedsPlan},
		{name: "wrong direction", payer: alice, payee: bob, amount: 100, want: domainerror.ErrCodeNothingToSettle},
		{name: "between debtors", payer: bob, payee: carol, amount: 100, want: domainerror.ErrCodeNothingToSettle},
		{name: "self", payer: bob, payee: bob, amount: 100, want: domainerror.ErrCodeSettlementSelf},
		{name: "zero", payer: bob, payee: alice, amount: 0, want: domainerror.ErrCodeInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSettlement(summary, tt.payer, tt.payee, tt.amount)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, expenseCode(t, err))
		})
	}
}

func TestCheckCanLeave(t *testing.T) {
	b := Balances{alice: 5000, bob: -5000, carol: 0}

	assert.NoError(t, CheckCanLeave(b, carol))
	assert.NoError(t, CheckCanLeave(b, dave))

	err := CheckCanLeave(b, bob)
	require.ErrorIs(t, err, domainerror.ErrOutstandingBalance)
	var groupErr *domainerror.GroupError
	require.True(t, errors.As(err, &groupErr))
	assert.Equal(t, domainerror.ErrCodeOutstandingBalance, groupErr.Code)
	assert.Contains(t, groupErr.Message, "-50.00")
}

func TestCheckExpenseMembers(t *testing.T) {
	snapshot := snapshotOf([]uuid.UUID{alice, bob, carol})
	snapshot.Member(carol).Leave()
	previous := equalExpense(alice, 900, alice, bob, carol)

	t.Run("active members", func(t *testing.T) {
		assert.NoError(t, CheckExpenseMembers(snapshot, alice, []uuid.UUID{alice, bob}, nil))
	})

	t.Run("inactive participant on new expense", func(t *testing.T) {
		err := CheckExpenseMembers(snapshot, alice, []uuid.UUID{alice, carol}, nil)
		assert.Equal(t, domainerror.ErrCodeParticipantNotEligible, expenseCode(t, err))
	})

	t.Run("inactive payer on new expense", func(t *testing.T) {
		err := CheckExpenseMembers(snapshot, carol, []uuid.UUID{alice}, nil)
		assert.Equal(t, domainerror.ErrCodePayerNotEligible, expenseCode(t, err))
	})

	t.Run("inactive participant kept on update", func(t *testing.T) {
		assert.NoError(t, CheckExpenseMembers(snapshot, alice, []uuid.UUID{alice, carol}, previous))
	})

	t.Run("stranger", func(t *testing.T) {
		err := CheckExpenseMembers(snapshot, alice, []uuid.UUID{alice, dave}, previous)
		assert.Equal(t, domainerror.ErrCodeParticipantNotEligible, expenseCode(t, err))
	})
}

func TestCheckFormerMemberBalances(t *testing.T) {
	dinner := equalExpense(alice, 10000, alice, bob)
	payback := entity.NewSettlement(uuid.Nil, bob, alice, 5000)
	snapshot := snapshotOf([]uuid.UUID{alice, bob, carol}, dinner, payback)
	snapshot.Member(bob).Leave()

	t.Run("untouched balances", func(t *testing.T) {
		renamed := *dinner
		renamed.Description = "renamed"
		assert.NoError(t, CheckFormerMemberBalances(snapshot, snapshot.ExpensesWith(&renamed)))
	})

	t.Run("active members only", func(t *testing.T) {
		taxi := equalExpense(alice, 3000, alice, carol)
		assert.NoError(t, CheckFormerMemberBalances(snapshot, append(snapshot.ExpensesWith(dinner), taxi)))
	})

	t.Run("edit moves former member", func(t *testing.T) {
		bigger := equalExpense(alice, 100000, alice, bob)
		bigger.ID = dinner.ID
		err := CheckFormerMemberBalances(snapshot, snapshot.ExpensesWith(bigger))
		require.ErrorIs(t, err, domainerror.ErrFormerMemberBalance)
	})

	t.Run("delete moves former member", func(t *testing.T) {
		err := CheckFormerMemberBalances(snapshot, snapshot.ExpensesWithout(dinner.ID))
		var groupErr *domainerror.GroupError
		require.True(t, errors.As(err, &groupErr))
		assert.Equal(t, domainerror.ErrCodeFormerMemberBalance, groupErr.Code)
	})
}

// randomLedger builds a random but valid set of members and expenses.
func randomLedger(r *rand.Rand) ([]uuid.UUID, []*entity.Expense) {
	members := make([]uuid.UUID, 2+r.Intn(7))
	for i := range members {
		members[i] = uuid.New()
	}

	expenses := make([]*entity.Expense, 1+r.Intn(20))
	for i := range expenses {
		perm := r.Perm(len(members))
		participants := make([]uuid.UUID, 1+r.Intn(len(members)))
		for j := range participants {
			participants[j] = members[perm[j]]
		}
		payer := members[r.Intn(len(members))]
		amount := int64(1 + r.Intn(500000))

		spec := SplitSpec{Amount: amount, Type: entity.SplitTypeEqual, Participants: participants}
		if r.Intn(2) == 0 {
			spec.Type = entity.SplitTypePercentage
			spec.Percentages = randomPercentages(r, participants)
		}

		splits, err := BuildSplits(spec)
		if err != nil {
			panic(err)
		}
		expenses[i] = entity.NewExpense(uuid.Nil, "random", amount, payer, payer, spec.Type, splits)
	}
	return members, expenses
}

// randomPercentages cuts 100.00 into len(ids) pieces at two decimal places.
func randomPercentages(r *rand.Rand, ids []uuid.UUID) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(ids))
	remaining := int64(10000)
	for i, id := range ids {
		part := remaining
		if i < len(ids)-1 {
			part = r.Int63n(remaining + 1)
		}
		remaining -= part
		out[id] = decimal.New(part, -2)
	}
	return out
}

func TestLedgerProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		members, expenses := randomLedger(r)

		for _, e := range expenses {
			var sum int64
			for _, s := range e.Splits {
				require.GreaterOrEqual(t, s.Share, int64(0))
				sum += s.Share
			}
			require.Equal(t, e.Amount, sum, "split must add up to the amount")
		}

		balances, err := ComputeBalances(members, EntriesFromExpenses(expenses))
		require.NoError(t, err)
		require.Zero(t, balances.Total(), "balances must conserve money")

		plan, err := PlanSettlements(balances)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(plan), len(balances)-1)
		for _, tx := range plan {
			assert.Positive(t, tx.Amount)
		}
		for id, v := range ApplyTransactions(balances, plan) {
			require.Zero(t, v, "member %s not settled", id)
		}

		shuffled := append([]*entity.Expense(nil), expenses...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		reordered, err := ComputeBalances(SortedIDs(members), EntriesFromExpenses(shuffled))
		require.NoError(t, err)
		assert.Equal(t, balances, reordered)

		replanned, err := PlanSettlements(reordered)
		require.NoError(t, err)
		assert.Equal(t, plan, replanned)
	}
}
