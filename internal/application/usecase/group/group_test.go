package group

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
	"github.com/cashsplit/backend/internal/application/usecase/expense"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/cache"
	"github.com/cashsplit/backend/internal/integration/persistence"
	"github.com/cashsplit/backend/internal/testutil"
)

type fixture struct {
	ledgerRepo adapter.LedgerRepository
	create     *CreateGroupUseCase
	list       *ListGroupsUseCase
	get        *GetGroupUseCase
	add        *AddMemberUseCase
	leave      *LeaveGroupUseCase
	expense    *expense.CreateExpenseUseCase
	emails     *testutil.EmailRecorder
	alice      *entity.User
	bob        *entity.User
	carol      *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	userRepo := persistence.NewUserRepository(db, time.Second)
	groupRepo := persistence.NewGroupRepository(db, time.Second)
	ledgerRepo := persistence.NewLedgerRepository(db, time.Second)
	calculator := balance.NewCalculator(cache.NoopBalanceCache{})
	emails := &testutil.EmailRecorder{}

	return &fixture{
		ledgerRepo: ledgerRepo,
		create:     NewCreateGroupUseCase(groupRepo, userRepo),
		list:       NewListGroupsUseCase(groupRepo, ledgerRepo, calculator),
		get:        NewGetGroupUseCase(ledgerRepo),
		add:        NewAddMemberUseCase(ledgerRepo, userRepo, emails),
		leave:      NewLeaveGroupUseCase(ledgerRepo, calculator),
		expense:    expense.NewCreateExpenseUseCase(ledgerRepo),
		emails:     emails,
		alice:      testutil.CreateUser(t, db, "Alice", "alice@example.com"),
		bob:        testutil.CreateUser(t, db, "Bob", "bob@example.com"),
		carol:      testutil.CreateUser(t, db, "Carol", "carol@example.com"),
	}
}

func (f *fixture) newGroup(t *testing.T, members ...*entity.User) *entity.Group {
	t.Helper()
	ctx := context.Background()

	out, err := f.create.Execute(ctx, CreateGroupInput{Name: "Goa trip", UserID: f.alice.ID})
	require.NoError(t, err)
	for _, m := range members {
		_, err := f.add.Execute(ctx, AddMemberInput{GroupID: out.Group.ID, UserID: f.alice.ID, Email: m.Email})
		require.NoError(t, err)
	}
	return out.Group
}

func groupCode(t *testing.T, err error) domainerror.GroupErrorCode {
	t.Helper()
	var groupErr *domainerror.GroupError
	require.ErrorAs(t, err, &groupErr)
	return groupErr.Code
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.create.Execute(ctx, CreateGroupInput{Name: "  Flat  ", UserID: f.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "Flat", out.Group.Name)
	assert.Equal(t, int64(1), out.Group.Version)
	require.Len(t, out.Members, 1)
	assert.Equal(t, entity.MemberRoleAdmin, out.Members[0].Role)

	_, err = f.create.Execute(ctx, CreateGroupInput{Name: " ", UserID: f.alice.ID})
	assert.Equal(t, domainerror.ErrCodeGroupNameRequired, groupCode(t, err))
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.newGroup(t)

	out, err := f.add.Execute(ctx, AddMemberInput{GroupID: group.ID, UserID: f.alice.ID, Email: " BOB@example.com "})
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, out.Member.UserID)
	assert.Equal(t, int64(2), out.Version)
	require.Len(t, f.emails.MemberAdded, 1)
	assert.Equal(t, "Goa trip", f.emails.MemberAdded[0].GroupName)
	assert.Equal(t, "Alice", f.emails.MemberAdded[0].AddedByName)

	t.Run("already member", func(t *testing.T) {
		_, err := f.add.Execute(ctx, AddMemberInput{GroupID: group.ID, UserID: f.alice.ID, Email: f.bob.Email})
		assert.Equal(t, domainerror.ErrCodeUserAlreadyMember, groupCode(t, err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.add.Execute(ctx, AddMemberInput{GroupID: group.ID, UserID: f.alice.ID, Email: "nobody@example.com"})
		assert.Equal(t, domainerror.ErrCodeUserNotRegistered, groupCode(t, err))
	})

	t.Run("caller not a member", func(t *testing.T) {
		_, err := f.add.Execute(ctx, AddMemberInput{GroupID: group.ID, UserID: f.carol.ID, Email: f.carol.Email})
		assert.Equal(t, domainerror.ErrCodeNotGroupMember, groupCode(t, err))
	})

	t.Run("stale version", func(t *testing.T) {
		_, err := f.add.Execute(ctx, AddMemberInput{GroupID: group.ID, UserID: f.alice.ID, Email: f.carol.Email, Version: 1})
		var ledgerErr *domainerror.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Equal(t, domainerror.ErrCodeConcurrentModification, ledgerErr.Code)
	})
}

func TestLeaveGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.newGroup(t, f.bob)

	_, err := f.expense.Execute(ctx, expense.CreateExpenseInput{
		GroupID: group.ID,
		UserID:  f.alice.ID,
		Details: expense.Details{
			Description:  "Dinner",
			Amount:       decimal.NewFromInt(100),
			PaidBy:       f.alice.ID,
			SplitBetween: []uuid.UUID{f.alice.ID, f.bob.ID},
			SplitType:    entity.SplitTypeEqual,
		},
	})
	require.NoError(t, err)

	_, err = f.leave.Execute(ctx, LeaveGroupInput{GroupID: group.ID, UserID: f.bob.ID})
	assert.Equal(t, domainerror.ErrCodeOutstandingBalance, groupCode(t, err))

	// A member with nothing owed may leave.
	_, err = f.add.Execute(ctx, AddMemberInput{GroupID: group.ID, UserID: f.alice.ID, Email: f.carol.Email})
	require.NoError(t, err)
	out, err := f.leave.Execute(ctx, LeaveGroupInput{GroupID: group.ID, UserID: f.carol.ID})
	require.NoError(t, err)

	details, err := f.get.Execute(ctx, GetGroupInput{GroupID: group.ID, UserID: f.carol.ID})
	require.NoError(t, err)
	assert.Equal(t, out.Version, details.Group.Version)
	assert.Len(t, details.Members, 2)
	require.Len(t, details.InactiveMembers, 1)
	assert.Equal(t, f.carol.ID, details.InactiveMembers[0].UserID)

	_, err = f.leave.Execute(ctx, LeaveGroupInput{GroupID: group.ID, UserID: f.carol.ID})
	assert.Equal(t, domainerror.ErrCodeMemberInactive, groupCode(t, err))

	// Re-adding reactivates the same membership.
	readd, err := f.add.Execute(ctx, AddMemberInput{GroupID: group.ID, UserID: f.alice.ID, Email: f.carol.Email})
	require.NoError(t, err)
	assert.True(t, readd.Member.IsActive())
	assert.Equal(t, details.InactiveMembers[0].ID, readd.Member.ID)
}

func TestListGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.newGroup(t, f.bob, f.carol)

	_, err := f.expense.Execute(ctx, expense.CreateExpenseInput{
		GroupID: group.ID,
		UserID:  f.bob.ID,
		Details: expense.Details{
			Description:  "Groceries",
			Amount:       decimal.RequireFromString("90.00"),
			PaidBy:       f.bob.ID,
			SplitBetween: []uuid.UUID{f.alice.ID, f.bob.ID, f.carol.ID},
			SplitType:    entity.SplitTypeEqual,
		},
	})
	require.NoError(t, err)

	out, err := f.list.Execute(ctx, ListGroupsInput{UserID: f.alice.ID})
	require.NoError(t, err)
	require.Len(t, out.Groups, 1)
	assert.Equal(t, 3, out.Groups[0].MemberCount)
	assert.Equal(t, int64(-3000), out.Groups[0].Balance)

	out, err = f.list.Execute(ctx, ListGroupsInput{UserID: f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(6000), out.Groups[0].Balance)
}
