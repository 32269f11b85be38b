package ledger

import (
	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/domain/valueobject"
)

// CheckCanLeave rejects leaving while the member still owes or is owed.
func CheckCanLeave(b Balances, userID uuid.UUID) error {
	if balance := b[userID]; balance != 0 {
		return domainerror.NewGroupError(
			domainerror.ErrCodeOutstandingBalance,
			"settle your balance of "+valueobject.FormatMinorUnits(balance)+" before leaving",
			domainerror.ErrOutstandingBalance,
		)
	}
	return nil
}

// CheckExpenseMembers makes sure the payer and participants may take part
// in the expense. For an update, previous is the stored expense: its payer
// and participants may stay even after leaving the group.
func CheckExpenseMembers(snapshot *entity.LedgerSnapshot, payer uuid.UUID, participants []uuid.UUID, previous *entity.Expense) error {
	if !eligible(snapshot, payer, previous != nil && previous.PaidBy == payer) {
		return domainerror.NewExpenseError(domainerror.ErrCodePayerNotEligible, "payer "+payer.String()+" is not an active member of the group", domainerror.ErrPayerNotEligible)
	}

	for _, id := range participants {
		if !eligible(snapshot, id, previous != nil && previous.HasParticipant(id)) {
			return domainerror.NewExpenseError(domainerror.ErrCodeParticipantNotEligible, "participant "+id.String()+" is not an active member of the group", domainerror.ErrParticipantNotEligible)
		}
	}
	return nil
}

// CheckFormerMemberBalances rejects replacing the group's live expenses
// with next when that would move the balance of a member who has left.
// Leaving requires a zero balance, so it must stay settled afterwards.
func CheckFormerMemberBalances(snapshot *entity.LedgerSnapshot, next []*entity.Expense) error {
	members := snapshot.MemberIDs()

	before, err := ComputeBalances(members, EntriesFromExpenses(snapshot.Expenses))
	if err != nil {
		return err
	}
	after, err := ComputeBalances(members, EntriesFromExpenses(next))
	if err != nil {
		return err
	}

	for _, m := range snapshot.Members {
		if m.IsActive() || before[m.UserID] == after[m.UserID] {
			continue
		}
		return domainerror.NewGroupError(
			domainerror.ErrCodeFormerMemberBalance,
			"this change would alter the balance of "+formerName(m)+", who has left the group",
			domainerror.ErrFormerMemberBalance,
		)
	}
	return nil
}

func formerName(m *entity.GroupMember) string {
	if m.UserName != "" {
		return m.UserName
	}
	return m.UserID.String()
}

func eligible(snapshot *entity.LedgerSnapshot, userID uuid.UUID, grandfathered bool) bool {
	member := snapshot.Member(userID)
	if member == nil {
		return false
	}
	return member.IsActive() || grandfathered
}

// CheckSettlement validates a payment from payer to payee against the
// current plan. A payment may not exceed what the plan has payer owing payee.
func CheckSettlement(summary *entity.GroupBalances, payer, payee uuid.UUID, amount int64) error {
	if amount <= 0 {
		return domainerror.NewExpenseError(domainerror.ErrCodeInvalidAmount, "amount must be greater than zero", domainerror.ErrInvalidAmount)
	}
	if payer == payee {
		return domainerror.NewExpenseError(domainerror.ErrCodeSettlementSelf, "cannot settle with yourself", domainerror.ErrSettlementSelf)
	}

	planned := PlannedAmount(summary.Transactions, payer, payee)
	if planned == 0 {
		return domainerror.NewExpenseError(domainerror.ErrCodeNothingToSettle, "you do not owe this member anything", domainerror.ErrNothingToSettle)
	}
	if amount > planned {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeSettlementExceedsPlan,
			"amount exceeds the outstanding "+valueobject.FormatMinorUnits(planned),
			domainerror.ErrSettlementExceedsPlan,
		)
	}
	return nil
}

// RequireMember returns the user's membership, active or not.
func RequireMember(snapshot *entity.LedgerSnapshot, userID uuid.UUID) (*entity.GroupMember, error) {
	member := snapshot.Member(userID)
	if member == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupMember,
			"you are not a member of this group",
			domainerror.ErrNotGroupMember,
		)
	}
	return member, nil
}

// RequireActiveMember is RequireMember for operations that members who
// left the group may no longer perform.
func RequireActiveMember(snapshot *entity.LedgerSnapshot, userID uuid.UUID) (*entity.GroupMember, error) {
	member, err := RequireMember(snapshot, userID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeMemberInactive,
			"you have left this group",
			domainerror.ErrMemberInactive,
		)
	}
	return member, nil
}
