package entity

import (
	"github.com/google/uuid"
)

// LedgerSnapshot is a consistent view of a group taken inside one
// storage transaction.
type LedgerSnapshot struct {
	Group    *Group
	Members  []*GroupMember
	Expenses []*Expense
}

// Member looks up a member by user id, active or not.
func (s *LedgerSnapshot) Member(userID uuid.UUID) *GroupMember {
	for _, m := range s.Members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

// MemberIDs returns all member user ids, active and inactive.
func (s *LedgerSnapshot) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Members))
	for _, m := range s.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// ActiveMemberIDs returns user ids of members who have not left.
func (s *LedgerSnapshot) ActiveMemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Members))
	for _, m := range s.Members {
		if m.IsActive() {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

// Expense finds a live expense by id.
func (s *LedgerSnapshot) Expense(id uuid.UUID) *Expense {
	for _, e := range s.Expenses {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// ExpensesWith returns the live expenses with e in place of the stored
// expense of the same id.
func (s *LedgerSnapshot) ExpensesWith(e *Expense) []*Expense {
	out := make([]*Expense, 0, len(s.Expenses))
	for _, existing := range s.Expenses {
		if existing.ID == e.ID {
			out = append(out, e)
			continue
		}
		out = append(out, existing)
	}
	return out
}

// ExpensesWithout returns the live expenses minus the one with the given id.
func (s *LedgerSnapshot) ExpensesWithout(id uuid.UUID) []*Expense {
	out := make([]*Expense, 0, len(s.Expenses))
	for _, existing := range s.Expenses {
		if existing.ID != id {
			out = append(out, existing)
		}
	}
	return out
}

// GroupBalances is the computed state of a group's ledger at a version.
type GroupBalances struct {
	GroupID      uuid.UUID
	Version      int64
	Balances     map[uuid.UUID]int64
	Transactions []SettlementTransaction
}

// SettlementTransaction is a planned payment from one member to another.
type SettlementTransaction struct {
	From   uuid.UUID
	To     uuid.UUID
	Amount int64
}
