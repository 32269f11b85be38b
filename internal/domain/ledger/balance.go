package ledger

import (
	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
)

// Entry is the ledger effect of one expense or settlement.
type Entry struct {
	Payer  uuid.UUID
	Amount int64
	Shares map[uuid.UUID]int64
}

// EntryFromExpense converts a stored expense into a ledger entry.
func EntryFromExpense(e *entity.Expense) Entry {
	return Entry{
		Payer:  e.PaidBy,
		Amount: e.Amount,
		Shares: e.Shares(),
	}
}

// EntriesFromExpenses converts every expense into a ledger entry.
func EntriesFromExpenses(expenses []*entity.Expense) []Entry {
	entries := make([]Entry, 0, len(expenses))
	for _, e := range expenses {
		entries = append(entries, EntryFromExpense(e))
	}
	return entries
}

// Balances maps member ids to their net balance in minor units. Positive
// means the member is owed money.
type Balances map[uuid.UUID]int64

// Total returns the sum of all balances. It is zero for a consistent ledger.
func (b Balances) Total() int64 {
	var total int64
	for _, v := range b {
		total += v
	}
	return total
}

// IDs returns the member ids in ascending order.
func (b Balances) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	return SortedIDs(ids)
}

// Clone returns an independent copy.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for id, v := range b {
		out[id] = v
	}
	return out
}

// ComputeBalances folds all entries into net balances. Every member starts
// at zero, including members who have left. Members that only appear in
// history are included as well.
func ComputeBalances(members []uuid.UUID, entries []Entry) (Balances, error) {
	balances := make(Balances, len(members))
	for _, id := range members {
		balances[id] = 0
	}

	for _, entry := range entries {
		var owed int64
		for id, share := range entry.Shares {
			balances[id] -= share
			owed += share
		}
		if owed != entry.Amount {
			return nil, domainerror.NewLedgerInconsistencyError("entry shares do not add up to its amount", balances)
		}
		balances[entry.Payer] += entry.Amount
	}

	if balances.Total() != 0 {
		return nil, domainerror.NewLedgerInconsistencyError("balances do not sum to zero", balances)
	}
	return balances, nil
}
