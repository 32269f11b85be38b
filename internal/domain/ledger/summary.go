package ledger

import (
	"github.com/cashsplit/backend/internal/domain/entity"
)

// Summarize computes balances and the settlement plan for a snapshot.
func Summarize(snapshot *entity.LedgerSnapshot) (*entity.GroupBalances, error) {
	balances, err := ComputeBalances(snapshot.MemberIDs(), EntriesFromExpenses(snapshot.Expenses))
	if err != nil {
		return nil, err
	}

	plan, err := PlanSettlements(balances)
	if err != nil {
		return nil, err
	}

	return &entity.GroupBalances{
		GroupID:      snapshot.Group.ID,
		Version:      snapshot.Group.Version,
		Balances:     balances,
		Transactions: plan,
	}, nil
}
