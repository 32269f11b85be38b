package ledger

import (
	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
)

type party struct {
	id     uuid.UUID
	amount int64
}

// PlanSettlements turns balances into payments that clear every balance.
// It repeatedly pairs the largest debtor with the largest creditor, so a
// group of n members needs at most n-1 payments. Ties go to the lower id.
func PlanSettlements(b Balances) ([]entity.SettlementTransaction, error) {
	var creditors, debtors []*party
	var credit, debt int64
	for _, id := range b.IDs() {
		switch v := b[id]; {
		case v > 0:
			creditors = append(creditors, &party{id: id, amount: v})
			credit += v
		case v < 0:
			debtors = append(debtors, &party{id: id, amount: -v})
			debt += -v
		}
	}
	if credit != debt {
		return nil, domainerror.NewLedgerInconsistencyError("credits and debts differ", b)
	}

	var plan []entity.SettlementTransaction
	for {
		d := largest(debtors)
		c := largest(creditors)
		if d == nil || c == nil {
			break
		}

		amount := min(d.amount, c.amount)
		plan = append(plan, entity.SettlementTransaction{From: d.id, To: c.id, Amount: amount})
		d.amount -= amount
		c.amount -= amount
	}

	return plan, nil
}

// largest returns the party with the most outstanding, or nil when all are
// settled. parties is sorted by id so the first maximum wins ties.
func largest(parties []*party) *party {
	var best *party
	for _, p := range parties {
		if p.amount == 0 {
			continue
		}
		if best == nil || p.amount > best.amount {
			best = p
		}
	}
	return best
}

// ApplyTransactions returns the balances left after every payment is made.
func ApplyTransactions(b Balances, txs []entity.SettlementTransaction) Balances {
	out := b.Clone()
	for _, tx := range txs {
		out[tx.From] += tx.Amount
		out[tx.To] -= tx.Amount
	}
	return out
}

// PlannedAmount returns how much the plan has from paying to, or zero.
func PlannedAmount(txs []entity.SettlementTransaction, from, to uuid.UUID) int64 {
	var total int64
	for _, tx := range txs {
		if tx.From == from && tx.To == to {
			total += tx.Amount
		}
	}
	return total
}
