// Package ledger holds the pure balance and settlement computations for a
// group. Every function here is deterministic and free of side effects.
package ledger

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
)

var (
	// percentageTolerance is how far the sum of percentages may drift from 100.
	percentageTolerance = decimal.New(1, -2)

	hundred = decimal.NewFromInt(100)
)

// SplitSpec describes how one expense amount is divided.
type SplitSpec struct {
	Amount       int64
	Type         entity.SplitType
	Participants []uuid.UUID
	Percentages  map[uuid.UUID]decimal.Decimal
}

// ResolveSplit returns each participant's owed share in minor units.
// The shares always add up to Amount.
func ResolveSplit(spec SplitSpec) (map[uuid.UUID]int64, error) {
	if spec.Amount <= 0 {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeInvalidAmount, "amount must be greater than zero", domainerror.ErrInvalidAmount)
	}
	if len(spec.Participants) == 0 {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeNoParticipants, "split between at least one member", domainerror.ErrNoParticipants)
	}

	ids := SortedIDs(spec.Participants)
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return nil, domainerror.NewExpenseError(domainerror.ErrCodeDuplicateParticipant, "participant "+ids[i].String()+" listed twice", domainerror.ErrDuplicateParticipant)
		}
	}

	switch spec.Type {
	case entity.SplitTypeEqual:
		return splitEqually(spec.Amount, ids), nil
	case entity.SplitTypePercentage:
		return splitByPercentage(spec.Amount, ids, spec.Percentages)
	default:
		return nil, domainerror.NewExpenseError(domainerror.ErrCodeInvalidSplitType, "split type must be equal or percentage", domainerror.ErrInvalidSplitType)
	}
}

// BuildSplits resolves the spec into expense splits ordered by member id.
func BuildSplits(spec SplitSpec) ([]entity.ExpenseSplit, error) {
	shares, err := ResolveSplit(spec)
	if err != nil {
		return nil, err
	}

	splits := make([]entity.ExpenseSplit, 0, len(shares))
	for _, id := range SortedIDs(spec.Participants) {
		split := entity.ExpenseSplit{UserID: id, Share: shares[id]}
		if spec.Type == entity.SplitTypePercentage {
			split.Percentage = spec.Percentages[id]
		}
		splits = append(splits, split)
	}
	return splits, nil
}

// splitEqually gives everyone floor(amount/n) and hands the remainder out one
// minor unit at a time in ascending id order. ids must be sorted.
func splitEqually(amount int64, ids []uuid.UUID) map[uuid.UUID]int64 {
	n := int64(len(ids))
	base := amount / n
	remainder := amount % n

	shares := make(map[uuid.UUID]int64, len(ids))
	for i, id := range ids {
		share := base
		if int64(i) < remainder {
			share++
		}
		shares[id] = share
	}
	return shares
}

// splitByPercentage rounds each share half-up and lets the largest share
// absorb whatever rounding left over. ids must be sorted.
func splitByPercentage(amount int64, ids []uuid.UUID, percentages map[uuid.UUID]decimal.Decimal) (map[uuid.UUID]int64, error) {
	if len(percentages) != len(ids) {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodePercentageMismatch, "percentages must be given for exactly the participants", domainerror.ErrPercentageMismatch)
	}

	total := decimal.Zero
	for _, id := range ids {
		pct, ok := percentages[id]
		if !ok {
			return nil, domainerror.NewExpenseError(domainerror.ErrCodePercentageMismatch, "missing percentage for participant "+id.String(), domainerror.ErrPercentageMismatch)
		}
		if pct.IsNegative() {
			return nil, domainerror.NewExpenseError(domainerror.ErrCodeNegativePercentage, "percentage for "+id.String()+" is negative", domainerror.ErrNegativePercentage)
		}
		total = total.Add(pct)
	}
	if total.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		return nil, domainerror.NewExpenseError(domainerror.ErrCodePercentageSum, "percentages add up to "+total.String()+", expected 100", domainerror.ErrPercentageSum)
	}

	whole := decimal.NewFromInt(amount)
	shares := make(map[uuid.UUID]int64, len(ids))
	var assigned int64
	for _, id := range ids {
		share := whole.Mul(percentages[id]).Div(hundred).Round(0).IntPart()
		shares[id] = share
		assigned += share
	}

	// With tiny amounts the largest share may be smaller than the drift, in
	// which case the next largest takes the rest. Shares never go negative.
	drift := amount - assigned
	for drift != 0 {
		largest := largestShare(ids, shares)
		if drift > 0 {
			shares[largest] += drift
			break
		}
		take := min(shares[largest], -drift)
		shares[largest] -= take
		drift += take
	}

	return shares, nil
}

// largestShare picks the biggest share, lowest id first on ties.
func largestShare(ids []uuid.UUID, shares map[uuid.UUID]int64) uuid.UUID {
	largest := ids[0]
	for _, id := range ids[1:] {
		if shares[id] > shares[largest] {
			largest = id
		}
	}
	return largest
}

// SortedIDs returns a sorted copy of ids. Byte order of a uuid matches the
// order of its canonical string form.
func SortedIDs(ids []uuid.UUID) []uuid.UUID {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, compareIDs)
	return sorted
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
