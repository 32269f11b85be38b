// Package balance contains use cases that read a group's balances and
// settlement plan.
package balance

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/domain/ledger"
)

// Calculator turns a ledger snapshot into balances and a settlement plan,
// caching the result per group version.
type Calculator struct {
	cache  adapter.BalanceCache
	flight singleflight.Group
}

// NewCalculator creates a new Calculator.
func NewCalculator(cache adapter.BalanceCache) *Calculator {
	return &Calculator{cache: cache}
}

// Summarize returns the balances for the snapshot's group version.
// Cache failures are logged and fall back to computing.
func (c *Calculator) Summarize(ctx context.Context, snapshot *entity.LedgerSnapshot) (*entity.GroupBalances, error) {
	groupID := snapshot.Group.ID
	version := snapshot.Group.Version

	cached, err := c.cache.Get(ctx, groupID, version)
	if err != nil {
		slog.Warn("Balance cache read failed", "group_id", groupID, "version", version, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	key := groupID.String() + ":" + strconv.FormatInt(version, 10)
	result, err, _ := c.flight.Do(key, func() (any, error) {
		summary, err := ledger.Summarize(snapshot)
		if err != nil {
			logInconsistency(snapshot, err)
			return nil, err
		}

		if err := c.cache.Set(ctx, summary); err != nil {
			slog.Warn("Balance cache write failed", "group_id", groupID, "version", version, "error", err)
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*entity.GroupBalances), nil
}

func logInconsistency(snapshot *entity.LedgerSnapshot, err error) {
	var ledgerErr *domainerror.LedgerError
	if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeLedgerInconsistency {
		return
	}

	balances := make(map[string]int64, len(ledgerErr.Balances))
	for id, v := range ledgerErr.Balances {
		balances[id.String()] = v
	}
	slog.Error("Ledger inconsistency",
		"group_id", snapshot.Group.ID,
		"version", snapshot.Group.Version,
		"expenses", len(snapshot.Expenses),
		"balances", balances,
		"error", ledgerErr.Message,
	)
}
