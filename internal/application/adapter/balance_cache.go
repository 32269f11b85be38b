package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// BalanceCache stores computed balances per group version.
type BalanceCache interface {
	// Get returns cached balances for the version, or nil when absent.
	Get(ctx context.Context, groupID uuid.UUID, version int64) (*entity.GroupBalances, error)

	// Set stores balances under their group version.
	Set(ctx context.Context, balances *entity.GroupBalances) error
}
