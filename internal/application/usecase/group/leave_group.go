package group

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/application/usecase/balance"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/ledger"
)

// LeaveGroupInput represents the input for leaving a group.
type LeaveGroupInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
	Version int64
}

// LeaveGroupOutput represents the output of leaving a group.
type LeaveGroupOutput struct {
	Version int64
}

// LeaveGroupUseCase marks the caller inactive. A member may only leave once
// their balance is settled.
type LeaveGroupUseCase struct {
	ledgerRepo adapter.LedgerRepository
	calculator *balance.Calculator
}

// NewLeaveGroupUseCase creates a new LeaveGroupUseCase instance.
func NewLeaveGroupUseCase(ledgerRepo adapter.LedgerRepository, calculator *balance.Calculator) *LeaveGroupUseCase {
	return &LeaveGroupUseCase{
		ledgerRepo: ledgerRepo,
		calculator: calculator,
	}
}

// Execute performs the group leave operation.
func (uc *LeaveGroupUseCase) Execute(ctx context.Context, input LeaveGroupInput) (*LeaveGroupOutput, error) {
	version, err := uc.ledgerRepo.Mutate(ctx, input.GroupID, input.Version,
		func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
			member, err := ledger.RequireActiveMember(snapshot, input.UserID)
			if err != nil {
				return err
			}

			summary, err := uc.calculator.Summarize(ctx, snapshot)
			if err != nil {
				return err
			}
			if err := ledger.CheckCanLeave(summary.Balances, input.UserID); err != nil {
				return err
			}

			member.Leave()
			return w.UpdateMember(ctx, member)
		})
	if err != nil {
		return nil, err
	}

	slog.Info("Member left group", "group_id", input.GroupID, "user_id", input.UserID, "version", version)

	return &LeaveGroupOutput{
		Version: version,
	}, nil
}
