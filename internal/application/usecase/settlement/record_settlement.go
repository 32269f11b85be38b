// Package settlement contains the mark-as-paid use case.
package settlement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/application/usecase/balance"
	"github.com/cashsplit/backend/internal/application/usecase/expense"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/ledger"
	"github.com/cashsplit/backend/internal/domain/valueobject"
)

// RecordSettlementInput represents a payment from the caller to PayeeID.
type RecordSettlementInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
	PayeeID uuid.UUID
	Amount  decimal.Decimal
	Version int64
}

// RecordSettlementOutput represents the stored settlement record.
type RecordSettlementOutput struct {
	Settlement *entity.Expense
	Version    int64
}

// RecordSettlementUseCase records that the caller paid another member.
// The payment may not exceed what the current plan has them owing.
type RecordSettlementUseCase struct {
	ledgerRepo   adapter.LedgerRepository
	calculator   *balance.Calculator
	emailService adapter.EmailService
}

// NewRecordSettlementUseCase creates a new RecordSettlementUseCase instance.
func NewRecordSettlementUseCase(
	ledgerRepo adapter.LedgerRepository,
	calculator *balance.Calculator,
	emailService adapter.EmailService,
) *RecordSettlementUseCase {
	return &RecordSettlementUseCase{
		ledgerRepo:   ledgerRepo,
		calculator:   calculator,
		emailService: emailService,
	}
}

// Execute validates the payment against the plan and stores it.
func (uc *RecordSettlementUseCase) Execute(ctx context.Context, input RecordSettlementInput) (*RecordSettlementOutput, error) {
	amount, err := expense.MinorUnits(input.Amount)
	if err != nil {
		return nil, err
	}

	var (
		settlement *entity.Expense
		notify     adapter.QueueSettlementRecordedInput
	)
	version, err := uc.ledgerRepo.Mutate(ctx, input.GroupID, input.Version,
		func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
			payer, err := ledger.RequireMember(snapshot, input.UserID)
			if err != nil {
				return err
			}
			// Members who left stay payable.
			payee, err := ledger.RequireMember(snapshot, input.PayeeID)
			if err != nil {
				return err
			}

			summary, err := uc.calculator.Summarize(ctx, snapshot)
			if err != nil {
				return err
			}
			if err := ledger.CheckSettlement(summary, payer.UserID, payee.UserID, amount); err != nil {
				return err
			}

			settlement = entity.NewSettlement(input.GroupID, payer.UserID, payee.UserID, amount)
			notify = adapter.QueueSettlementRecordedInput{
				GroupID:      input.GroupID,
				SettlementID: settlement.ID,
				PayerName:    payer.UserName,
				PayeeEmail:   payee.UserEmail,
				PayeeName:    payee.UserName,
				GroupName:    snapshot.Group.Name,
				Amount:       valueobject.FormatMinorUnits(amount),
			}
			return w.CreateExpense(ctx, settlement)
		})
	if err != nil {
		return nil, err
	}

	slog.Info("Settlement recorded",
		"group_id", input.GroupID,
		"payer_id", input.UserID,
		"payee_id", input.PayeeID,
		"amount", amount,
		"version", version,
	)

	if err := uc.emailService.QueueSettlementRecordedEmail(ctx, notify); err != nil {
		slog.Error("Failed to queue settlement email", "group_id", input.GroupID, "error", err)
	}

	return &RecordSettlementOutput{
		Settlement: settlement,
		Version:    version,
	}, nil
}
