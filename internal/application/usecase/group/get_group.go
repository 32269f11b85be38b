package group

import (
	"context"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/domain/ledger"
)

// GetGroupInput represents the input for getting group details.
type GetGroupInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// GetGroupOutput represents the output of getting group details.
type GetGroupOutput struct {
	Group           *entity.Group
	Members         []*entity.GroupMember
	InactiveMembers []*entity.GroupMember
	Expenses        []*entity.Expense
	UserRole        entity.MemberRole
}

// GetGroupUseCase handles getting group details.
type GetGroupUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewGetGroupUseCase creates a new GetGroupUseCase instance.
func NewGetGroupUseCase(ledgerRepo adapter.LedgerRepository) *GetGroupUseCase {
	return &GetGroupUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// Execute returns the group, its members and its live expenses as of one version.
func (uc *GetGroupUseCase) Execute(ctx context.Context, input GetGroupInput) (*GetGroupOutput, error) {
	snapshot, err := uc.ledgerRepo.LoadSnapshot(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	caller, err := ledger.RequireMember(snapshot, input.UserID)
	if err != nil {
		return nil, err
	}

	output := &GetGroupOutput{
		Group:    snapshot.Group,
		Expenses: snapshot.Expenses,
		UserRole: caller.Role,
	}
	for _, m := range snapshot.Members {
		if m.IsActive() {
			output.Members = append(output.Members, m)
		} else {
			output.InactiveMembers = append(output.InactiveMembers, m)
		}
	}
	return output, nil
}
