package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/domain/ledger"
	"github.com/cashsplit/backend/internal/domain/valueobject"
)

// AddMemberInput represents the input for adding a member by email.
type AddMemberInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
	Email   string
	Version int64
}

// AddMemberOutput represents the output of adding a member.
type AddMemberOutput struct {
	Member  *entity.GroupMember
	Version int64
}

// AddMemberUseCase adds a registered user to a group. A user who left the
// group before is reactivated instead.
type AddMemberUseCase struct {
	ledgerRepo   adapter.LedgerRepository
	userRepo     adapter.UserRepository
	emailService adapter.EmailService
}

// NewAddMemberUseCase creates a new AddMemberUseCase instance.
func NewAddMemberUseCase(
	ledgerRepo adapter.LedgerRepository,
	userRepo adapter.UserRepository,
	emailService adapter.EmailService,
) *AddMemberUseCase {
	return &AddMemberUseCase{
		ledgerRepo:   ledgerRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Execute performs the member addition.
func (uc *AddMemberUseCase) Execute(ctx context.Context, input AddMemberInput) (*AddMemberOutput, error) {
	email := valueobject.NormalizeEmail(input.Email)
	if !valueobject.IsValidEmail(email) {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeInvalidGroupEmail,
			"invalid email address",
			domainerror.ErrInvalidEmail,
		)
	}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewGroupError(
				domainerror.ErrCodeUserNotRegistered,
				"no registered user with this email",
				domainerror.ErrUserNotRegistered,
			)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var (
		member    *entity.GroupMember
		groupName string
		adderName string
	)
	version, err := uc.ledgerRepo.Mutate(ctx, input.GroupID, input.Version,
		func(ctx context.Context, snapshot *entity.LedgerSnapshot, w adapter.LedgerWriter) error {
			adder, err := ledger.RequireActiveMember(snapshot, input.UserID)
			if err != nil {
				return err
			}
			groupName = snapshot.Group.Name
			adderName = adder.UserName

			member = snapshot.Member(user.ID)
			switch {
			case member == nil:
				member = entity.NewGroupMember(input.GroupID, user.ID, entity.MemberRoleMember)
				return w.AddMember(ctx, member)
			case member.IsActive():
				return domainerror.NewGroupError(
					domainerror.ErrCodeUserAlreadyMember,
					"user is already a member of this group",
					domainerror.ErrUserAlreadyMember,
				)
			default:
				member.Rejoin()
				return w.UpdateMember(ctx, member)
			}
		})
	if err != nil {
		return nil, err
	}

	member.UserName = user.Name
	member.UserEmail = user.Email
	member.UserUPIID = user.UPIID

	slog.Info("Member added", "group_id", input.GroupID, "user_id", user.ID, "version", version)

	if err := uc.emailService.QueueMemberAddedEmail(ctx, adapter.QueueMemberAddedInput{
		GroupID:     input.GroupID,
		MemberID:    user.ID,
		AddedByName: adderName,
		GroupName:   groupName,
		MemberEmail: user.Email,
		MemberName:  user.Name,
	}); err != nil {
		slog.Error("Failed to queue member added email", "group_id", input.GroupID, "error", err)
	}

	return &AddMemberOutput{
		Member:  member,
		Version: version,
	}, nil
}
