// Package email queues and delivers notification emails.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
)

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueueMemberAddedEmail queues the email telling a user they joined a group.
func (s *Service) QueueMemberAddedEmail(ctx context.Context, input adapter.QueueMemberAddedInput) error {
	subject := fmt.Sprintf("%s added you to %s", input.AddedByName, input.GroupName)

	templateData := map[string]interface{}{
		"member_name":   input.MemberName,
		"added_by_name": input.AddedByName,
		"group_name":    input.GroupName,
		"app_url":       s.appBaseURL,
	}

	return s.enqueue(ctx, entity.NewMemberAddedJob(
		input.GroupID,
		input.MemberID,
		entity.Recipient{Email: input.MemberEmail, Name: input.MemberName},
		subject,
		templateData,
	))
}

// QueueSettlementRecordedEmail queues the email telling a payee about a payment.
func (s *Service) QueueSettlementRecordedEmail(ctx context.Context, input adapter.QueueSettlementRecordedInput) error {
	subject := fmt.Sprintf("%s paid you %s in %s", input.PayerName, input.Amount, input.GroupName)

	templateData := map[string]interface{}{
		"payee_name": input.PayeeName,
		"payer_name": input.PayerName,
		"group_name": input.GroupName,
		"amount":     input.Amount,
		"app_url":    s.appBaseURL,
	}

	return s.enqueue(ctx, entity.NewSettlementRecordedJob(
		input.GroupID,
		input.SettlementID,
		entity.Recipient{Email: input.PayeeEmail, Name: input.PayeeName},
		subject,
		templateData,
	))
}

func (s *Service) enqueue(ctx context.Context, job *entity.EmailJob) error {
	if err := s.queue.Create(ctx, job); err != nil {
		return err
	}
	slog.Debug("Notification queued", "kind", job.Kind, "group_id", job.GroupID, "reference_id", job.ReferenceID)
	return nil
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
