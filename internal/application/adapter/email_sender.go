package adapter

import (
	"context"

	"github.com/google/uuid"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing notification emails.
type EmailService interface {
	// QueueMemberAddedEmail tells a user they were added to a group.
	QueueMemberAddedEmail(ctx context.Context, input QueueMemberAddedInput) error

	// QueueSettlementRecordedEmail tells a payee that a payment was recorded.
	QueueSettlementRecordedEmail(ctx context.Context, input QueueSettlementRecordedInput) error
}

// QueueMemberAddedInput represents the input for a member-added email.
type QueueMemberAddedInput struct {
	GroupID     uuid.UUID
	MemberID    uuid.UUID
	AddedByName string
	GroupName   string
	MemberEmail string
	MemberName  string
}

// QueueSettlementRecordedInput represents the input for a settlement email.
type QueueSettlementRecordedInput struct {
	GroupID      uuid.UUID
	SettlementID uuid.UUID
	PayerName    string
	PayeeEmail   string
	PayeeName    string
	GroupName    string
	Amount       string
}
