package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus represents the status of a notification email in the queue.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// NotificationKind names the ledger event an email reports. It doubles as
// the template name.
type NotificationKind string

const (
	NotificationMemberAdded        NotificationKind = "member_added"
	NotificationSettlementRecorded NotificationKind = "settlement_recorded"
)

// IsValid reports whether the kind has a template.
func (k NotificationKind) IsValid() bool {
	return k == NotificationMemberAdded || k == NotificationSettlementRecorded
}

// DefaultEmailMaxAttempts is how often a job is tried before it is marked failed.
const DefaultEmailMaxAttempts = 3

// EmailJob is a notification about a group event waiting to be emailed.
// ReferenceID points at what the event is about: the added member's user
// id or the settlement's expense id.
type EmailJob struct {
	ID             uuid.UUID
	Kind           NotificationKind
	GroupID        uuid.UUID
	ReferenceID    uuid.UUID
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]interface{}
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ResendID       string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// Recipient is who a notification is addressed to.
type Recipient struct {
	Email string
	Name  string
}

// NewMemberAddedJob queues the email telling memberID they joined groupID.
func NewMemberAddedJob(groupID, memberID uuid.UUID, to Recipient, subject string, data map[string]interface{}) *EmailJob {
	return newEmailJob(NotificationMemberAdded, groupID, memberID, to, subject, data)
}

// NewSettlementRecordedJob queues the email telling a payee about settlementID.
func NewSettlementRecordedJob(groupID, settlementID uuid.UUID, to Recipient, subject string, data map[string]interface{}) *EmailJob {
	return newEmailJob(NotificationSettlementRecorded, groupID, settlementID, to, subject, data)
}

func newEmailJob(kind NotificationKind, groupID, referenceID uuid.UUID, to Recipient, subject string, data map[string]interface{}) *EmailJob {
	if data == nil {
		data = make(map[string]interface{})
	}
	now := time.Now().UTC()
	return &EmailJob{
		ID:             uuid.New(),
		Kind:           kind,
		GroupID:        groupID,
		ReferenceID:    referenceID,
		RecipientEmail: to.Email,
		RecipientName:  to.Name,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    DefaultEmailMaxAttempts,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing marks the job as claimed by a worker.
func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent marks the email as delivered to the provider.
func (e *EmailJob) MarkSent(resendID string) {
	e.Status = EmailStatusSent
	e.ResendID = resendID
	now := time.Now().UTC()
	e.ProcessedAt = &now
}

// MarkFailed records a failed attempt. Permanent failures and exhausted
// jobs end as failed; the rest go back to pending with a later schedule.
func (e *EmailJob) MarkFailed(err error, permanent bool) {
	e.Attempts++
	e.LastError = err.Error()

	if permanent || e.Attempts >= e.MaxAttempts {
		e.Status = EmailStatusFailed
		now := time.Now().UTC()
		e.ProcessedAt = &now
		return
	}

	e.Status = EmailStatusPending
	e.ScheduledAt = e.nextRetry()
}

// nextRetry doubles the delay on every attempt, starting at 30s and capped
// at 10 minutes.
func (e *EmailJob) nextRetry() time.Time {
	delay := 30 * time.Second << (e.Attempts - 1)
	if delay <= 0 || delay > 10*time.Minute {
		delay = 10 * time.Minute
	}
	return time.Now().UTC().Add(delay)
}

// CanRetry returns true if the job has attempts left.
func (e *EmailJob) CanRetry() bool {
	return e.Attempts < e.MaxAttempts
}
