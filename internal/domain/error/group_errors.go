// Package error defines domain-specific errors for the CashSplit backend.
package error

import "errors"

// Group domain errors.
var (
	// ErrGroupNotFound is returned when a group is not found in the system.
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupNameTooLong is returned when the group name exceeds the maximum length.
	ErrGroupNameTooLong = errors.New("group name too long")

	// ErrGroupNameRequired is returned when the group name is empty.
	ErrGroupNameRequired = errors.New("group name is required")

	// ErrMemberNotFound is returned when a member is not found in the group.
	ErrMemberNotFound = errors.New("member not found")

	// ErrUserAlreadyMember is returned when an active member is added again.
	ErrUserAlreadyMember = errors.New("user is already a member of this group")

	// ErrNotGroupMember is returned when a user is not a member of the group.
	ErrNotGroupMember = errors.New("user is not a member of this group")

	// ErrMemberInactive is returned when an operation needs an active member.
	ErrMemberInactive = errors.New("member has left the group")

	// ErrOutstandingBalance is returned when a member tries to leave while owing or being owed.
	ErrOutstandingBalance = errors.New("member has an outstanding balance")

	// ErrFormerMemberBalance is returned when a change would move the balance of a member who left.
	ErrFormerMemberBalance = errors.New("balance of a former member cannot change")

	// ErrUserNotRegistered is returned when the email is not a registered user.
	ErrUserNotRegistered = errors.New("user is not registered on the platform")
)

// GroupErrorCode defines error codes for group errors.
// Format: GRP-XXYYYY where XX is category and YYYY is specific error.
type GroupErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeGroupNameTooLong   GroupErrorCode = "GRP-010001"
	ErrCodeGroupNameRequired  GroupErrorCode = "GRP-010002"
	ErrCodeInvalidGroupEmail  GroupErrorCode = "GRP-010003"
	ErrCodeMissingGroupFields GroupErrorCode = "GRP-010004"
	ErrCodeInvalidGroupID     GroupErrorCode = "GRP-010005"
	ErrCodeInvalidVersion     GroupErrorCode = "GRP-010006"

	// Resource not found errors (02XXXX)
	ErrCodeGroupNotFound     GroupErrorCode = "GRP-020001"
	ErrCodeMemberNotFound    GroupErrorCode = "GRP-020002"
	ErrCodeUserNotRegistered GroupErrorCode = "GRP-020003"

	// Authorization errors (03XXXX)
	ErrCodeNotGroupMember GroupErrorCode = "GRP-030001"

	// Conflict errors (04XXXX)
	ErrCodeUserAlreadyMember GroupErrorCode = "GRP-040001"

	// Business rule errors (05XXXX)
	ErrCodeOutstandingBalance  GroupErrorCode = "GRP-050001"
	ErrCodeMemberInactive      GroupErrorCode = "GRP-050002"
	ErrCodeFormerMemberBalance GroupErrorCode = "GRP-050003"
)

// GroupError represents a group error with code and message.
type GroupError struct {
	Code    GroupErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GroupError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GroupError) Unwrap() error {
	return e.Err
}

// NewGroupError creates a new GroupError with the given code and message.
func NewGroupError(code GroupErrorCode, message string, err error) *GroupError {
	return &GroupError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
