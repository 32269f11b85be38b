package error

import "errors"

// Expense domain errors.
var (
	ErrExpenseNotFound        = errors.New("expense not found")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrAmountPrecision        = errors.New("amount has more than two decimal places")
	ErrNoParticipants         = errors.New("expense needs at least one participant")
	ErrDuplicateParticipant   = errors.New("participant listed more than once")
	ErrInvalidSplitType       = errors.New("split type must be equal or percentage")
	ErrPercentageSum          = errors.New("percentages must add up to 100")
	ErrPercentageMismatch     = errors.New("percentages must cover exactly the participants")
	ErrNegativePercentage     = errors.New("percentage cannot be negative")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description too long")
	ErrNotExpenseCreator      = errors.New("only the creator can change this expense")
	ErrSettlementImmutable    = errors.New("settlements cannot be edited or deleted")
	ErrSettlementExceedsPlan  = errors.New("settlement exceeds the outstanding amount")
	ErrSettlementSelf         = errors.New("cannot settle with yourself")
	ErrNothingToSettle        = errors.New("no outstanding debt to this member")
	ErrParticipantNotEligible = errors.New("participant is not an active member")
	ErrPayerNotEligible       = errors.New("payer is not an active member")
)

// ExpenseErrorCode defines error codes for expense and settlement errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount          ExpenseErrorCode = "EXP-010001"
	ErrCodeAmountPrecision        ExpenseErrorCode = "EXP-010002"
	ErrCodeNoParticipants         ExpenseErrorCode = "EXP-010003"
	ErrCodeDuplicateParticipant   ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidSplitType       ExpenseErrorCode = "EXP-010005"
	ErrCodePercentageSum          ExpenseErrorCode = "EXP-010006"
	ErrCodePercentageMismatch     ExpenseErrorCode = "EXP-010007"
	ErrCodeNegativePercentage     ExpenseErrorCode = "EXP-010008"
	ErrCodeDescriptionRequired    ExpenseErrorCode = "EXP-010009"
	ErrCodeDescriptionTooLong     ExpenseErrorCode = "EXP-010010"
	ErrCodeParticipantNotEligible ExpenseErrorCode = "EXP-010011"
	ErrCodePayerNotEligible       ExpenseErrorCode = "EXP-010012"
	ErrCodeInvalidExpenseID       ExpenseErrorCode = "EXP-010013"
	ErrCodeMissingExpenseFields   ExpenseErrorCode = "EXP-010014"

	// Resource not found errors (02XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-020001"

	// Authorization errors (03XXXX)
	ErrCodeNotExpenseCreator ExpenseErrorCode = "EXP-030001"

	// Settlement errors (05XXXX)
	ErrCodeSettlementImmutable   ExpenseErrorCode = "EXP-050001"
	ErrCodeSettlementExceedsPlan ExpenseErrorCode = "EXP-050002"
	ErrCodeSettlementSelf        ExpenseErrorCode = "EXP-050003"
	ErrCodeNothingToSettle       ExpenseErrorCode = "EXP-050004"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidation reports whether the error was caused by bad caller input.
func (e *ExpenseError) IsValidation() bool {
	return len(e.Code) > 6 && e.Code[4:6] == "01"
}
