package auth

import (
	"strings"
	"unicode/utf8"

	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/domain/valueobject"
)

const maxNameLength = 100

// ValidateProfile checks the user-editable profile fields shared by signup
// and profile updates. Empty phone and UPI id are allowed.
func ValidateProfile(name, upiID string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return domainerror.NewAuthError(
			domainerror.ErrCodeInvalidName,
			"name must be between 1 and 100 characters",
			domainerror.ErrInvalidName,
		)
	}

	if upiID != "" && !valueobject.IsValidUPIID(upiID) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeInvalidUPIID,
			"invalid UPI id",
			domainerror.ErrInvalidUPIID,
		)
	}
	return nil
}
