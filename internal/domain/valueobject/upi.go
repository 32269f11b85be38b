package valueobject

import (
	"regexp"
	"strings"
)

var (
	upiPattern   = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// IsValidUPIID reports whether s looks like a UPI virtual payment address
// such as "alice@okbank".
func IsValidUPIID(s string) bool {
	return upiPattern.MatchString(s)
}

// IsValidEmail validates email format using a simple regex.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
