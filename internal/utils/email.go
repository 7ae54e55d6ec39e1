package utils

import "strings"

// NormalizeEmail prepares an email for storage and lookup: trim +
// lowercase. Uniqueness in the users table is defined over this
// normalized form. Returns "" when the value cannot be a valid address
// so callers can reject it outright.
func NormalizeEmail(email string) string {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" || !strings.Contains(e, "@") {
		return ""
	}
	return e
}
