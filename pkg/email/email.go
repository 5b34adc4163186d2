// Package email derives human-facing names from email addresses for accounts
// that arrive without a profile (password sign-ups, minimal federated claims).
package email

import (
	"strings"
	"unicode"
)

// DeriveDisplayName turns "jane.doe@example.com" into "Jane Doe". Falls back
// to "User" when the local part carries no usable words.
func DeriveDisplayName(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "User"
	}

	words := make([]string, 0, len(parts))
	for _, p := range parts {
		words = append(words, capitalize(p))
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
