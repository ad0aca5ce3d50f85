// Package email holds helpers for working with bare mail addresses.
package email

import (
	"strings"
	"unicode"
)

// NameFromAddress guesses a display name from the local part of an address,
// so "jane.doe+wills@example.com" becomes "Jane Doe". It returns "" when the
// local part has nothing usable.
func NameFromAddress(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at >= 0 {
		localPart = address[:at]
	}
	if plus := strings.IndexByte(localPart, '+'); plus >= 0 {
		localPart = localPart[:plus]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
