// Package normalize trims and case-folds user input before it is validated
// or stored.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Name trims and collapses inner whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Username trims and lowercases a login name.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BuildingCode trims and uppercases a building code.
func BuildingCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Phone trims and drops inner spaces.
func Phone(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// QueryParam trims a query string value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// BuildingFilter turns a ?building= value into a code, or "" for all
// buildings.
func BuildingFilter(s string) string {
	s = strings.TrimSpace(s)
	if text.Fold(s) == "all" {
		return ""
	}
	return strings.ToUpper(s)
}
