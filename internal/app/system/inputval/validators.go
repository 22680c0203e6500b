package inputval

import (
	"regexp"

	"github.com/dalemusser/pghub/internal/domain/models"
)

var (
	buildingCodeRE = regexp.MustCompile(`^[A-Z][0-9]+$`)
	phoneRE        = regexp.MustCompile(`^\+?[0-9][0-9 -]{5,18}[0-9]$`)
)

// IsValidBuildingCode checks format only: one uppercase letter followed by
// one or more digits.
func IsValidBuildingCode(s string) bool {
	return buildingCodeRE.MatchString(s)
}

// IsValidStatus reports whether s is a known row status.
func IsValidStatus(s string) bool {
	return s == models.StatusActive || s == models.StatusInactive
}

// IsValidPhone accepts digits with optional leading + and inner spaces or dashes.
func IsValidPhone(s string) bool {
	return phoneRE.MatchString(s)
}
