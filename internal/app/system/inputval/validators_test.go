package inputval

import "testing"

func TestIsValidBuildingCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"A1", true},
		{"B12", true},
		{"Z999", true},
		{"", false},
		{"A", false},
		{"1A", false},
		{"a1", false},
		{"AB1", false},
		{"A1B", false},
		{" A1", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsValidBuildingCode(tt.code); got != tt.want {
				t.Errorf("IsValidBuildingCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	if !IsValidStatus("active") || !IsValidStatus("inactive") {
		t.Error("expected active and inactive to be valid")
	}
	if IsValidStatus("ACTIVE") || IsValidStatus("deleted") || IsValidStatus("") {
		t.Error("expected other values to be invalid")
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"9845012345", true},
		{"+91 98450 12345", true},
		{"080-2345-6789", true},
		{"12345", false},
		{"phone", false},
		{"+91-", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := IsValidPhone(tt.phone); got != tt.want {
				t.Errorf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}
