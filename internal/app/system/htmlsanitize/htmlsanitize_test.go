package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/pghub/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_Unchanged(t *testing.T) {
	input := "12 MG Road, Bengaluru"
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestPlainText_KeepsAmpersand(t *testing.T) {
	input := "Rao & Sons Residency"
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected ampersand preserved, got %q", got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold", "<b>Block</b> A", "Block A"},
		{"script", "Hostel<script>alert('xss')</script>", "Hostel"},
		{"link", `<a href="javascript:alert(1)">Call</a> us`, "Call us"},
		{"whitespace", "  <p>Ravi</p>  ", "Ravi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPlainText(t *testing.T) {
	if !htmlsanitize.IsPlainText("") {
		t.Error("expected empty string to be plain text")
	}
	if !htmlsanitize.IsPlainText("Hello, World!") {
		t.Error("expected string without tags to be plain text")
	}
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected string with tags to NOT be plain text")
	}
}
