package display

import "testing"

func TestFormatter(t *testing.T) {
	f := New("en", "₹")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"money", f.Money(12500.5), "₹12,500.50"},
		{"money zero", f.Money(0), "₹0.00"},
		{"money negative", f.Money(-40), "-₹40.00"},
		{"count", f.Count(1234), "1,234"},
		{"count small", f.Count(7), "7"},
		{"percent", f.Percent(70), "70.0%"},
		{"growth up", f.Growth(12.5), "+12.5%"},
		{"growth down", f.Growth(-3), "-3.0%"},
		{"growth flat", f.Growth(0), "0.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNew_BadLocaleFallsBack(t *testing.T) {
	f := New("not a locale!", "$")
	if got := f.Money(1000); got != "$1,000.00" {
		t.Errorf("got %q", got)
	}
}
