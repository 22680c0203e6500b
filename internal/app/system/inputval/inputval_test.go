package inputval

import "testing"

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Building name"`
		Code  string `validate:"required,buildingcode" label:"Code"`
		Rooms int    `validate:"gte=0,lte=500" label:"Total rooms"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "Sunrise", Code: "A1", Rooms: 10},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Code: "A1"},
			wantErrors: true,
			wantFirst:  "Building name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Code: "A1"},
			wantErrors: true,
			wantFirst:  "Building name must be at most 10 characters.",
		},
		{
			name:       "bad code",
			input:      TestInput{Name: "Sunrise", Code: "a-1"},
			wantErrors: true,
			wantFirst:  "Code must be one uppercase letter followed by digits (for example A1).",
		},
		{
			name:       "negative rooms",
			input:      TestInput{Name: "Sunrise", Code: "A1", Rooms: -1},
			wantErrors: true,
			wantFirst:  "Total rooms must be at least 0.",
		},
		{
			name:       "missing both",
			input:      TestInput{},
			wantErrors: true,
			wantFirst:  "Building name is required.", // First error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_OptionalPhone(t *testing.T) {
	type PhoneInput struct {
		Phone string `validate:"phone" label:"Contact phone"`
	}

	if r := Validate(PhoneInput{}); r.HasErrors() {
		t.Errorf("empty phone should pass: %v", r.Errors)
	}
	r := Validate(PhoneInput{Phone: "abc"})
	if !r.HasErrors() || r.First() != "Contact phone must be a phone number." {
		t.Errorf("First() = %q", r.First())
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
	})
}

func TestResult_First(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.First() != "" {
			t.Errorf("First() = %q, want empty", r.First())
		}
	})

	t.Run("with errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "First error"},
				{Message: "Second error"},
			},
		}
		if r.First() != "First error" {
			t.Errorf("First() = %q, want %q", r.First(), "First error")
		}
	})
}
