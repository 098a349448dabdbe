package plan

import (
	"errors"
	"testing"
)

func TestSnake(t *testing.T) {
	tests := map[string]string{
		"TimeStudiedSeconds":       "time_studied_seconds",
		"Target":                   "target",
		"Subjects[0].Weight":       "subjects[0].weight",
		"Subjects[1].Topics[2].ID": "subjects[1].topics[2].id",
	}
	for in, want := range tests {
		if got := snake(in); got != want {
			t.Errorf("snake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	type inner struct {
		Weight float64 `validate:"gt=0"`
	}
	type outer struct {
		Name  string  `validate:"required"`
		Items []inner `validate:"dive"`
	}

	if err := ValidateStruct(outer{Name: "x", Items: []inner{{Weight: 1}}}); err != nil {
		t.Fatalf("valid struct: %v", err)
	}

	err := ValidateStruct(outer{Name: "x", Items: []inner{{Weight: 1}, {Weight: 0}}})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if ve.Field != "items[1].weight" {
		t.Errorf("field = %q, want items[1].weight", ve.Field)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("error does not wrap ErrValidation")
	}

	err = ValidateStruct(outer{})
	if !errors.As(err, &ve) || ve.Field != "name" || ve.Reason != "is required" {
		t.Errorf("err = %v, want name is required", err)
	}
}
