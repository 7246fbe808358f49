package validation

import (
	"testing"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
)

type sample struct {
	Name    string `json:"name" validate:"required,max=5"`
	Email   string `json:"email" validate:"required,email"`
	Payment string `json:"paymentMethod" validate:"payment_method"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(&sample{Name: "too long", Email: "nope", Payment: "cash"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	if details["name"] != "must be at most 5" {
		t.Fatalf("unexpected name message %q", details["name"])
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["paymentMethod"] == "" {
		t.Fatalf("expected payment method failure, got %v", details)
	}
}

func TestStructAcceptsValidInput(t *testing.T) {
	if err := Struct(&sample{Name: "Sari", Email: "sari@example.com", Payment: "cod"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestVar(t *testing.T) {
	if err := Var("email", "sari@example.com", "required,email"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	err := Var("email", "", "required,email")
	details := pkgerrors.As(err).Details().(map[string]string)
	if details["email"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}
