package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/sweetshop/pkg/validate"
)

type sweetInput struct {
	Name     string  `json:"name"     validate:"required,min=1,max=255"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(sweetInput{
		Name:     "Kaju Katli",
		Category: "indian",
		Price:    4.0,
		Quantity: 25,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(sweetInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["category"]; !ok {
		t.Error("expected category to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"gte=0,lte=1000"`
	}
	if errs := validate.Struct(in{Price: -1}); !validate.HasErrors(errs) {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{Price: 1001}); !validate.HasErrors(errs) {
		t.Error("expected price > 1000 to fail")
	}
	if errs := validate.Struct(in{Price: 2.5}); validate.HasErrors(errs) {
		t.Errorf("expected price 2.5 to pass, got: %v", errs)
	}
}

func TestMinMaxStringLength(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=2,max=5"`
	}
	if errs := validate.Struct(in{Name: "a"}); !validate.HasErrors(errs) {
		t.Error("expected 1-char name to fail min=2")
	}
	if errs := validate.Struct(in{Name: "abcdef"}); !validate.HasErrors(errs) {
		t.Error("expected 6-char name to fail max=5")
	}
	if errs := validate.Struct(in{Name: "abc"}); validate.HasErrors(errs) {
		t.Errorf("expected 3-char name to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Category string `json:"category" validate:"nullable,min=3"`
	}
	if errs := validate.Struct(in{Category: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Category: "ab"}); !validate.HasErrors(errs) {
		t.Error("expected too-short category to fail")
	}
}

func TestNilPointerOnlyRequiredRejects(t *testing.T) {
	type in struct {
		Price    *float64 `json:"price"    validate:"gte=0"`
		Quantity *int     `json:"quantity" validate:"required,gte=0"`
	}
	errs := validate.Struct(in{})
	if _, ok := errs["price"]; ok {
		t.Error("nil optional pointer should not fail gte")
	}
	if _, ok := errs["quantity"]; !ok {
		t.Error("nil required pointer should fail")
	}

	neg := -2.0
	errs = validate.Struct(in{Price: &neg, Quantity: new(int)})
	if _, ok := errs["price"]; !ok {
		t.Error("set pointer should be checked against gte")
	}
}

func TestIntegerRule(t *testing.T) {
	type in struct {
		Amount float64 `json:"amount" validate:"integer"`
	}
	if errs := validate.Struct(in{Amount: 1.5}); !validate.HasErrors(errs) {
		t.Error("expected fractional amount to fail integer rule")
	}
	if errs := validate.Struct(in{Amount: 3}); validate.HasErrors(errs) {
		t.Errorf("expected whole amount to pass: %v", errs)
	}
}
