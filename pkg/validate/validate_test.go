package validate_test

import (
	"testing"

	"github.com/orderdesk/backoffice/pkg/validate"
)

type staffInput struct {
	Username string `json:"username"  validate:"required,alpha_dash,min=3,max=64"`
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Role     string `json:"role"      validate:"required,in=staff,manager"`
	Password string `json:"password"  validate:"required,min=8"`
	Website  string `json:"website"   validate:"nullable,min=5"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(staffInput{
		Username: "arjun_p",
		Email:    "arjun@orderdesk.io",
		FullName: "Arjun Patel",
		Role:     "staff",
		Password: "secret123",
		Website:  "", // nullable, allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(staffInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["username"]; !ok {
		t.Error("expected username to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
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

func TestInRuleMultiValue(t *testing.T) {
	// The in= parameter contains commas itself; later rules must survive.
	type in struct {
		Role string `json:"role" validate:"required,in=staff,manager,max=64"`
	}
	if errs := validate.Struct(in{Role: "staff"}); validate.HasErrors(errs) {
		t.Errorf("expected staff to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Role: "manager"}); validate.HasErrors(errs) {
		t.Errorf("expected manager to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Role: "admin"}); !validate.HasErrors(errs) {
		t.Error("expected admin to be rejected by the in rule")
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Stock int `json:"stock" validate:"required,gte=1,lte=10000"`
	}
	if errs := validate.Struct(in{Stock: 0}); !validate.HasErrors(errs) {
		t.Error("expected zero stock to fail required")
	}
	if errs := validate.Struct(in{Stock: 99999}); !validate.HasErrors(errs) {
		t.Error("expected stock above the cap to fail")
	}
	if errs := validate.Struct(in{Stock: 20}); validate.HasErrors(errs) {
		t.Errorf("expected in-range stock to pass, got: %v", errs)
	}
}

func TestStringLength(t *testing.T) {
	type in struct {
		Username string `json:"username" validate:"required,min=3,max=5"`
	}
	if errs := validate.Struct(in{Username: "ab"}); !validate.HasErrors(errs) {
		t.Error("expected too-short username to fail")
	}
	if errs := validate.Struct(in{Username: "abcdef"}); !validate.HasErrors(errs) {
		t.Error("expected too-long username to fail")
	}
	if errs := validate.Struct(in{Username: "abcd"}); validate.HasErrors(errs) {
		t.Errorf("expected in-range username to pass, got: %v", errs)
	}
}

func TestAlphaDash(t *testing.T) {
	type in struct {
		Slug string `json:"slug" validate:"required,alpha_dash"`
	}
	if errs := validate.Struct(in{Slug: "silk-sarees_2026"}); validate.HasErrors(errs) {
		t.Errorf("expected slug to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Slug: "silk sarees!"}); !validate.HasErrors(errs) {
		t.Error("expected spaces and punctuation to fail alpha_dash")
	}
}

func TestDateRule(t *testing.T) {
	type in struct {
		From string `json:"from" validate:"required,date"`
	}
	if errs := validate.Struct(in{From: "2026-08-28"}); validate.HasErrors(errs) {
		t.Errorf("expected YYYY-MM-DD to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{From: "28/08/2026"}); !validate.HasErrors(errs) {
		t.Error("expected non-ISO date to fail")
	}
}

func TestFirstErrorPerFieldWins(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email,min=100"`
	}
	errs := validate.Struct(in{Email: "x"})
	if msg := errs["email"]; msg == "" {
		t.Fatal("expected an email error")
	} else if msg != "The email must be a valid email address." {
		t.Errorf("expected the email rule to fail first, got: %q", msg)
	}
}
