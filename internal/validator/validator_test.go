package validator

import "testing"

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"omitempty,oneof=student teacher librarian admin"`
}

func TestValidateValid(t *testing.T) {
	v := New()

	errs := v.Validate(&sampleRequest{
		Email:    "ravi@example.com",
		Password: "longenough",
		Role:     "student",
	})
	if errs != nil {
		t.Errorf("Validate() = %v, want nil", errs)
	}
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	v := New()

	errs := v.Validate(&sampleRequest{
		Email:    "not-an-email",
		Password: "short",
		Role:     "principal",
	})
	if len(errs) != 3 {
		t.Fatalf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	if byField["Email"].Rule != "email" {
		t.Errorf("Email rule = %q, want %q", byField["Email"].Rule, "email")
	}
	if byField["Password"].Rule != "min" {
		t.Errorf("Password rule = %q, want %q", byField["Password"].Rule, "min")
	}
	if byField["Role"].Rule != "oneof" {
		t.Errorf("Role rule = %q, want %q", byField["Role"].Rule, "oneof")
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{{Field: "Email", Message: "must be a valid email address"}}
	if errs.Error() != "validation failed: Email must be a valid email address" {
		t.Errorf("Error() = %q", errs.Error())
	}

	many := ValidationErrors{{Field: "A"}, {Field: "B"}}
	if many.Error() != "validation failed: 2 field errors" {
		t.Errorf("Error() = %q", many.Error())
	}
}
