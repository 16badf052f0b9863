package validation

import (
	"strings"
	"testing"
)

func TestValidationErrorsCollectAll(t *testing.T) {
	ve := &ValidationErrors{}
	RequireField(ve, "trial_id", "")
	RequireField(ve, "system", "  ")
	ValidateEnum(ve, "role", "TE9", ValidAllocationRoles)

	if !ve.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(ve.Errors) != 3 {
		t.Fatalf("expected all 3 violations reported, got %d", len(ve.Errors))
	}
	msg := ve.Error()
	for _, field := range []string{"trial_id", "system", "role"} {
		if !strings.Contains(msg, field) {
			t.Errorf("message missing field %s: %q", field, msg)
		}
	}
}

func TestErrReturnsNilWhenClean(t *testing.T) {
	ve := &ValidationErrors{}
	RequireField(ve, "trial_id", "NN1234")
	if err := ve.Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestValidateEnumCaseSensitive(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateEnum(ve, "system", "inform", ValidSystems)
	if !ve.HasErrors() {
		t.Error("enum matching must be case-sensitive")
	}

	ve = &ValidationErrors{}
	ValidateEnum(ve, "system", "INFORM", ValidSystems)
	if ve.HasErrors() {
		t.Errorf("exact value rejected: %v", ve)
	}

	// Empty values are the caller's required-field concern.
	ve = &ValidationErrors{}
	ValidateEnum(ve, "system", "", ValidSystems)
	if ve.HasErrors() {
		t.Error("empty value must not fail enum check")
	}
}

func TestValidateDate(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateDate(ve, "start_date", "2026-03-15")
	if ve.HasErrors() {
		t.Errorf("valid date rejected: %v", ve)
	}

	ve = &ValidationErrors{}
	ValidateDate(ve, "start_date", "15/03/2026")
	if !ve.HasErrors() {
		t.Error("wrong layout accepted")
	}
}

func TestValidateDateOrder(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateDateOrder(ve, "start_date", "2026-03-10", "end_date", "2026-03-01")
	if !ve.HasErrors() {
		t.Error("end before start accepted")
	}

	ve = &ValidationErrors{}
	ValidateDateOrder(ve, "start_date", "2026-03-10", "end_date", "2026-03-10")
	if ve.HasErrors() {
		t.Error("same-day range must be allowed")
	}

	// Unparsable inputs are handled by ValidateDate, not here.
	ve = &ValidationErrors{}
	ValidateDateOrder(ve, "start_date", "", "end_date", "2026-03-10")
	if ve.HasErrors() {
		t.Error("missing start must not fail the order check")
	}
}

func TestValidateIntRange(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateIntRange(ve, "current_round", 0, 1, 3)
	if !ve.HasErrors() {
		t.Error("below-range value accepted")
	}
	ve = &ValidationErrors{}
	ValidateIntRange(ve, "current_round", 3, 1, 3)
	if ve.HasErrors() {
		t.Error("upper bound must be inclusive")
	}
}

func TestValidateUsername(t *testing.T) {
	cases := map[string]bool{
		"jane":      true,
		"jane_doe9": true,
		"jd":        false,
		"jane doe":  false,
		"jane-doe":  false,
		"":          false,
	}
	for input, ok := range cases {
		ve := &ValidationErrors{}
		ValidateUsername(ve, "username", input)
		if ve.HasErrors() == ok {
			t.Errorf("username %q: expected ok=%v, got errors %v", input, ok, ve.Errors)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateEmail(ve, "email", "jane@example.com")
	if ve.HasErrors() {
		t.Errorf("valid email rejected: %v", ve)
	}
	ve = &ValidationErrors{}
	ValidateEmail(ve, "email", "not-an-email")
	if !ve.HasErrors() {
		t.Error("invalid email accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	ve := &ValidationErrors{}
	ValidatePassword(ve, "password", "short")
	if !ve.HasErrors() {
		t.Error("short password accepted")
	}
	ve = &ValidationErrors{}
	ValidatePassword(ve, "password", "longenough")
	if ve.HasErrors() {
		t.Errorf("valid password rejected: %v", ve)
	}
}
