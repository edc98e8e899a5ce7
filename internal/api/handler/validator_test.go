package handler

import (
	"strings"
	"testing"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&signUpRequest{Username: "ana", Email: "ana@gmail.com", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.Validate(&signUpRequest{Username: strings.Repeat("a", 65), Email: "not-an-email"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"username must be at most 64 characters",
		"email must be a valid email",
		"password is required",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}
