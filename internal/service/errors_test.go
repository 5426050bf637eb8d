package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"original_url", ErrOriginalURLRequired, ErrValidation},
		{"link_not_found", ErrLinkNotFound, ErrNotFound},
		{"exhausted", ErrCodeSpaceExhausted, ErrInternal},
		{"email_taken", ErrEmailTaken, ErrConflict},
		{"account_not_found", ErrAccountNotFound, ErrNotFound},
		{"wrong_password", ErrWrongPassword, ErrInvalidCredentials},
		{"current_password", ErrCurrentPasswordWrong, ErrInvalidCredentials},
		{"too_short", ErrPasswordTooShort, ErrValidation},
		{"store_unavailable", ErrStoreUnavailable, ErrInternal},
		{"wrapped_internal", wrapInternal("op", errors.New("boom")), ErrInternal},
	}

	kinds := []error{ErrValidation, ErrNotFound, ErrConflict, ErrInvalidCredentials, ErrInternal}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range kinds {
				want := kind == tt.kind
				if got := errors.Is(tt.err, kind); got != want {
					t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, kind, got, want)
				}
			}
		})
	}
}

func TestError_WrappedKeepsIdentity(t *testing.T) {
	err := fmt.Errorf("handler: %w", ErrEmailTaken)

	if !errors.Is(err, ErrEmailTaken) || !errors.Is(err, ErrConflict) {
		t.Fatal("wrapped error should match both itself and its kind")
	}
	if errors.Is(err, ErrAccountNotFound) {
		t.Fatal("wrapped error should not match an unrelated error")
	}

	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Error() != "Email already registered" {
		t.Fatalf("expected client message, got %v", svcErr)
	}
}

func TestInternalError_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := wrapInternal("create link", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if err.Error() != "create link: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
