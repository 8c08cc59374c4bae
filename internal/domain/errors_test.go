package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTaxonomyHelpers(t *testing.T) {
	validation := NewValidationError("rows[0].product", "select a product")
	sync := NewSyncError("list_products", "server unavailable")
	session := &SessionError{Message: "session expired"}

	tests := []struct {
		name       string
		err        error
		validation bool
		sync       bool
		session    bool
	}{
		{name: "validation", err: validation, validation: true},
		{name: "sync", err: sync, sync: true},
		{name: "session", err: session, session: true},
		{name: "wrapped validation", err: fmt.Errorf("submit: %w", validation), validation: true},
		{name: "wrapped sync", err: fmt.Errorf("refresh: %w", sync), sync: true},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidation(tc.err); got != tc.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tc.validation)
			}
			if got := IsSync(tc.err); got != tc.sync {
				t.Errorf("IsSync() = %v, want %v", got, tc.sync)
			}
			if got := IsSession(tc.err); got != tc.session {
				t.Errorf("IsSession() = %v, want %v", got, tc.session)
			}
		})
	}
}

func TestSyncErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &SyncError{Op: "refresh", Message: "server unreachable", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected SyncError to unwrap to its cause")
	}
	if err.Error() == "" {
		t.Fatal("expected non-empty error text")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{
			name: "sync hides cause",
			err:  &SyncError{Op: "refresh", Message: "product not found", Err: errors.New("http 404")},
			want: "product not found",
		},
		{
			name: "validation keeps field",
			err:  NewValidationError("orderId", "must be a positive integer"),
			want: "orderId: must be a positive integer",
		},
		{
			name: "session",
			err:  &SessionError{Message: "session expired"},
			want: "session expired",
		},
		{
			name: "plain error passes through",
			err:  errors.New("boom"),
			want: "boom",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.want {
				t.Errorf("UserMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}
