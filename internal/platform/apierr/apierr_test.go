package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageAndUnwrap(t *testing.T) {
	base := errors.New("payload exceeds 2097152 bytes")
	err := fmt.Errorf("decode: %w", TooLarge(base))

	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error in chain")
	}
	if ae.Status != http.StatusRequestEntityTooLarge || ae.Code != "payload_too_large" {
		t.Fatalf("unexpected error: %+v", ae)
	}
	if !errors.Is(err, base) {
		t.Fatalf("cause not reachable through Unwrap")
	}
}

func TestErrorFallbackMessages(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{err: nil, want: ""},
		{err: &Error{}, want: "api error"},
		{err: &Error{Status: 503}, want: "api error (503)"},
		{err: BadRequest("invalid_kind", nil), want: "invalid_kind"},
		{err: Unavailable("aborted", errors.New("context canceled")), want: "context canceled"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
}
