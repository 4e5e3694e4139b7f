package domain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestRateLimitErrorMessage(t *testing.T) {
	t.Parallel()

	err := &RateLimitError{RetryAfter: "30 minutes"}
	want := "Rate limited. ⏳ Retry after 30 minutes"
	if got := err.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *APIError
		want string
	}{
		{"with_hint", &APIError{Message: "Agent not found", Hint: "Check the spelling of the name"}, "API Error: Agent not found Check the spelling of the name"},
		{"without_hint", &APIError{Message: "Unknown error"}, "API Error: Unknown error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := &TransportError{Method: "GET", URL: "http://x/feed", Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected errors.Is to match context.DeadlineExceeded")
	}
}

func TestFileErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := &FileError{Path: "/nope.png", Err: os.ErrNotExist}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected errors.Is to match os.ErrNotExist")
	}
}

func TestParseErrorSnippet(t *testing.T) {
	t.Parallel()

	err := &ParseError{Body: "  {\"posts\":\"héllo wörld\"}\n", Err: errors.New("bad shape")}
	if got, want := err.Snippet(0), `{"posts":"héllo wörld"}`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := err.Snippet(12), `{"posts":"hé...`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := err.Snippet(100), `{"posts":"héllo wörld"}`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindSuccess},
		{"rate_limited", &RateLimitError{RetryAfter: "1 minutes"}, KindRateLimited},
		{"captcha", &CaptchaRequiredError{Token: "tok"}, KindCaptchaRequired},
		{"api", &APIError{Message: "nope"}, KindAPI},
		{"parse", &ParseError{Body: "x", Err: errors.New("bad")}, KindParse},
		{"transport", &TransportError{Err: errors.New("reset")}, KindTransport},
		{"wrapped_api", fmt.Errorf("follow: %w", &APIError{Message: "nope"}), KindAPI},
		{"file", &FileError{Path: "a", Err: os.ErrNotExist}, KindLocal},
		{"plain", errors.New("boom"), KindLocal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsAPIMessage(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("verify: %w", &APIError{StatusCode: 409, Message: "Already answered"})
	if !IsAPIMessage(err, "Already answered") {
		t.Fatal("expected wrapped APIError to match")
	}
	if IsAPIMessage(&RateLimitError{}, "Already answered") {
		t.Fatal("rate limit error must not match an API message")
	}
}
