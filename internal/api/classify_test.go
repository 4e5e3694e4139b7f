package api

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/kelexine/moltbook-cli/internal/domain"
)

func TestClassifyRateLimit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"minutes", `{"error":"rate_limit_exceeded","retry_after_minutes":30}`, "30 minutes"},
		{"seconds", `{"error":"rate_limit_exceeded","retry_after_seconds":15}`, "15 seconds"},
		{"minutes_win", `{"retry_after_minutes":2,"retry_after_seconds":120}`, "2 minutes"},
		{"zero_minutes", `{"retry_after_minutes":0}`, "0 minutes"},
		{"string_minutes_ignored", `{"retry_after_minutes":"30","retry_after_seconds":9}`, "9 seconds"},
		{"negative_ignored", `{"retry_after_minutes":-1}`, "Wait before retrying"},
		{"float_ignored", `{"retry_after_seconds":1.5}`, "Wait before retrying"},
		{"no_fields", `{"error":"slow down"}`, "Wait before retrying"},
		{"not_json", `slow down`, "Wait before retrying"},
		{"empty", ``, "Wait before retrying"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Classify(429, []byte(tc.body), nil)
			var rl *domain.RateLimitError
			if !errors.As(err, &rl) {
				t.Fatalf("got %T (%v), want *domain.RateLimitError", err, err)
			}
			if rl.RetryAfter != tc.want {
				t.Fatalf("got %q, want %q", rl.RetryAfter, tc.want)
			}
		})
	}
}

func TestClassifyRateLimitNeverFallsThrough(t *testing.T) {
	t.Parallel()

	err := Classify(429, []byte(`{"error":"captcha_required","token":"tok"}`), nil)
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("got %T, want *domain.RateLimitError", err)
	}
}

func TestClassifyCaptcha(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"token", `{"error":"captcha_required","token":"tok_abc123"}`, "tok_abc123"},
		{"missing_token", `{"error":"captcha_required"}`, "unknown_token"},
		{"numeric_token", `{"error":"captcha_required","token":5}`, "unknown_token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Classify(403, []byte(tc.body), nil)
			var cr *domain.CaptchaRequiredError
			if !errors.As(err, &cr) {
				t.Fatalf("got %T (%v), want *domain.CaptchaRequiredError", err, err)
			}
			if cr.Token != tc.want {
				t.Fatalf("got %q, want %q", cr.Token, tc.want)
			}
		})
	}
}

func TestClassifyDomainError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantHint string
	}{
		{"error_and_hint", 404, `{"error":"Agent not found","hint":"Check the spelling of the name"}`, "Agent not found", "Check the spelling of the name"},
		{"no_hint", 400, `{"error":"Bad input"}`, "Bad input", ""},
		{"no_error", 500, `{"success":false}`, "Unknown error", ""},
		{"json_scalar", 500, `42`, "Unknown error", ""},
		{"not_json", 502, `<html>Bad Gateway</html>`, "HTTP 502 Bad Gateway", "<html>Bad Gateway</html>"},
		{"empty_body", 404, ``, "HTTP 404 Not Found", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Classify(tc.status, []byte(tc.body), nil)
			var ae *domain.APIError
			if !errors.As(err, &ae) {
				t.Fatalf("got %T (%v), want *domain.APIError", err, err)
			}
			if ae.Message != tc.wantMsg || ae.Hint != tc.wantHint {
				t.Fatalf("got (%q, %q), want (%q, %q)", ae.Message, ae.Hint, tc.wantMsg, tc.wantHint)
			}
			if ae.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", ae.StatusCode, tc.status)
			}
		})
	}
}

func TestClassifySuccessDecodes(t *testing.T) {
	t.Parallel()

	var feed domain.FeedResponse
	body := `{"success":true,"posts":[{"id":"p1","title":"Hello","upvotes":"3","downvotes":0,"created_at":"2024-01-01T00:00:00Z","author":{"name":"Bot"}}]}`
	if err := Classify(200, []byte(body), &feed); err != nil {
		t.Fatal(err)
	}
	if len(feed.Posts) != 1 || feed.Posts[0].Upvotes != 3 {
		t.Fatalf("unexpected feed: %+v", feed)
	}
}

func TestClassifySuccessParseFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"wrong_type", `{"posts":"nope"}`},
		{"missing_required", `{"success":true}`},
		{"not_json", `hello`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var feed domain.FeedResponse
			err := Classify(200, []byte(tc.body), &feed)
			var pe *domain.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("got %T (%v), want *domain.ParseError", err, err)
			}
			if pe.Body != tc.body {
				t.Fatalf("body = %q, want %q", pe.Body, tc.body)
			}
		})
	}
}

func TestClassifyLooseValue(t *testing.T) {
	t.Parallel()

	var v gjson.Result
	if err := Classify(201, []byte(`{"success":true,"post":{"id":"p9"}}`), &v); err != nil {
		t.Fatal(err)
	}
	if got := v.Get("post.id").String(); got != "p9" {
		t.Fatalf("got %q, want p9", got)
	}

	err := Classify(200, []byte(`{"broken"`), &v)
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %T, want *domain.ParseError", err)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	inputs := []struct {
		status int
		body   string
	}{
		{429, `{"retry_after_seconds":5}`},
		{403, `{"error":"captcha_required","token":"t"}`},
		{404, `not json`},
		{200, `{"posts":"x"}`},
	}
	for _, in := range inputs {
		var a, b domain.FeedResponse
		first := Classify(in.status, []byte(in.body), &a)
		second := Classify(in.status, []byte(in.body), &b)
		if !reflect.DeepEqual(first.Error(), second.Error()) || reflect.TypeOf(first) != reflect.TypeOf(second) {
			t.Fatalf("status %d: %v != %v", in.status, first, second)
		}
	}
}
