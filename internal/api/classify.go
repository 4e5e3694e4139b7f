package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kelexine/moltbook-cli/internal/domain"
)

const (
	defaultRetryAfter = "Wait before retrying"
	defaultErrorText  = "Unknown error"
	defaultCaptcha    = "unknown_token"
	captchaRequired   = "captcha_required"
)

// Validator is implemented by response shapes that need checks beyond
// what JSON decoding enforces, such as a required list.
type Validator interface {
	Validate() error
}

// Classify turns a completed HTTP exchange into a decoded value or one of
// the domain errors. It depends on nothing but its arguments:
//
//   - 429 is always a [domain.RateLimitError];
//   - other non-2xx statuses become [domain.CaptchaRequiredError] or
//     [domain.APIError];
//   - 2xx bodies are decoded into out, failing with [domain.ParseError].
//
// out may be nil to discard the body, or a *gjson.Result to receive the
// loosely-typed value.
func Classify(status int, body []byte, out any) error {
	if status == http.StatusTooManyRequests {
		return &domain.RateLimitError{RetryAfter: retryAfter(body)}
	}
	if status < 200 || status > 299 {
		return classifyFailure(status, body)
	}
	return decodeInto(body, out)
}

func retryAfter(body []byte) string {
	if !gjson.ValidBytes(body) {
		return defaultRetryAfter
	}
	if n, ok := uintField(body, "retry_after_minutes"); ok {
		return fmt.Sprintf("%d minutes", n)
	}
	if n, ok := uintField(body, "retry_after_seconds"); ok {
		return fmt.Sprintf("%d seconds", n)
	}
	return defaultRetryAfter
}

// uintField reads key as a non-negative JSON integer. Strings, floats and
// negative numbers do not count.
func uintField(body []byte, key string) (uint64, bool) {
	r := gjson.GetBytes(body, key)
	if r.Type != gjson.Number {
		return 0, false
	}
	n, err := strconv.ParseUint(r.Raw, 10, 64)
	return n, err == nil
}

func stringField(body []byte, key, fallback string) string {
	r := gjson.GetBytes(body, key)
	if r.Type != gjson.String {
		return fallback
	}
	return r.Str
}

func classifyFailure(status int, body []byte) error {
	if !gjson.ValidBytes(body) {
		return &domain.APIError{
			StatusCode: status,
			Message:    statusLine(status),
			Hint:       string(body),
		}
	}
	msg := stringField(body, "error", defaultErrorText)
	if msg == captchaRequired {
		return &domain.CaptchaRequiredError{Token: stringField(body, "token", defaultCaptcha)}
	}
	return &domain.APIError{
		StatusCode: status,
		Message:    msg,
		Hint:       stringField(body, "hint", ""),
	}
}

func statusLine(status int) string {
	return strings.TrimSpace(fmt.Sprintf("HTTP %d %s", status, http.StatusText(status)))
}

func decodeInto(body []byte, out any) error {
	switch target := out.(type) {
	case nil:
		return nil
	case *gjson.Result:
		if !gjson.ValidBytes(body) {
			return &domain.ParseError{Body: string(body), Err: fmt.Errorf("invalid JSON")}
		}
		*target = gjson.ParseBytes(body)
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.ParseError{Body: string(body), Err: err}
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return &domain.ParseError{Body: string(body), Err: err}
		}
	}
	return nil
}
