package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrNotConfigured is returned when a command needs stored credentials and
// none could be loaded.
var ErrNotConfigured = errors.New("moltbook is not configured")

// Kind classifies the outcome of a single API call. It is stored alongside
// history entries and therefore must stay stable.
type Kind string

const (
	KindSuccess         Kind = "success"
	KindRateLimited     Kind = "rate_limited"
	KindCaptchaRequired Kind = "captcha_required"
	KindAPI             Kind = "api_error"
	KindParse           Kind = "parse_error"
	KindTransport       Kind = "transport_error"
	KindLocal           Kind = "local_error"
)

// RateLimitError is returned for HTTP 429 responses. RetryAfter is a
// human-readable wait such as "30 minutes".
type RateLimitError struct {
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	return "Rate limited. ⏳ Retry after " + e.RetryAfter
}

// CaptchaRequiredError is returned when the server demands a CAPTCHA before
// the action can proceed.
type CaptchaRequiredError struct {
	Token string
}

func (e *CaptchaRequiredError) Error() string {
	return "CAPTCHA required. 🛡️  Token: " + e.Token
}

// APIError is a non-2xx response that carried a server-side error message.
// Hint may be empty.
type APIError struct {
	StatusCode int
	Message    string
	Hint       string
}

func (e *APIError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("API Error: %s %s", e.Message, e.Hint))
}

// ParseError is returned when a successful response body does not match the
// shape the caller asked for. Body holds the raw response text.
type ParseError struct {
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Snippet returns the raw body cut to at most n runes, with "..." appended
// when something was cut.
func (e *ParseError) Snippet(n int) string {
	body := strings.TrimSpace(e.Body)
	if n <= 0 || utf8.RuneCountInString(body) <= n {
		return body
	}
	return string([]rune(body)[:n]) + "..."
}

// TransportError wraps a failure below HTTP: DNS, TLS, connection resets,
// timeouts. No response was classified.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP Request failed: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FileError is returned when a file that should be uploaded cannot be read.
// It is raised before any network activity.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("IO error: %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// KindOf maps err onto its outcome class. A nil error is a success.
func KindOf(err error) Kind {
	if err == nil {
		return KindSuccess
	}
	var (
		rl *RateLimitError
		cr *CaptchaRequiredError
		ae *APIError
		pe *ParseError
		te *TransportError
	)
	switch {
	case errors.As(err, &rl):
		return KindRateLimited
	case errors.As(err, &cr):
		return KindCaptchaRequired
	case errors.As(err, &ae):
		return KindAPI
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &te):
		return KindTransport
	default:
		return KindLocal
	}
}

// IsAPIMessage reports whether err is an APIError whose message equals msg.
func IsAPIMessage(err error, msg string) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Message == msg
}
