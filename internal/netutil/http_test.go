package netutil

import (
	"errors"
	"net"
	"net/url"
	"os"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                                  "",
		" https://www.moltbook.com/api/v1/ ": "https://www.moltbook.com/api/v1",
		"localhost:8080":                    "https://localhost:8080",
		"http://127.0.0.1:9999//":           "http://127.0.0.1:9999",
	}

	for in, want := range tests {
		if got := NormalizeBaseURL(in); got != want {
			t.Fatalf("NormalizeBaseURL(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		segments []string
		want     string
	}{
		{nil, "/"},
		{[]string{"agents", "me"}, "/agents/me"},
		{[]string{"agents", "my bot", "follow"}, "/agents/my%20bot/follow"},
		{[]string{"submolts", "a/b"}, "/submolts/a%2Fb"},
	}
	for _, tc := range tests {
		if got := Path(tc.segments...); got != tc.want {
			t.Fatalf("Path(%q): got %q, want %q", tc.segments, got, tc.want)
		}
	}
}

func TestWithQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		kv   []string
		want string
	}{
		{"none", "/feed", nil, "/feed"},
		{"sorted", "/feed", []string{"sort", "hot", "limit", "25"}, "/feed?limit=25&sort=hot"},
		{"escaped", "/search", []string{"q", "rust & go"}, "/search?q=rust+%26+go"},
		{"skip_empty", "/posts", []string{"sort", ""}, "/posts"},
		{"existing_query", "/feed?x=1", []string{"limit", "3"}, "/feed?x=1&limit=3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := WithQuery(tc.path, tc.kv...); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestShortError(t *testing.T) {
	t.Parallel()

	inner := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", errors.New("connection refused"))}
	err := &url.Error{Op: "Get", URL: "http://127.0.0.1:1/feed", Err: inner}
	if got := ShortError(err); got != "connect: connection refused" {
		t.Fatalf("got %q", got)
	}
	if got := ShortError(errors.New("plain")); got != "plain" {
		t.Fatalf("got %q", got)
	}
	if got := ShortError(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
