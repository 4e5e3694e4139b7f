// Package netutil provides shared URL building and network error helpers.
package netutil

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

// NormalizeBaseURL trims whitespace and trailing slashes and defaults the
// scheme to https when none is given. An empty input stays empty.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/")
}

// Path joins segments into an absolute API path, escaping each segment.
//
//	Path("agents", "my bot", "follow") == "/agents/my%20bot/follow"
func Path(segments ...string) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// WithQuery appends key/value pairs to path as an encoded query string.
// Pairs with an empty value are skipped; a trailing odd key is ignored.
func WithQuery(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		q.Set(kv[i], kv[i+1])
	}
	if len(q) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// ShortError extracts the innermost meaningful message from nested network
// errors (*url.Error -> *net.OpError -> syscall) so that messages stay
// concise, e.g. "connection refused" instead of the full dial trace.
func ShortError(err error) string {
	if err == nil {
		return ""
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	var oe *net.OpError
	if errors.As(err, &oe) && oe.Err != nil {
		return oe.Err.Error()
	}
	return err.Error()
}
