// Package api is the Moltbook HTTP client. Every call is a single round
// trip whose outcome is decided by [Classify]; nothing is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quic-go/quic-go/http3"
	"github.com/rs/zerolog"
	"github.com/tidwall/pretty"

	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/netutil"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://www.moltbook.com/api/v1"

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 8 << 20 // 8 MiB
)

// Options configures a [Client]. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	// HTTP3 switches the transport to QUIC.
	HTTP3 bool
	// Debug echoes every request and response through Logger.
	Debug  bool
	Logger zerolog.Logger
	// Observer, when set, is told about every completed call.
	Observer Observer
	// HTTPClient overrides the transport entirely (tests).
	HTTPClient *http.Client
}

// Call summarises one round trip for an [Observer].
type Call struct {
	Method   string
	Path     string
	Status   int
	Err      error
	Duration time.Duration
}

// Observer receives a [Call] after each request. It must not block for
// long and cannot influence the result.
type Observer interface {
	ObserveCall(ctx context.Context, call Call)
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL and may carry a query string.
	Path string
	// Body is JSON-encoded when non-nil.
	Body any
	// File, when set, is uploaded as the multipart part "file" instead of Body.
	File string
	// Anonymous omits the Authorization header.
	Anonymous bool
}

// Client talks to the Moltbook API. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	debug     bool
	log       zerolog.Logger
	observer  Observer
	http      *http.Client
	closer    io.Closer
}

// New builds a Client from opts.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := netutil.NormalizeBaseURL(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "moltbook-cli"
	}
	c := &Client{
		baseURL:   base,
		apiKey:    strings.TrimSpace(opts.APIKey),
		userAgent: ua,
		debug:     opts.Debug,
		log:       opts.Logger,
		observer:  opts.Observer,
		http:      opts.HTTPClient,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: timeout}
		if opts.HTTP3 {
			tr := &http3.Transport{}
			c.http.Transport = tr
			c.closer = tr
		}
	}
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases transport resources. It is safe to call on any Client.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// PostAnonymous is Post without credentials; only registration uses it.
func (c *Client) PostAnonymous(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Anonymous: true}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// PostFile uploads the file at filePath as multipart/form-data. The file is
// read before any network activity; a missing file yields a
// [domain.FileError].
func (c *Client) PostFile(ctx context.Context, path, filePath string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, File: filePath}, out)
}

// Do performs req and classifies the response into out.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	status, body, err := c.roundTrip(httpReq)
	if err == nil {
		err = Classify(status, body, out)
	}
	c.observe(ctx, req, status, err, time.Since(start))
	return err
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL + req.Path

	var (
		payload     io.Reader
		contentType string
	)
	switch {
	case req.File != "":
		data, ct, err := multipartFile(req.File)
		if err != nil {
			return nil, err
		}
		payload, contentType = bytes.NewReader(data), ct
		if c.debug {
			c.log.Debug().Msgf("%s (File) %s", req.Method, u)
			c.log.Debug().Msgf("File: %s", req.File)
		}
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
		payload, contentType = bytes.NewReader(data), "application/json"
		if c.debug {
			c.log.Debug().Msgf("%s %s", req.Method, u)
			c.log.Debug().Msgf("Body: %s", bytes.TrimSpace(pretty.Pretty(data)))
		}
	default:
		if c.debug {
			c.log.Debug().Msgf("%s %s", req.Method, u)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, payload)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if !req.Anonymous {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return httpReq, nil
}

func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &domain.TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return 0, nil, &domain.TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	oversized := len(body) > maxResponseBytes
	if oversized {
		body = body[:maxResponseBytes]
	}
	if c.debug {
		c.log.Debug().Msgf("Response Status: %s", resp.Status)
		c.log.Debug().Msgf("Response Body: %s", body)
	}
	// A cut success body would only fail to decode, so say why. Error
	// statuses still go through Classify, which falls back to the status
	// line when the body is not JSON.
	if oversized && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, body, &domain.ParseError{
			Body: string(body),
			Err:  fmt.Errorf("response body exceeds %d bytes", maxResponseBytes),
		}
	}
	return resp.StatusCode, body, nil
}

func (c *Client) observe(ctx context.Context, req Request, status int, err error, d time.Duration) {
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", status).
		Str("outcome", string(domain.KindOf(err))).
		Dur("took", d).
		Msg("api call")
	if c.observer == nil {
		return
	}
	c.observer.ObserveCall(ctx, Call{
		Method:   req.Method,
		Path:     req.Path,
		Status:   status,
		Err:      err,
		Duration: d,
	})
}

// multipartFile builds a single-part form holding the file at path under
// the field name "file".
func multipartFile(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", &domain.FileError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", contentTypeFor(path))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
