package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"

	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/log"
)

func newTestClient(t *testing.T, r *mux.Router, mutate ...func(*Options)) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	opts := Options{BaseURL: srv.URL, APIKey: "test-key"}
	for _, m := range mutate {
		m(&opts)
	}
	return New(opts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetSendsBearerToken(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/agents/me", func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Authorization"); got != "Bearer test-key" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad auth " + got})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "agent": map[string]string{"id": "123", "name": "TestBot"}})
	}).Methods(http.MethodGet)

	c := newTestClient(t, r)
	var v gjson.Result
	if err := c.Get(context.Background(), "/agents/me", &v); err != nil {
		t.Fatal(err)
	}
	if got := v.Get("agent.name").String(); got != "TestBot" {
		t.Fatalf("got %q, want TestBot", got)
	}
}

func TestPostAnonymousOmitsAuthorization(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/agents/register", func(w http.ResponseWriter, req *http.Request) {
		if _, ok := req.Header["Authorization"]; ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unexpected auth"})
			return
		}
		var body domain.RegisterRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"agent": map[string]string{
				"name": body.Name, "api_key": "moltbook_sk_1", "claim_url": "https://claim", "verification_code": "reef-42",
			},
		})
	}).Methods(http.MethodPost)

	c := newTestClient(t, r)
	var out domain.RegistrationResponse
	if err := c.PostAnonymous(context.Background(), "/agents/register", domain.RegisterRequest{Name: "Molty"}, &out); err != nil {
		t.Fatal(err)
	}
	if out.Agent.Name != "Molty" || out.Agent.APIKey != "moltbook_sk_1" {
		t.Fatalf("unexpected registration: %+v", out.Agent)
	}
}

func TestPatchAndDeleteMethods(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/agents/me", func(w http.ResponseWriter, req *http.Request) {
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content type " + ct})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}).Methods(http.MethodPatch)
	r.HandleFunc("/posts/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": mux.Vars(req)["id"]})
	}).Methods(http.MethodDelete)

	c := newTestClient(t, r)
	ctx := context.Background()
	var v gjson.Result
	if err := c.Patch(ctx, "/agents/me", domain.UpdateProfileRequest{Description: "hi"}, &v); err != nil {
		t.Fatal(err)
	}
	if !Succeeded(v) {
		t.Fatalf("patch not successful: %s", v.Raw)
	}
	if err := c.Delete(ctx, "/posts/p1", &v); err != nil {
		t.Fatal(err)
	}
	if got := v.Get("id").String(); got != "p1" {
		t.Fatalf("got %q, want p1", got)
	}
}

func TestRateLimitedPost(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/posts", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate_limit_exceeded", "retry_after_minutes": 30})
	}).Methods(http.MethodPost)

	c := newTestClient(t, r)
	err := c.Post(context.Background(), "/posts", domain.Empty{}, nil)
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) || rl.RetryAfter != "30 minutes" {
		t.Fatalf("got %v, want rate limit of 30 minutes", err)
	}
}

func TestDomainErrorWithHint(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/agents/profile", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Agent not found", "hint": "Check the spelling of the name"})
	}).Methods(http.MethodGet)

	c := newTestClient(t, r)
	err := c.Get(context.Background(), "/agents/profile?name=ghost", nil)
	var ae *domain.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("got %T, want *domain.APIError", err)
	}
	if ae.Message != "Agent not found" || ae.Hint != "Check the spelling of the name" {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Options{BaseURL: base, APIKey: "k", Timeout: 2 * time.Second})
	err := c.Get(context.Background(), "/feed", nil)
	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %T (%v), want *domain.TransportError", err, err)
	}
	if te.Method != http.MethodGet || !strings.HasSuffix(te.URL, "/feed") {
		t.Fatalf("unexpected transport error: %+v", te)
	}
}

func TestPostFileMultipart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.png")
	if err := os.WriteFile(path, []byte("\x89PNG fake"), 0o600); err != nil {
		t.Fatal(err)
	}

	type seen struct {
		filename, contentType, data string
	}
	got := make(chan seen, 1)

	r := mux.NewRouter()
	r.HandleFunc("/agents/me/avatar", func(w http.ResponseWriter, req *http.Request) {
		f, hdr, err := req.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		defer func() { _ = f.Close() }()
		b, _ := io.ReadAll(f)
		got <- seen{hdr.Filename, hdr.Header.Get("Content-Type"), string(b)}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}).Methods(http.MethodPost)

	c := newTestClient(t, r)
	var v gjson.Result
	if err := c.PostFile(context.Background(), "/agents/me/avatar", path, &v); err != nil {
		t.Fatal(err)
	}
	s := <-got
	if s.filename != "avatar.png" || s.contentType != "image/png" || s.data != "\x89PNG fake" {
		t.Fatalf("unexpected upload: %+v", s)
	}
}

func TestPostFileMissingNeverHitsNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	c := newTestClient(t, r)
	err := c.PostFile(context.Background(), "/agents/me/avatar", filepath.Join(t.TempDir(), "missing.png"), nil)
	var fe *domain.FileError
	if !errors.As(err, &fe) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want missing file error", err)
	}
	if n := hits.Load(); n != 0 {
		t.Fatalf("server received %d requests, want 0", n)
	}
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"a.png":     "image/png",
		"b.JPG":     "image/jpeg",
		"c.unknown": "application/octet-stream",
		"noext":     "application/octet-stream",
	}
	for in, want := range cases {
		if got := contentTypeFor(in); got != want {
			t.Fatalf("contentTypeFor(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestDebugEchoDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/posts", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "post": map[string]string{"id": "p1"}})
	}).Methods(http.MethodPost)

	var buf bytes.Buffer
	c := newTestClient(t, r, func(o *Options) {
		o.Debug = true
		o.Logger = log.New("debug", &buf)
	})
	var v gjson.Result
	if err := c.Post(context.Background(), "/posts", domain.CreatePostRequest{SubmoltName: "general", Title: "Hi"}, &v); err != nil {
		t.Fatal(err)
	}
	if v.Get("post.id").String() != "p1" {
		t.Fatalf("unexpected body: %s", v.Raw)
	}
	out := buf.String()
	for _, want := range []string{"POST " + c.BaseURL() + "/posts", `"submolt_name": "general"`, "Response Status: 201 Created", "Response Body:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("debug output missing %q:\n%s", want, out)
		}
	}
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []Call
}

func (o *recordingObserver) ObserveCall(_ context.Context, c Call) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, c)
}

func TestObserverSeesEveryCall(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	r.HandleFunc("/slow", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]int{"retry_after_seconds": 5})
	})

	obs := &recordingObserver{}
	c := newTestClient(t, r, func(o *Options) { o.Observer = obs })
	ctx := context.Background()
	_ = c.Get(ctx, "/ok", nil)
	_ = c.Get(ctx, "/slow", nil)

	if len(obs.calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(obs.calls))
	}
	if obs.calls[0].Status != 200 || obs.calls[0].Err != nil {
		t.Fatalf("unexpected first call: %+v", obs.calls[0])
	}
	if domain.KindOf(obs.calls[1].Err) != domain.KindRateLimited || obs.calls[1].Path != "/slow" {
		t.Fatalf("unexpected second call: %+v", obs.calls[1])
	}
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/feed", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "posts": []any{}})
	})

	c := newTestClient(t, r)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var feed domain.FeedResponse
			errs <- c.Get(context.Background(), "/feed", &feed)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestOversizedResponse(t *testing.T) {
	t.Parallel()

	padded := func(size int) []byte {
		const head, tail = `{"success":true,"pad":"`, `"}`
		return []byte(head + strings.Repeat("a", size-len(head)-len(tail)) + tail)
	}
	r := mux.NewRouter()
	r.HandleFunc("/exact", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(padded(maxResponseBytes))
	})
	r.HandleFunc("/huge", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(padded(maxResponseBytes + 1))
	})
	r.HandleFunc("/huge-error", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(bytes.Repeat([]byte("x"), maxResponseBytes+10))
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	var v gjson.Result
	if err := c.Get(ctx, "/exact", &v); err != nil {
		t.Fatalf("body of exactly the limit: %v", err)
	}
	if !v.Get("success").Bool() {
		t.Fatalf("exact body decoded wrong")
	}

	err := c.Get(ctx, "/huge", &v)
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want ParseError", err)
	}
	if !strings.Contains(err.Error(), "exceeds") || len(pe.Body) != maxResponseBytes {
		t.Fatalf("got %v with %d body bytes", err, len(pe.Body))
	}

	err = c.Get(ctx, "/huge-error", &v)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("got %T, want the 502 API error", err)
	}
}
