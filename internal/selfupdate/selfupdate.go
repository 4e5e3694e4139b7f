// Package selfupdate looks up newer releases of the CLI on GitHub.
package selfupdate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/netutil"
)

const (
	// Repo is the GitHub owner/name the CLI is released from.
	Repo = "kelexine/moltbook-cli"
	// DefaultURL lists the most recent releases, newest first.
	DefaultURL = "https://api.github.com/repos/" + Repo + "/releases?per_page=20"

	maxListingBytes = 2 << 20 // 2 MiB
)

// Release is a published GitHub release whose tag is a semantic version.
type Release struct {
	Tag         string
	Name        string
	URL         string
	Prerelease  bool
	PublishedAt time.Time

	version version
}

// NewerThan reports whether r is a later version than current. It fails
// when current is not a version at all, as with untagged builds.
func (r *Release) NewerThan(current string) (bool, error) {
	cur, ok := parseVersion(current)
	if !ok {
		return false, fmt.Errorf("%q is not a release version", current)
	}
	return r.version.after(cur), nil
}

// Checker finds the newest release. Drafts are never considered;
// pre-releases only when Prerelease is set.
type Checker struct {
	URL        string
	HTTP       *http.Client
	Prerelease bool
	Log        zerolog.Logger
}

// NewChecker returns a Checker for the public release listing.
func NewChecker(logger zerolog.Logger) *Checker {
	return &Checker{
		URL:  DefaultURL,
		HTTP: &http.Client{Timeout: 20 * time.Second},
		Log:  logger,
	}
}

// Latest returns the highest eligible release, or nil when there is none.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	listing := gjson.ParseBytes(body)
	if listing.IsObject() {
		// A single release, as served by /releases/latest.
		listing = gjson.Parse("[" + listing.Raw + "]")
	}
	if !listing.IsArray() {
		return nil, &domain.ParseError{Body: string(body), Err: fmt.Errorf("release listing is not a JSON array")}
	}

	var best *Release
	for _, item := range listing.Array() {
		rel, ok := c.eligible(item)
		if ok && (best == nil || rel.version.after(best.version)) {
			best = rel
		}
	}
	if best != nil {
		c.Log.Debug().Str("tag", best.Tag).Bool("prerelease", best.Prerelease).Msg("latest release")
	}
	return best, nil
}

func (c *Checker) eligible(item gjson.Result) (*Release, bool) {
	tag := item.Get("tag_name").String()
	switch {
	case item.Get("draft").Bool():
		c.Log.Debug().Str("tag", tag).Msg("skipping draft")
		return nil, false
	case item.Get("prerelease").Bool() && !c.Prerelease:
		c.Log.Debug().Str("tag", tag).Msg("skipping pre-release")
		return nil, false
	}
	v, ok := parseVersion(tag)
	if !ok {
		c.Log.Debug().Str("tag", tag).Msg("skipping tag that is not a version")
		return nil, false
	}
	rel := &Release{
		Tag:        tag,
		Name:       item.Get("name").String(),
		URL:        item.Get("html_url").String(),
		Prerelease: item.Get("prerelease").Bool(),
		version:    v,
	}
	if !strings.HasPrefix(rel.Tag, "v") {
		rel.Tag = "v" + rel.Tag
	}
	if ts, err := time.Parse(time.RFC3339, item.Get("published_at").String()); err == nil {
		rel.PublishedAt = ts
	}
	return rel, true
}

func (c *Checker) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "moltbook-cli")

	c.Log.Debug().Str("url", c.URL).Msg("checking for updates")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Debug().Str("error", netutil.ShortError(err)).Msg("release lookup failed")
		return nil, &domain.TransportError{Method: req.Method, URL: c.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBytes+1))
	if err != nil {
		return nil, &domain.TransportError{Method: req.Method, URL: c.URL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(body, "message").String(); msg != "" {
			return nil, fmt.Errorf("GitHub API returned %s: %s", resp.Status, msg)
		}
		return nil, fmt.Errorf("GitHub API returned %s", resp.Status)
	}
	if len(body) > maxListingBytes {
		return nil, fmt.Errorf("release listing exceeds %d bytes", maxListingBytes)
	}
	return body, nil
}
