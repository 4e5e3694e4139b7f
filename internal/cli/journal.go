package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kelexine/moltbook-cli/internal/api"
	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/netutil"
	"github.com/kelexine/moltbook-cli/internal/store/sqlite"
)

const journalSnippetRunes = 200

// journal records every API call in the local request history. Failures
// are logged and never affect the call.
type journal struct {
	store *sqlite.Store
	agent string
	log   zerolog.Logger

	mu     sync.Mutex
	lastID string
}

func (j *journal) ObserveCall(ctx context.Context, call api.Call) {
	detail := netutil.ShortError(call.Err)
	var parse *domain.ParseError
	if errors.As(call.Err, &parse) {
		detail += " | response: " + parse.Snippet(journalSnippetRunes)
	}
	id, err := j.store.Record(context.WithoutCancel(ctx), sqlite.Entry{
		Agent:  j.agent,
		Method: call.Method,
		Path:   call.Path,
		Status: call.Status,
		Kind:   string(domain.KindOf(call.Err)),
		Detail: detail,
	})
	if err != nil {
		j.log.Warn().Err(err).Str("path", call.Path).Msg("record request history")
		return
	}
	j.mu.Lock()
	j.lastID = id
	j.mu.Unlock()
}

// attachChallenge tags the most recent entry with a challenge code.
func (j *journal) attachChallenge(ctx context.Context, code string) {
	j.mu.Lock()
	id := j.lastID
	j.mu.Unlock()
	if id == "" || code == "" {
		return
	}
	if err := j.store.AttachChallenge(context.WithoutCancel(ctx), id, code); err != nil {
		j.log.Warn().Err(err).Msg("record challenge code")
	}
}
