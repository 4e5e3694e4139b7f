package cli

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"

	"github.com/kelexine/moltbook-cli/internal/api"
	"github.com/kelexine/moltbook-cli/internal/config"
	"github.com/kelexine/moltbook-cli/internal/display"
	"github.com/kelexine/moltbook-cli/internal/domain"
	ilog "github.com/kelexine/moltbook-cli/internal/log"
	"github.com/kelexine/moltbook-cli/internal/store/sqlite"
	"github.com/kelexine/moltbook-cli/internal/verification"
)

// session is everything a command needs to talk to the API.
type session struct {
	p       *display.Printer
	client  *api.Client
	journal *journal
	creds   config.Credentials
	log     zerolog.Logger
	prompt  *prompter
}

type sessionFunc func(ctx context.Context, s *session, c *cli.Context) error

// authed wraps fn with a session that carries stored credentials.
func (r *runner) authed(fn sessionFunc) cli.ActionFunc {
	return r.withSession(true, fn)
}

// anonymous wraps fn with a session that needs no credentials.
func (r *runner) anonymous(fn sessionFunc) cli.ActionFunc {
	return r.withSession(false, fn)
}

func (r *runner) withSession(needCreds bool, fn sessionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := r.open(c, needCreds)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(c.Context, s, c)
	}
}

// settings resolves configuration and applies its color preference.
func (r *runner) settings(c *cli.Context) (config.Settings, error) {
	st, err := config.Resolve(config.Flags{
		BaseURL: c.String("base-url"),
		HTTP3:   c.Bool("http3"),
	})
	if err != nil {
		return st, err
	}
	r.p.SetColor(display.ShouldColor(r.out, st.Color))
	return st, nil
}

func (r *runner) logger(c *cli.Context) zerolog.Logger {
	level := "warn"
	if c.Bool("debug") {
		level = "debug"
	}
	return ilog.New(level, r.errOut)
}

func (r *runner) open(c *cli.Context, needCreds bool) (*session, error) {
	st, err := r.settings(c)
	if err != nil {
		return nil, err
	}
	logger := r.logger(c)

	var creds config.Credentials
	if needCreds {
		creds, err = config.LoadCredentials()
		switch {
		case st.APIKey != "":
			if err != nil && !errors.Is(err, domain.ErrNotConfigured) {
				return nil, err
			}
			creds.APIKey = st.APIKey
		case err != nil:
			return nil, err
		}
	}

	s := &session{
		p:      r.p,
		creds:  creds,
		log:    logger,
		prompt: newPrompter(r.in, r.out, r.interactive),
	}
	opts := api.Options{
		BaseURL:   st.BaseURL,
		APIKey:    creds.APIKey,
		UserAgent: "moltbook-cli/" + Version,
		Timeout:   st.Timeout,
		HTTP3:     st.HTTP3,
		Debug:     c.Bool("debug"),
		Logger:    logger,
	}
	if st.History {
		store, err := sqlite.Open(st.HistoryPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", st.HistoryPath).Msg("request history disabled")
		} else {
			s.journal = &journal{store: store, agent: sqlite.Fingerprint(creds.APIKey), log: logger}
			opts.Observer = s.journal
		}
	}
	s.client = api.New(opts)
	return s, nil
}

func (s *session) close() {
	if err := s.client.Close(); err != nil {
		s.log.Debug().Err(err).Msg("close transport")
	}
	if s.journal != nil {
		if err := s.journal.store.Close(); err != nil {
			s.log.Warn().Err(err).Msg("close request history")
		}
	}
}

// act performs a state-changing call. It renders any verification
// challenge and announces success only when the server confirmed the
// action and nothing is pending. done reports that case.
func (s *session) act(ctx context.Context, req api.Request, action, success string) (v gjson.Result, done bool, err error) {
	if err := s.client.Do(ctx, req, &v); err != nil {
		return v, false, err
	}
	if s.challenged(ctx, v, action) || !api.Succeeded(v) {
		return v, false, nil
	}
	s.p.Success(success)
	return v, true, nil
}

// challenged renders a pending challenge and notes its code in the
// request history.
func (s *session) challenged(ctx context.Context, v gjson.Result, action string) bool {
	if !verification.Handle(s.p, v, action) {
		return false
	}
	if ch, status := verification.Detect(v); status == verification.Found && s.journal != nil {
		s.journal.attachChallenge(ctx, ch.Code)
	}
	return true
}

// pending reports whether v carries a verification requirement.
func pending(v gjson.Result) bool {
	_, status := verification.Detect(v)
	return status.Pending()
}

// errorText returns the "error" field of a failed response.
func errorText(v gjson.Result) string {
	if msg := v.Get("error").String(); msg != "" {
		return msg
	}
	return "Unknown error"
}
