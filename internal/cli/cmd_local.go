package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/kelexine/moltbook-cli/internal/display"
	"github.com/kelexine/moltbook-cli/internal/selfupdate"
	"github.com/kelexine/moltbook-cli/internal/store/sqlite"
)

const categoryLocal = "Local"

func (r *runner) localCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "history",
			Category: categoryLocal,
			Usage:    "Show recently journaled API calls",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "number of entries"},
			},
			Action: r.showHistory,
			Subcommands: []*cli.Command{
				{
					Name:  "prune",
					Usage: "Delete journaled calls older than a duration",
					Flags: []cli.Flag{
						&cli.DurationFlag{Name: "older-than", Value: 30 * 24 * time.Hour, Usage: "age cutoff"},
					},
					Action: r.pruneHistory,
				},
			},
		},
		{
			Name:     "version",
			Category: categoryLocal,
			Usage:    "Print version",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "check", Usage: "check GitHub for a newer release"},
				&cli.BoolFlag{Name: "pre", Usage: "with --check, consider pre-releases too"},
			},
			Action: r.printVersion,
		},
	}
}

// openHistory returns nil when the journal is disabled.
func (r *runner) openHistory(c *cli.Context) (*sqlite.Store, error) {
	st, err := r.settings(c)
	if err != nil {
		return nil, err
	}
	if !st.History {
		r.p.Info("History is disabled.")
		return nil, nil
	}
	return sqlite.Open(st.HistoryPath)
}

func (r *runner) showHistory(c *cli.Context) error {
	if err := noArgs(c); err != nil {
		return err
	}
	store, err := r.openHistory(c)
	if err != nil || store == nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	rows := make([]display.HistoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, display.HistoryRow{
			At:     e.CreatedAt,
			Method: e.Method,
			Path:   e.Path,
			Status: e.Status,
			Kind:   e.Kind,
			Detail: e.Detail,
			Code:   e.ChallengeCode,
		})
	}
	r.p.History(rows)
	return nil
}

func (r *runner) pruneHistory(c *cli.Context) error {
	if err := noArgs(c); err != nil {
		return err
	}
	age := c.Duration("older-than")
	if age <= 0 {
		return usageErrorf("history prune: --older-than must be positive")
	}
	store, err := r.openHistory(c)
	if err != nil || store == nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := store.Prune(c.Context, time.Now().Add(-age))
	if err != nil {
		return err
	}
	r.p.Success(fmt.Sprintf("Pruned %d entries", n))
	return nil
}

func (r *runner) printVersion(c *cli.Context) error {
	r.p.Printf("moltbook %s\n", Version)
	if !c.Bool("check") {
		return nil
	}
	checker := selfupdate.NewChecker(r.logger(c))
	checker.URL = releasesURL
	checker.Prerelease = c.Bool("pre")
	return r.checkForUpdate(c.Context, checker)
}

// releasesURL is where version --check looks for releases.
var releasesURL = selfupdate.DefaultURL

func (r *runner) checkForUpdate(ctx context.Context, checker *selfupdate.Checker) error {
	rel, err := checker.Latest(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if rel == nil {
		r.p.Info("No releases published yet.")
		return nil
	}
	newer, err := rel.NewerThan(Version)
	switch {
	case err != nil:
		r.p.Info(fmt.Sprintf("Latest release is %s; this build (%s) is not a release.", rel.Tag, Version))
	case !newer:
		r.p.Info("Already up to date.")
		return nil
	default:
		label := rel.Tag
		if rel.Prerelease {
			label += " (pre-release)"
		}
		r.p.Warn("New version available: " + label)
	}
	if !rel.PublishedAt.IsZero() {
		r.p.Printf("Published %s\n", humanize.Time(rel.PublishedAt))
	}
	if rel.URL != "" {
		r.p.Println(r.p.Highlight(rel.URL))
	}
	return nil
}
