package display

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// HistoryRow is one journaled API call.
type HistoryRow struct {
	At     time.Time
	Method string
	Path   string
	Status int
	Kind   string
	Detail string
	Code   string
}

// History renders journaled calls, newest first.
func (p *Printer) History(rows []HistoryRow) {
	p.Heading("Request History", fmt.Sprintf("%d entries", len(rows)))
	if len(rows) == 0 {
		p.Info("No requests recorded yet.")
		return
	}
	for _, r := range rows {
		status := "---"
		if r.Status > 0 {
			status = fmt.Sprintf("%d", r.Status)
		}
		p.Printf("%s %-6s %s %s %s\n",
			p.Dim(fmt.Sprintf("%-14s", humanize.Time(r.At))),
			r.Method,
			p.kindStyle(r.Kind, status),
			r.Path,
			p.Dim(Label(r.Kind)),
		)
		if r.Detail != "" {
			p.Printf("    %s\n", p.Dim(r.Detail))
		}
		if r.Code != "" {
			p.Printf("    %s %s\n", p.style("🔒 challenge", ansiYellow), r.Code)
		}
	}
}

func (p *Printer) kindStyle(kind, s string) string {
	switch kind {
	case "success":
		return p.style(s, ansiGreen)
	case "rate_limited", "captcha_required":
		return p.style(s, ansiYellow)
	default:
		return p.style(s, ansiRed)
	}
}
