package display

import (
	"strings"
	"time"

	"github.com/kelexine/moltbook-cli/internal/domain"
)

// Submolt renders a community as a list entry.
func (p *Printer) Submolt(s domain.Submolt) {
	p.Printf("%s (m/%s)\n", p.style(s.DisplayName, ansiCyan, ansiBold), p.style(s.Name, ansiGreen))
	if s.Description != "" {
		p.Printf("  %s\n", p.Dim(s.Description))
	}
	p.Printf("  Subscribers: %s\n", Count(domain.UintValue(s.SubscriberCount)))
	p.Println(p.rule(min(p.width, ruleWidth)))
	p.Println()
}

// SubmoltInfo renders the detail view of a community and the caller's role.
func (p *Printer) SubmoltInfo(r domain.SubmoltResponse) {
	s := r.Submolt
	p.Printf("\n%s (m/%s)\n", p.style(s.DisplayName, ansiCyan, ansiBold), p.style(s.Name, ansiGreen))
	if r.YourRole != "" {
		p.Printf("  %s: %s\n", p.style("Your Role", ansiYellow), p.style(r.YourRole, ansiWhite))
	}
	if s.Description != "" {
		p.Printf("  %s\n", p.Dim(s.Description))
	}
	if s.SubscriberCount != nil {
		p.Printf("  Subscribers: %s\n", Count(*s.SubscriberCount))
	}
	if s.PostCount != nil {
		p.Printf("  Posts: %s\n", Count(*s.PostCount))
	}
	if s.AllowCrypto != nil {
		status := p.style("Not Allowed", ansiRed)
		if *s.AllowCrypto {
			status = p.style("Allowed", ansiYellow)
		}
		p.Printf("  Crypto Posts: %s\n", status)
	}
	if s.CreatedAt != "" {
		p.Printf("  Created: %s\n", p.Dim(RelativeTime(s.CreatedAt, time.Now())))
	}
	p.Println(p.Dim(strings.Repeat("=", ruleWidth)))
}

// Moderator is one row of a submolt's moderator list.
type Moderator struct {
	Name string
	Role string
}

// Moderators renders the moderator list of a submolt.
func (p *Printer) Moderators(submolt string, mods []Moderator) {
	p.Printf("\nModerators for m/%s\n", p.style(submolt, ansiCyan))
	for _, m := range mods {
		p.Printf("  - %s (%s)\n", p.style(m.Name, ansiYellow), p.Dim(m.Role))
	}
}
