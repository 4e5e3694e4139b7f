package display

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/pretty"

	"github.com/kelexine/moltbook-cli/internal/domain"
)

const fieldWidth = 15

func (p *Printer) field(label, value string) {
	p.Printf("  %-*s %s\n", fieldWidth, label, value)
}

// Profile renders an agent profile under title (default "Profile").
func (p *Printer) Profile(a domain.Agent, title string) {
	if title == "" {
		title = "Profile"
	}
	now := time.Now()
	p.Printf("\n%s %s\n", p.style("👤", ansiCyan), p.style(title, ansiGreen, ansiBold))
	p.Println(p.heavyRule(p.width))

	p.field("Name:", p.style(a.Name, ansiWhite, ansiBold))
	p.field("ID:", p.Dim(a.ID))

	if a.Description != "" {
		p.Println(p.rule(p.width))
		for _, line := range wrap(a.Description, p.width-4) {
			p.Printf("  %s\n", p.style(line, ansiItalic))
		}
	}
	p.Println(p.rule(p.width))

	p.field("✨ Karma:", p.style(Count(domain.IntValue(a.Karma)), ansiYellow, ansiBold))
	if s := a.Stats; s != nil {
		p.field("📝 Posts:", p.style(Count(domain.UintValue(s.Posts)), ansiCyan))
		p.field("💬 Comments:", p.style(Count(domain.UintValue(s.Comments)), ansiCyan))
		p.field("🍿 Submolts:", "m/ "+p.style(Count(domain.UintValue(s.Subscriptions)), ansiCyan))
	}
	if a.FollowerCount != nil && a.FollowingCount != nil {
		p.field("👥 Followers:", p.style(Count(*a.FollowerCount), ansiBlue))
		p.field("👀 Following:", p.style(Count(*a.FollowingCount), ansiBlue))
	}
	p.Println(p.rule(p.width))

	if a.IsClaimed != nil {
		status := p.style("✗ Unclaimed", ansiRed)
		if *a.IsClaimed {
			status = p.style("✓ Claimed", ansiGreen)
		}
		p.field("🛡️  Status:", status)
		if a.ClaimedAt != "" {
			p.field("📅 Claimed:", p.Dim(RelativeTime(a.ClaimedAt, now)))
		}
	}
	if a.CreatedAt != "" {
		p.field("🌱 Joined:", p.Dim(RelativeTime(a.CreatedAt, now)))
	}
	if a.LastActive != "" {
		p.field("⏰ Active:", p.Dim(RelativeTime(a.LastActive, now)))
	}

	if o := a.Owner; o != nil {
		p.Printf("\n  %s\n", p.style("👑 Owner", ansiYellow, ansiUnderline))
		if o.XName != "" {
			p.field("Name:", o.XName)
		}
		if o.XHandle != "" {
			verified := ""
			if o.XVerified != nil && *o.XVerified {
				verified = p.style(" (Verified)", ansiBlue)
			}
			p.field("X (Twitter):", "@"+p.style(o.XHandle, ansiCyan)+verified)
		}
		if o.XFollowerCount != nil && o.XFollowingCount != nil {
			p.field("X Stats:", fmt.Sprintf("%s followers | %s following",
				p.Dim(Count(*o.XFollowerCount)), p.Dim(Count(*o.XFollowingCount))))
		}
		if a.OwnerID != "" {
			p.field("Owner ID:", p.Dim(a.OwnerID))
		}
	}

	if meta := prettyObject(a.Metadata); meta != "" {
		p.Printf("\n  %s\n", p.style("📂 Metadata", ansiBlue, ansiUnderline))
		p.Printf("  %s\n", p.Dim(meta))
	}
	p.Println()
}

// prettyObject indents a non-empty JSON object; anything else yields "".
func prettyObject(raw json.RawMessage) string {
	var obj map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &obj) != nil || len(obj) == 0 {
		return ""
	}
	out := pretty.PrettyOptions(raw, &pretty.Options{Width: 80, Prefix: "  ", Indent: "  "})
	return strings.TrimSpace(string(out))
}

// Status renders the account status response.
func (p *Printer) Status(s domain.StatusResponse) {
	p.Printf("\n%s %s\n", p.style("🛡️", ansiCyan), p.style("Account Status", ansiGreen, ansiBold))
	p.Println(p.heavyRule(p.width))

	if a := s.Agent; a != nil {
		p.field("Agent Name:", p.style(a.Name, ansiWhite, ansiBold))
		p.field("Agent ID:", p.Dim(a.ID))
		if a.ClaimedAt != "" {
			p.field("Claimed At:", p.Dim(RelativeTime(a.ClaimedAt, time.Now())))
		}
		p.Println(p.rule(p.width))
	}
	if s.Status != "" {
		var label string
		switch s.Status {
		case "claimed":
			label = p.style("✓ Claimed", ansiGreen)
		case "pending_claim":
			label = p.style("⏳ Pending Claim", ansiYellow)
		default:
			label = Label(s.Status)
		}
		p.field("Status:", label)
	}
	if s.Message != "" {
		p.Printf("\n  %s\n", s.Message)
	}
	if s.NextStep != "" {
		p.Printf("  %s\n", p.Dim(s.NextStep))
	}
	p.Println()
}
