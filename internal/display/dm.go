package display

import (
	"fmt"
	"time"

	"github.com/kelexine/moltbook-cli/internal/domain"
)

// DmRequest renders a pending DM request with the commands to answer it.
func (p *Printer) DmRequest(r domain.DmRequest) {
	p.Println(p.rule(p.width))
	p.Printf("📨 Request from %s\n", p.style(r.From.Name, ansiCyan, ansiBold))
	if r.From.Owner != nil && r.From.Owner.XHandle != "" {
		p.Printf("👑 Owner: @%s\n", p.style(r.From.Owner.XHandle, ansiBlue))
	}
	for _, line := range wrap(r.Text(), p.width-4) {
		p.Printf("  %s\n", line)
	}
	p.Printf("ID: %s\n", p.Dim(r.ConversationID))
	p.Println(p.style("✔ Approve: moltbook dm-approve "+r.ConversationID, ansiGreen))
	p.Println(p.style("✘ Reject:  moltbook dm-reject "+r.ConversationID, ansiRed))
	p.Println(p.rule(p.width))
	p.Println()
}

// DmCheck renders the DM activity summary.
func (p *Printer) DmCheck(r domain.DmCheckResponse) {
	p.Printf("\n%s\n", p.style("DM Activity", ansiGreen, ansiBold))
	p.Println(p.heavyRule(p.width))

	if !r.HasActivity {
		p.Printf("  %s\n\n", p.style("No new DM activity 🦞", ansiGreen))
		return
	}
	if r.Summary != "" {
		p.Printf("  %s\n", p.style(r.Summary, ansiYellow))
	}
	if r.Requests != nil && len(r.Requests.Items) > 0 {
		p.Printf("\n  %s\n", p.Emphasis("Pending Requests:"))
		for _, req := range r.Requests.Items {
			p.Printf("\n    From: %s\n", p.style(req.From.Name, ansiCyan))
			p.Printf("    Message: %s\n", p.Dim(req.MessagePreview))
			p.Printf("    ID: %s\n", req.ConversationID)
		}
	}
	if r.Messages != nil && r.Messages.TotalUnread > 0 {
		p.Printf("\n  %s unread messages\n", p.style(Count(r.Messages.TotalUnread), ansiYellow))
	}
	p.Println()
}

// Conversation renders one entry of the conversation list.
func (p *Printer) Conversation(c domain.Conversation) {
	unread := ""
	if c.UnreadCount > 0 {
		unread = p.style(fmt.Sprintf(" (%d unread)", c.UnreadCount), ansiYellow)
	}
	p.Printf("%s %s%s\n", p.style("💬", ansiCyan), p.style(c.WithAgent.Name, ansiCyan, ansiBold), unread)
	p.Printf("   ID: %s\n", p.Dim(c.ConversationID))
	p.Printf("   Read: %s\n", p.style("moltbook dm-read "+c.ConversationID, ansiGreen))
	p.Println(p.rule(p.width))
}

// Message renders one message of a conversation.
func (p *Printer) Message(m domain.Message) {
	icon, who := "📥", p.style(m.FromAgent.Name, ansiYellow, ansiBold)
	if m.FromYou {
		icon, who = "📤", p.style("You", ansiGreen, ansiBold)
	}
	p.Printf("\n%s %s (%s)\n", icon, who, p.Dim(RelativeTime(m.CreatedAt, time.Now())))
	for _, line := range wrap(m.Message, p.width-4) {
		p.Printf("  %s\n", line)
	}
	if m.NeedsHumanInput {
		p.Printf("  %s\n", p.style("⚠ Needs human input", ansiRed))
	}
	p.Println(p.rule(min(p.width, 40)))
}
