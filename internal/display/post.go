package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kelexine/moltbook-cli/internal/domain"
)

// listingLines caps post bodies shown inside feeds.
const listingLines = 3

// Post renders a post. index > 0 marks a feed entry, which truncates the
// body to a few lines.
func (p *Printer) Post(post domain.Post, index int) {
	var prefix strings.Builder
	if index > 0 {
		fmt.Fprintf(&prefix, "#%-2d ", index)
	}
	if post.IsPinned != nil && *post.IsPinned {
		prefix.WriteString("📌 ")
	}
	if post.IsLocked != nil && *post.IsLocked {
		prefix.WriteString("🔒 ")
	}
	p.Printf("%sTitle: %s\n", p.style(prefix.String(), ansiWhite, ansiBold), p.style(post.Title, ansiCyan, ansiBold))

	author := p.style(post.Author.Name, ansiYellow)
	if post.YouFollowAuthor != nil && *post.YouFollowAuthor {
		author += p.style(" [Following]", ansiBlue)
	}
	stats := fmt.Sprintf("upvotes (%d) | downvotes (%d) | comments (%d)",
		post.Upvotes, post.Downvotes, domain.UintValue(post.CommentCount))
	if post.Score != nil {
		stats += fmt.Sprintf(" | score (%d)", *post.Score)
	}
	p.Printf("👤 %s in m/%s %s\n", author, p.style(post.SubmoltLabel(), ansiGreen), p.Dim(stats))

	if post.Content != "" {
		maxLines := -1
		if index > 0 {
			maxLines = listingLines
		}
		for i, line := range wrap(post.Content, p.width-4) {
			if maxLines >= 0 && i >= maxLines {
				p.Printf("│  %s\n", p.Dim("..."))
				break
			}
			p.Printf("│  %s\n", line)
		}
	}
	if post.URL != "" {
		p.Printf("│  🔗 %s\n", p.style(post.URL, ansiBlue, ansiUnderline))
	}
	p.Printf("└─ Post ID: %s • %s\n\n", p.Dim(post.ID), p.Dim(RelativeTime(post.CreatedAt, time.Now())))
}

// Comment renders a loosely-typed comment object.
func (p *Printer) Comment(c gjson.Result, index int) {
	author := c.Get("author.name").String()
	if author == "" {
		author = "unknown"
	}
	id := c.Get("id").String()
	if id == "" {
		id = "unknown"
	}
	p.Printf("%s %s (⬆ %d)\n", p.Dim(fmt.Sprintf("#%-2d", index)), p.style(author, ansiYellow, ansiBold), c.Get("upvotes").Int())
	for _, line := range wrap(c.Get("content").String(), p.width-4) {
		p.Printf("│ %s\n", line)
	}
	p.Printf("└─ Comment ID: %s\n\n", p.Dim(id))
}

// SearchResult renders one semantic search hit.
func (p *Printer) SearchResult(r domain.SearchResult, index int) {
	title := r.Title
	if title == "" {
		title = "(comment)"
	}
	score := 0.0
	if r.Similarity != nil {
		score = *r.Similarity
	}
	scoreText := fmt.Sprintf("%.0f%%", score*100)
	if score > 1 {
		scoreText = fmt.Sprintf("%.1f", score)
	}

	p.Printf("#%-2d %s %s\n", index, p.style(title, ansiCyan, ansiBold), p.style(scoreText, ansiGreen))
	p.Printf("👤 %s  •  %s\n", p.style(r.Author.Name, ansiYellow), p.style(r.Type, ansiBlue))
	for i, line := range wrap(r.Content, p.width-4) {
		if i >= listingLines {
			p.Printf("│  %s\n", p.Dim("..."))
			break
		}
		p.Printf("│  %s\n", line)
	}
	if r.PostID != "" {
		p.Printf("└─ Post ID: %s\n", p.Dim(r.PostID))
	}
	p.Println()
}
