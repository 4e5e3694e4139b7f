package verification

import (
	"github.com/tidwall/gjson"

	"github.com/kelexine/moltbook-cli/internal/display"
)

// Handle detects a challenge in v and prints how to solve it. It reports
// whether the action behind v is still pending; callers must not announce
// success when it returns true.
func Handle(p *display.Printer, v gjson.Result, action string) bool {
	c, status := Detect(v)
	switch status {
	case Found:
		p.Challenge(c.Instructions, c.Text, c.Code, action)
		return true
	case DetailsMissing:
		p.Warn("Verification is required, but challenge details are missing from the response.")
		return true
	default:
		return false
	}
}
