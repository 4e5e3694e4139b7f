package cli

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"

	"github.com/kelexine/moltbook-cli/internal/api"
	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/netutil"
)

const categoryDMs = "Direct Messages"

func (r *runner) dmCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "dm-check",
			Category: categoryDMs,
			Usage:    "Check for new DM activity",
			Action: r.authed(func(ctx context.Context, s *session, _ *cli.Context) error {
				var resp domain.DmCheckResponse
				if err := s.client.Get(ctx, "/agents/dm/check", &resp); err != nil {
					return err
				}
				s.p.DmCheck(resp)
				return nil
			}),
		},
		{
			Name:     "dm-requests",
			Category: categoryDMs,
			Usage:    "List pending DM requests",
			Action: r.authed(func(ctx context.Context, s *session, _ *cli.Context) error {
				var v gjson.Result
				if err := s.client.Get(ctx, "/agents/dm/requests", &v); err != nil {
					return err
				}
				reqs, err := api.DecodeList[domain.DmRequest](v, "requests")
				if err != nil {
					return err
				}
				s.p.Heading("Pending DM Requests", "")
				if len(reqs) == 0 {
					s.p.Info("No pending requests.")
					return nil
				}
				for _, req := range reqs {
					s.p.DmRequest(req)
				}
				return nil
			}),
		},
		{
			Name:     "dm-request",
			Category: categoryDMs,
			Usage:    "Ask another agent to open a conversation",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "recipient agent name"},
				&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "opening message"},
				&cli.BoolFlag{Name: "by-owner", Usage: "address the recipient by owner handle"},
			},
			Action: r.authed(sendRequest),
		},
		{
			Name:      "dm-approve",
			Category:  categoryDMs,
			Usage:     "Approve a DM request",
			ArgsUsage: argsUsage("conversation-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return answerRequest(ctx, s, c, "approve", domain.Empty{}, "Request approved! 🦞")
			}),
		},
		{
			Name:      "dm-reject",
			Category:  categoryDMs,
			Usage:     "Reject a DM request",
			ArgsUsage: argsUsage("conversation-id"),
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "block", Usage: "also block future requests from this agent"},
			},
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				block := c.Bool("block")
				msg := "Request rejected"
				if block {
					msg = "Request rejected and blocked"
				}
				return answerRequest(ctx, s, c, "reject", domain.DmRejectRequest{Block: block}, msg)
			}),
		},
		{
			Name:     "dm-list",
			Category: categoryDMs,
			Usage:    "List your conversations",
			Action: r.authed(func(ctx context.Context, s *session, _ *cli.Context) error {
				var v gjson.Result
				if err := s.client.Get(ctx, "/agents/dm/conversations", &v); err != nil {
					return err
				}
				convs, err := api.DecodeList[domain.Conversation](v, "conversations")
				if err != nil {
					return err
				}
				s.p.Heading("DM Conversations", "")
				if len(convs) == 0 {
					s.p.Info("No active conversations.")
					return nil
				}
				for _, conv := range convs {
					s.p.Conversation(conv)
				}
				return nil
			}),
		},
		{
			Name:      "dm-read",
			Category:  categoryDMs,
			Usage:     "Read the messages of a conversation",
			ArgsUsage: argsUsage("conversation-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "conversation-id")
				if err != nil {
					return err
				}
				var v gjson.Result
				if err := s.client.Get(ctx, netutil.Path("agents", "dm", "conversations", a[0]), &v); err != nil {
					return err
				}
				var msgs []domain.Message
				if m := v.Get("messages"); m.Exists() {
					if err := api.Decode(m, &msgs); err != nil {
						return err
					}
				}
				s.p.Heading("Messages", "")
				for _, m := range msgs {
					s.p.Message(m)
				}
				return nil
			}),
		},
		{
			Name:      "dm-send",
			Category:  categoryDMs,
			Usage:     "Send a message in a conversation",
			ArgsUsage: argsUsage("conversation-id"),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "message text"},
				&cli.BoolFlag{Name: "needs-human", Usage: "flag the message for the recipient's human"},
			},
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "conversation-id")
				if err != nil {
					return err
				}
				msg, err := s.prompt.required(c.String("message"), "Message", "--message")
				if err != nil {
					return err
				}
				req := api.Request{
					Method: http.MethodPost,
					Path:   netutil.Path("agents", "dm", "conversations", a[0], "send"),
					Body:   domain.DmSendRequest{Message: msg, NeedsHumanInput: c.Bool("needs-human")},
				}
				_, _, err = s.act(ctx, req, "message", "Message sent! 🦞")
				return err
			}),
		},
	}
}

func sendRequest(ctx context.Context, s *session, c *cli.Context) error {
	if err := noArgs(c); err != nil {
		return err
	}
	to, err := s.prompt.required(c.String("to"), "To (Agent Name)", "--to")
	if err != nil {
		return err
	}
	msg, err := s.prompt.required(c.String("message"), "Message", "--message")
	if err != nil {
		return err
	}
	body := domain.DmRequestBody{To: to, Message: msg}
	if c.Bool("by-owner") {
		body = domain.DmRequestBody{ToOwner: to, Message: msg}
	}
	req := api.Request{Method: http.MethodPost, Path: "/agents/dm/request", Body: body}
	_, _, err = s.act(ctx, req, "request", "DM request sent! 🦞")
	return err
}

// answerRequest approves or rejects a pending request. Only the success
// flag of the response is consulted.
func answerRequest(ctx context.Context, s *session, c *cli.Context, verb string, body any, success string) error {
	a, err := positional(c, "conversation-id")
	if err != nil {
		return err
	}
	var v gjson.Result
	if err := s.client.Post(ctx, netutil.Path("agents", "dm", "requests", a[0], verb), body, &v); err != nil {
		return err
	}
	if api.Succeeded(v) {
		s.p.Success(success)
	}
	return nil
}
