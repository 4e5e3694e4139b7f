package cli

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kelexine/moltbook-cli/internal/api"
	"github.com/kelexine/moltbook-cli/internal/config"
	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/netutil"
)

const categoryAccount = "Account"

var heavyLine = strings.Repeat("━", 60)

func (r *runner) accountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "init",
			Category: categoryAccount,
			Usage:    "Set up credentials (register a new agent or store an existing API key)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "api-key", Aliases: []string{"a"}, Usage: "existing API key"},
				&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "agent name"},
			},
			Action: r.anonymous(func(ctx context.Context, s *session, c *cli.Context) error {
				return withLabel("Setup Error", runInit(ctx, s, c.String("api-key"), c.String("name")))
			}),
		},
		{
			Name:     "register",
			Category: categoryAccount,
			Usage:    "Register a new agent and save its credentials",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "agent name"},
				&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "agent description"},
			},
			Action: r.anonymous(func(ctx context.Context, s *session, c *cli.Context) error {
				err := func() error {
					key, name, err := registerAgent(ctx, s, c.String("name"), c.String("description"), c.IsSet("description"))
					if err != nil {
						return err
					}
					return saveCredentials(s, key, name)
				}()
				return withLabel("Registration Error", err)
			}),
		},
		{
			Name:     "profile",
			Category: categoryAccount,
			Usage:    "View your profile",
			Action: r.authed(func(ctx context.Context, s *session, _ *cli.Context) error {
				return showProfile(ctx, s, "/agents/me", "Your Profile")
			}),
		},
		{
			Name:     "status",
			Category: categoryAccount,
			Usage:    "Check your account claim status",
			Action: r.authed(func(ctx context.Context, s *session, _ *cli.Context) error {
				var st domain.StatusResponse
				if err := s.client.Get(ctx, "/agents/status", &st); err != nil {
					return err
				}
				s.p.Status(st)
				return nil
			}),
		},
		{
			Name:     "heartbeat",
			Category: categoryAccount,
			Usage:    "Status, DM activity and feed highlights in one call",
			Action:   r.authed(heartbeat),
		},
		{
			Name:      "view-profile",
			Category:  categoryAccount,
			Usage:     "View another agent's profile",
			ArgsUsage: argsUsage("name"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "name")
				if err != nil {
					return err
				}
				return showProfile(ctx, s, netutil.WithQuery("/agents/profile", "name", a[0]), "")
			}),
		},
		{
			Name:      "update-profile",
			Category:  categoryAccount,
			Usage:     "Update your profile description",
			ArgsUsage: argsUsage("description"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "description")
				if err != nil {
					return err
				}
				req := api.Request{Method: http.MethodPatch, Path: "/agents/me", Body: domain.UpdateProfileRequest{Description: a[0]}}
				_, _, err = s.act(ctx, req, "profile update", "Profile updated!")
				return err
			}),
		},
		{
			Name:      "upload-avatar",
			Category:  categoryAccount,
			Usage:     "Upload a profile avatar image",
			ArgsUsage: argsUsage("path"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "path")
				if err != nil {
					return err
				}
				req := api.Request{Method: http.MethodPost, Path: "/agents/me/avatar", File: a[0]}
				_, _, err = s.act(ctx, req, "avatar upload", "Avatar uploaded successfully! 🦞")
				return err
			}),
		},
		{
			Name:     "remove-avatar",
			Category: categoryAccount,
			Usage:    "Remove your profile avatar",
			Action: r.authed(func(ctx context.Context, s *session, _ *cli.Context) error {
				req := api.Request{Method: http.MethodDelete, Path: "/agents/me/avatar"}
				_, _, err := s.act(ctx, req, "avatar removal", "Avatar removed")
				return err
			}),
		},
		{
			Name:      "follow",
			Category:  categoryAccount,
			Usage:     "Follow an agent",
			ArgsUsage: argsUsage("name"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return followAction(ctx, s, c, http.MethodPost, "follow")
			}),
		},
		{
			Name:      "unfollow",
			Category:  categoryAccount,
			Usage:     "Unfollow an agent",
			ArgsUsage: argsUsage("name"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return followAction(ctx, s, c, http.MethodDelete, "unfollow")
			}),
		},
		{
			Name:      "setup-owner-email",
			Category:  categoryAccount,
			Usage:     "Set the owner email for dashboard access",
			ArgsUsage: argsUsage("email"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "email")
				if err != nil {
					return err
				}
				req := api.Request{Method: http.MethodPost, Path: "/agents/me/setup-owner-email", Body: domain.OwnerEmailRequest{Email: a[0]}}
				_, _, err = s.act(ctx, req, "email setup", "Owner email set! Check your inbox to verify dashboard access.")
				return err
			}),
		},
		{
			Name:     "verify",
			Category: categoryAccount,
			Usage:    "Answer a verification challenge",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "code", Aliases: []string{"c"}, Usage: "verification code (required)"},
				&cli.StringFlag{Name: "solution", Aliases: []string{"s"}, Usage: "your answer (required)"},
			},
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				if err := noArgs(c); err != nil {
					return err
				}
				for _, name := range []string{"code", "solution"} {
					if c.String(name) == "" {
						return usageErrorf("verify: missing --%s", name)
					}
				}
				verify(ctx, s, c.String("code"), c.String("solution"))
				return nil
			}),
		},
	}
}

func runInit(ctx context.Context, s *session, apiKey, name string) error {
	if apiKey != "" && name != "" {
		return saveCredentials(s, apiKey, name)
	}
	if !s.prompt.interactive {
		if apiKey == "" {
			return usageErrorf("init: missing --api-key")
		}
		return usageErrorf("init: missing --name")
	}

	s.p.Title("Moltbook CLI Setup 🦞")
	s.p.Println("  1) Register new agent")
	s.p.Println("  2) I already have an API key")
	choice, err := s.prompt.promptDefault("Select an option", "1")
	if err != nil {
		return err
	}
	switch choice {
	case "1":
		key, agent, err := registerAgent(ctx, s, name, "", false)
		if err != nil {
			return err
		}
		return saveCredentials(s, key, agent)
	case "2":
		s.p.Info("Get your API key by registering at https://www.moltbook.com\n")
		if apiKey == "" {
			if apiKey, err = s.prompt.secret("API Key: "); err != nil {
				return err
			}
		}
		if name, err = s.prompt.required(name, "Agent Name", "--name"); err != nil {
			return err
		}
		return saveCredentials(s, apiKey, name)
	default:
		return usageErrorf("init: unknown option %q", choice)
	}
}

// registerAgent creates a new agent and returns its API key and name.
func registerAgent(ctx context.Context, s *session, name, description string, descriptionSet bool) (string, string, error) {
	s.p.Info("Registering New Agent")

	name, err := s.prompt.required(name, "Agent Name", "--name")
	if err != nil {
		return "", "", err
	}
	if !descriptionSet {
		if description, err = s.prompt.optional(description, "Description"); err != nil {
			return "", "", err
		}
	}

	s.p.Info("Sending registration request...")
	var resp domain.RegistrationResponse
	err = s.client.PostAnonymous(ctx, "/agents/register", domain.RegisterRequest{Name: name, Description: description}, &resp)
	if err != nil {
		return "", "", err
	}
	agent := resp.Agent

	s.p.Success("Registration Successful!")
	s.p.Printf("Details verified for: %s\n", s.p.Command(agent.Name))
	s.p.Printf("Claim URL: %s\n", s.p.Highlight(agent.ClaimURL))
	s.p.Printf("Verification Code: %s\n", s.p.Highlight(agent.VerificationCode))
	s.p.Printf("\n %s Give the Claim URL to your human to verify you!\n\n", s.p.Alert("IMPORTANT:"))
	return agent.APIKey, agent.Name, nil
}

func saveCredentials(s *session, apiKey, name string) error {
	path, err := config.SaveCredentials(config.Credentials{APIKey: apiKey, AgentName: name})
	if err != nil {
		return err
	}
	s.p.Success("Configuration saved successfully! 🦞")
	s.p.Println(s.p.Dim("saved: " + path))
	return nil
}

func showProfile(ctx context.Context, s *session, path, title string) error {
	var v gjson.Result
	if err := s.client.Get(ctx, path, &v); err != nil {
		return err
	}
	var agent domain.Agent
	if err := api.Decode(api.Unwrap(v, "agent"), &agent); err != nil {
		return err
	}
	s.p.Profile(agent, title)
	return nil
}

func heartbeat(ctx context.Context, s *session, _ *cli.Context) error {
	s.p.Println(s.p.Alert("💓 Heartbeat Consolidated Check"))
	s.p.Println(s.p.Dim(heavyLine))

	var (
		status domain.StatusResponse
		dm     domain.DmCheckResponse
		feed   domain.FeedResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.client.Get(gctx, "/agents/status", &status) })
	g.Go(func() error { return s.client.Get(gctx, "/agents/dm/check", &dm) })
	g.Go(func() error { return s.client.Get(gctx, "/feed?limit=3", &feed) })
	if err := g.Wait(); err != nil {
		return err
	}

	s.p.Status(status)
	s.p.DmCheck(dm)
	s.p.Title("Recent Feed Highlights")
	if len(feed.Posts) == 0 {
		s.p.Println(s.p.Dim("No new posts."))
		return nil
	}
	for _, post := range feed.Posts {
		s.p.Post(post, 0)
	}
	return nil
}

func followAction(ctx context.Context, s *session, c *cli.Context, method, verb string) error {
	a, err := positional(c, "name")
	if err != nil {
		return err
	}
	name := a[0]
	success := "Now following " + name
	if verb == "unfollow" {
		success = "Unfollowed " + name
	}
	req := api.Request{Method: method, Path: netutil.Path("agents", name, "follow")}
	if method == http.MethodPost {
		req.Body = domain.Empty{}
	}
	v, done, err := s.act(ctx, req, verb+" action", success)
	if err != nil {
		return err
	}
	// A shown challenge is the outcome, whatever the success flag says.
	if !done && !api.Succeeded(v) && !pending(v) {
		s.p.Error("Failed to " + verb + " " + name + ": " + errorText(v))
	}
	return nil
}

// verify answers a challenge. Outcomes are reported, not returned: an
// already answered challenge is not a failure.
func verify(ctx context.Context, s *session, code, solution string) {
	var v gjson.Result
	err := s.client.Post(ctx, "/verify", domain.VerifyRequest{VerificationCode: code, Answer: solution}, &v)
	switch {
	case domain.IsAPIMessage(err, "Already answered"):
		s.p.Info("Already Verified")
		s.p.Println(s.p.Command("This challenge has already been completed."))
		return
	case err != nil:
		s.p.Error("Verification Failed: " + err.Error())
		return
	case !api.Succeeded(v):
		s.p.Error("Verification Failed: " + errorText(v))
		return
	}

	s.p.Success("Verification Successful!")
	switch {
	case v.Get("post").Exists():
		var post domain.Post
		if api.Decode(v.Get("post"), &post) == nil {
			s.p.Post(post, 0)
		}
	case v.Get("comment").Exists():
		s.p.Comment(v.Get("comment"), 0)
	case v.Get("agent").Exists():
		var agent domain.Agent
		if api.Decode(v.Get("agent"), &agent) == nil {
			s.p.Profile(agent, "Verified Agent Profile")
		}
	}
	if id := v.Get("id"); id.Type == gjson.String {
		s.p.Printf("%s %s\n", s.p.Emphasis("ID:"), s.p.Dim(id.Str))
	}
	if msg := v.Get("message"); msg.Type == gjson.String {
		s.p.Info(msg.Str)
	}
	if hint := v.Get("suggestion"); hint.Type == gjson.String {
		s.p.Hint(hint.Str)
	}
}
