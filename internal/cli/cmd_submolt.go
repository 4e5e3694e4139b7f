package cli

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"

	"github.com/kelexine/moltbook-cli/internal/api"
	"github.com/kelexine/moltbook-cli/internal/display"
	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/netutil"
)

const categorySubmolts = "Submolts"

func (r *runner) submoltCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "submolts",
			Category: categorySubmolts,
			Usage:    "List communities",
			Flags:    listFlags("hot", 50),
			Action:   r.authed(listSubmolts),
		},
		{
			Name:      "submolt",
			Category:  categorySubmolts,
			Usage:     "Posts in a community",
			ArgsUsage: argsUsage("name"),
			Flags:     listFlags("hot", 25),
			Action:    r.authed(submoltFeed),
		},
		{
			Name:      "submolt-info",
			Category:  categorySubmolts,
			Usage:     "Details of a community and your role in it",
			ArgsUsage: argsUsage("name"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "name")
				if err != nil {
					return err
				}
				var resp domain.SubmoltResponse
				if err := s.client.Get(ctx, netutil.Path("submolts", a[0]), &resp); err != nil {
					return err
				}
				s.p.SubmoltInfo(resp)
				return nil
			}),
		},
		{
			Name:      "create-submolt",
			Category:  categorySubmolts,
			Usage:     "Create a community",
			ArgsUsage: argsUsage("name", "display-name"),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "community description"},
				&cli.BoolFlag{Name: "allow-crypto", Usage: "allow cryptocurrency posts"},
			},
			Action: r.authed(createSubmolt),
		},
		{
			Name:      "subscribe",
			Category:  categorySubmolts,
			Usage:     "Subscribe to a community",
			ArgsUsage: argsUsage("name"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return subscription(ctx, s, c, http.MethodPost)
			}),
		},
		{
			Name:      "unsubscribe",
			Category:  categorySubmolts,
			Usage:     "Unsubscribe from a community",
			ArgsUsage: argsUsage("name"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return subscription(ctx, s, c, http.MethodDelete)
			}),
		},
		{
			Name:      "pin-post",
			Category:  categorySubmolts,
			Usage:     "Pin a post in a community you moderate",
			ArgsUsage: argsUsage("post-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return simpleAction(ctx, s, c, http.MethodPost, "pin action", "Post pinned successfully! 📌", "posts", "pin")
			}),
		},
		{
			Name:      "unpin-post",
			Category:  categorySubmolts,
			Usage:     "Unpin a post",
			ArgsUsage: argsUsage("post-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return simpleAction(ctx, s, c, http.MethodDelete, "unpin action", "Post unpinned", "posts", "pin")
			}),
		},
		{
			Name:      "submolt-settings",
			Category:  categorySubmolts,
			Usage:     "Update community settings",
			ArgsUsage: argsUsage("name"),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "new description"},
				&cli.StringFlag{Name: "banner-color", Usage: "banner color, e.g. #1a1a2e"},
				&cli.StringFlag{Name: "theme-color", Usage: "theme color, e.g. #ff4500"},
			},
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "name")
				if err != nil {
					return err
				}
				name := a[0]
				req := api.Request{
					Method: http.MethodPatch,
					Path:   netutil.Path("submolts", name, "settings"),
					Body: domain.SubmoltSettingsRequest{
						Description: c.String("description"),
						BannerColor: c.String("banner-color"),
						ThemeColor:  c.String("theme-color"),
					},
				}
				_, _, err = s.act(ctx, req, "settings update", "m/"+name+" settings updated!")
				return err
			}),
		},
		{
			Name:      "submolt-mods",
			Category:  categorySubmolts,
			Usage:     "List the moderators of a community",
			ArgsUsage: argsUsage("name"),
			Action:    r.authed(listModerators),
		},
		{
			Name:      "submolt-mod-add",
			Category:  categorySubmolts,
			Usage:     "Add a moderator",
			ArgsUsage: argsUsage("name", "agent"),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "role", Value: "moderator", Usage: "role to grant"},
			},
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "name", "agent")
				if err != nil {
					return err
				}
				role := c.String("role")
				req := api.Request{
					Method: http.MethodPost,
					Path:   netutil.Path("submolts", a[0], "moderators"),
					Body:   domain.ModeratorRequest{AgentName: a[1], Role: role},
				}
				_, _, err = s.act(ctx, req, "add moderator", "Added "+a[1]+" as a "+role+" to m/"+a[0])
				return err
			}),
		},
		{
			Name:      "submolt-mod-remove",
			Category:  categorySubmolts,
			Usage:     "Remove a moderator",
			ArgsUsage: argsUsage("name", "agent"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "name", "agent")
				if err != nil {
					return err
				}
				req := api.Request{
					Method: http.MethodDelete,
					Path:   netutil.Path("submolts", a[0], "moderators"),
					Body:   domain.ModeratorRequest{AgentName: a[1]},
				}
				_, _, err = s.act(ctx, req, "remove moderator", "Removed "+a[1]+" from moderators of m/"+a[0])
				return err
			}),
		},
		{
			Name:      "upload-submolt-avatar",
			Category:  categorySubmolts,
			Usage:     "Upload a community avatar",
			ArgsUsage: argsUsage("name", "path"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return uploadSubmoltImage(ctx, s, c, "avatar", "Avatar")
			}),
		},
		{
			Name:      "upload-submolt-banner",
			Category:  categorySubmolts,
			Usage:     "Upload a community banner",
			ArgsUsage: argsUsage("name", "path"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return uploadSubmoltImage(ctx, s, c, "banner", "Banner")
			}),
		},
	}
}

func listSubmolts(ctx context.Context, s *session, c *cli.Context) error {
	if err := noArgs(c); err != nil {
		return err
	}
	sort := c.String("sort")
	var v gjson.Result
	path := netutil.WithQuery("/submolts", "sort", sort, "limit", strconv.Itoa(c.Int("limit")))
	if err := s.client.Get(ctx, path, &v); err != nil {
		return err
	}
	submolts, err := api.DecodeList[domain.Submolt](v, "submolts")
	if err != nil {
		return err
	}
	s.p.Heading("Available Submolts", sort)
	for _, sm := range submolts {
		s.p.Submolt(sm)
	}
	return nil
}

func submoltFeed(ctx context.Context, s *session, c *cli.Context) error {
	a, err := positional(c, "name")
	if err != nil {
		return err
	}
	name, sort := a[0], c.String("sort")
	path := netutil.WithQuery(netutil.Path("submolts", name, "feed"), "sort", sort, "limit", strconv.Itoa(c.Int("limit")))
	var feed domain.SubmoltFeedResponse
	if err := s.client.Get(ctx, path, &feed); err != nil {
		return err
	}
	s.p.Heading("Submolt m/"+name, sort)
	if len(feed.Posts) == 0 {
		s.p.Info("No posts in this submolt yet.")
		return nil
	}
	for i, post := range feed.Posts {
		s.p.Post(post, i+1)
	}
	return nil
}

func createSubmolt(ctx context.Context, s *session, c *cli.Context) error {
	a, err := positional(c, "name", "display-name")
	if err != nil {
		return err
	}
	body := domain.CreateSubmoltRequest{
		Name:        a[0],
		DisplayName: a[1],
		AllowCrypto: c.Bool("allow-crypto"),
	}
	if c.IsSet("description") {
		d := c.String("description")
		body.Description = &d
	}
	req := api.Request{Method: http.MethodPost, Path: "/submolts", Body: body}
	_, _, err = s.act(ctx, req, "submolt", "Submolt m/"+a[0]+" created successfully! 🦞")
	return err
}

func subscription(ctx context.Context, s *session, c *cli.Context, method string) error {
	a, err := positional(c, "name")
	if err != nil {
		return err
	}
	name := a[0]
	action, success := "subscription", "Subscribed to m/"+name
	req := api.Request{Method: method, Path: netutil.Path("submolts", name, "subscribe")}
	if method == http.MethodDelete {
		action, success = "unsubscription", "Unsubscribed from m/"+name
	} else {
		req.Body = domain.Empty{}
	}
	_, _, err = s.act(ctx, req, action, success)
	return err
}

func listModerators(ctx context.Context, s *session, c *cli.Context) error {
	a, err := positional(c, "name")
	if err != nil {
		return err
	}
	var v gjson.Result
	if err := s.client.Get(ctx, netutil.Path("submolts", a[0], "moderators"), &v); err != nil {
		return err
	}
	var mods []display.Moderator
	for _, m := range v.Get("moderators").Array() {
		mods = append(mods, display.Moderator{
			Name: stringOr(m.Get("agent_name"), "unknown"),
			Role: stringOr(m.Get("role"), "moderator"),
		})
	}
	s.p.Moderators(a[0], mods)
	return nil
}

func uploadSubmoltImage(ctx context.Context, s *session, c *cli.Context, kind, label string) error {
	a, err := positional(c, "name", "path")
	if err != nil {
		return err
	}
	req := api.Request{Method: http.MethodPost, Path: netutil.Path("submolts", a[0], kind), File: a[1]}
	_, _, err = s.act(ctx, req, kind+" upload", label+" uploaded for m/"+a[0]+" successfully! 🦞")
	return err
}

func stringOr(v gjson.Result, def string) string {
	if v.Type == gjson.String && v.Str != "" {
		return v.Str
	}
	return def
}

func noArgs(c *cli.Context) error {
	if c.NArg() > 0 {
		return usageErrorf("%s: unexpected argument %q", c.Command.Name, c.Args().First())
	}
	return nil
}
