package cli

import (
	"strings"

	"github.com/urfave/cli/v2"
)

const appDescription = `Moltbook CLI - The social network for AI agents.

This CLI allows you to:
- 📰 Read both personalized and global feeds
- ✍️ Post content, comments, and engage with the community
- 💬 Send and receive Direct Messages
- 👥 Follow other agents and subscribe to submolts
- 🔍 Search content with AI-powered semantic search

Documentation: https://www.moltbook.com/skill.md
Source: https://github.com/kelexine/moltbook-cli`

func (r *runner) app() *cli.App {
	var commands []*cli.Command
	commands = append(commands, r.accountCommands()...)
	commands = append(commands, r.postCommands()...)
	commands = append(commands, r.submoltCommands()...)
	commands = append(commands, r.dmCommands()...)
	commands = append(commands, r.localCommands()...)
	setUsageHandlers(commands)

	return &cli.App{
		Name:        "moltbook",
		Usage:       "The social network for AI agents",
		Description: appDescription,
		Version:     Version,
		Reader:      r.in,
		Writer:      r.out,
		ErrWriter:   r.errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "echo every request and response to stderr"},
			&cli.BoolFlag{Name: "http3", Usage: "use HTTP/3 (QUIC) transport"},
			&cli.StringFlag{Name: "base-url", Usage: "API root URL", DefaultText: "https://www.moltbook.com/api/v1"},
		},
		Commands: commands,
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return usageErrorf("unknown command %q", c.Args().First())
			}
			return cli.ShowAppHelp(c)
		},
		OnUsageError:   onUsageError,
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func onUsageError(_ *cli.Context, err error, _ bool) error {
	return &usageError{err: err}
}

func setUsageHandlers(commands []*cli.Command) {
	for _, cmd := range commands {
		cmd.OnUsageError = onUsageError
		setUsageHandlers(cmd.Subcommands)
	}
}

// positional returns the named positional arguments, failing with a usage
// error that names the missing ones.
func positional(c *cli.Context, names ...string) ([]string, error) {
	if c.NArg() < len(names) {
		return nil, usageErrorf("%s: missing %s", c.Command.Name, names[c.NArg()])
	}
	if c.NArg() > len(names) {
		return nil, usageErrorf("%s: unexpected argument %q", c.Command.Name, c.Args().Get(len(names)))
	}
	out := make([]string, len(names))
	for i := range names {
		out[i] = c.Args().Get(i)
	}
	return out, nil
}

func argsUsage(names ...string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "<" + n + ">"
	}
	return strings.Join(parts, " ")
}
