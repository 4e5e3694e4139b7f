// Package cli implements the moltbook command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/kelexine/moltbook-cli/internal/display"
	"github.com/kelexine/moltbook-cli/internal/domain"
)

// Run is the main CLI entry point. It parses args (without the program
// name) and dispatches to the matching subcommand, returning a process
// exit code: 0 on success, 1 on failure and 2 on usage errors.
func Run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWith(ctx, args, os.Stdout, os.Stderr)
}

// RunWith is Run with explicit output streams. Input is read from stdin.
func RunWith(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, args, streams{
		in:          os.Stdin,
		out:         stdout,
		errOut:      stderr,
		interactive: isInteractiveInput(),
	})
}

type streams struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

func run(ctx context.Context, args []string, s streams) int {
	r := &runner{
		streams: s,
		p:       display.New(s.out, s.errOut, display.ShouldColor(s.out, "auto")),
	}
	app := r.app()
	err := app.RunContext(ctx, append([]string{"moltbook"}, hoistGlobalFlags(app.Commands, args)...))
	return r.exitCode(err)
}

// runner carries per-invocation state shared by all commands.
type runner struct {
	streams
	p *display.Printer
}

func (r *runner) exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usage):
		r.p.Error(usage.Error())
		_, _ = fmt.Fprintln(r.errOut, "Run 'moltbook help' for usage.")
		return 2
	case errors.Is(err, domain.ErrNotConfigured):
		r.p.Error("Configuration Error: " + err.Error())
		r.p.Printf("Run '%s' to set up your configuration.\n", r.p.Highlight("moltbook init"))
		return 1
	default:
		r.p.Error(err.Error())
		var parse *domain.ParseError
		if errors.As(err, &parse) && strings.TrimSpace(parse.Body) != "" {
			_, _ = fmt.Fprintln(r.errOut, r.p.Dim("Response: "+parse.Snippet(responseSnippetRunes)))
		}
		return 1
	}
}

// responseSnippetRunes caps the raw body shown for an unparseable response.
const responseSnippetRunes = 1000

// usageError marks invalid invocations; they exit with code 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, a ...any) error {
	return &usageError{err: fmt.Errorf(format, a...)}
}

// labeledError prefixes a failure with the phase it happened in.
type labeledError struct {
	label string
	err   error
}

func (e *labeledError) Error() string { return e.label + ": " + e.err.Error() }
func (e *labeledError) Unwrap() error { return e.err }

func withLabel(label string, err error) error {
	if err == nil {
		return nil
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return err
	}
	return &labeledError{label: label, err: err}
}

var (
	globalBoolFlags  = map[string]bool{"--debug": true, "--http3": true}
	globalValueFlags = map[string]bool{"--base-url": true}
)

// hoistGlobalFlags moves global flags in front of the subcommand so they
// are accepted anywhere on the command line. A token that is the value of
// one of the subcommand's own flags stays where it is.
func hoistGlobalFlags(commands []*cli.Command, args []string) []string {
	var (
		globals, rest []string
		valueFlags    map[string]bool
	)
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		name, _, hasValue := strings.Cut(a, "=")
		switch {
		case valueFlags[name] && !hasValue:
			rest = append(rest, a)
			if i+1 < len(args) {
				i++
				rest = append(rest, args[i])
			}
		case globalBoolFlags[name]:
			globals = append(globals, a)
		case globalValueFlags[name]:
			globals = append(globals, a)
			if !hasValue && i+1 < len(args) {
				i++
				globals = append(globals, args[i])
			}
		default:
			if valueFlags == nil && !strings.HasPrefix(a, "-") {
				valueFlags = valueFlagNames(findCommand(commands, a))
			}
			rest = append(rest, a)
		}
	}
	return append(globals, rest...)
}

func findCommand(commands []*cli.Command, name string) *cli.Command {
	for _, cmd := range commands {
		if cmd.HasName(name) {
			return cmd
		}
	}
	return nil
}

// valueFlagNames lists the spellings of every non-boolean flag of cmd and
// its subcommands.
func valueFlagNames(cmd *cli.Command) map[string]bool {
	names := map[string]bool{}
	if cmd == nil {
		return names
	}
	for _, f := range cmd.Flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			continue
		}
		for _, n := range f.Names() {
			names["-"+n] = true
			names["--"+n] = true
		}
	}
	for _, sub := range cmd.Subcommands {
		for n := range valueFlagNames(sub) {
			names[n] = true
		}
	}
	return names
}
