// Package display renders Moltbook data for the terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI escape codes for terminal styling.
const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiItalic    = "\033[3m"
	ansiUnderline = "\033[4m"
	ansiRed       = "\033[31m"
	ansiGreen     = "\033[32m"
	ansiYellow    = "\033[33m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiWhite     = "\033[97m"
)

// ruleWidth caps the length of separator lines inside list entries.
const ruleWidth = 60

// Printer writes styled output. Normal output goes to out, errors to errOut.
// It is not safe for concurrent use.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	width  int
}

// New creates a Printer. Color is honoured as given; see [ShouldColor].
func New(out, errOut io.Writer, color bool) *Printer {
	return &Printer{out: out, errOut: errOut, color: color, width: TermWidth()}
}

// ShouldColor decides whether styled output is appropriate for w given a
// mode of "auto", "always" or "never". NO_COLOR disables auto mode.
func ShouldColor(w io.Writer, mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColor switches styled output on or off.
func (p *Printer) SetColor(color bool) { p.color = color }

// Out returns the primary writer.
func (p *Printer) Out() io.Writer { return p.out }

// Width returns the layout width in columns.
func (p *Printer) Width() int { return p.width }

// SetWidth overrides the detected layout width.
func (p *Printer) SetWidth(w int) {
	if w > 0 {
		p.width = w
	}
}

func (p *Printer) style(s string, codes ...string) string {
	if !p.color || len(codes) == 0 || s == "" {
		return s
	}
	return strings.Join(codes, "") + s + ansiReset
}

func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

// Success prints a green confirmation line.
func (p *Printer) Success(msg string) {
	p.Println(p.style("✅", ansiGreen), p.style(msg, ansiGreen))
}

// Error prints a red failure line to the error stream.
func (p *Printer) Error(msg string) {
	_, _ = fmt.Fprintln(p.errOut, p.style("❌", ansiRed, ansiBold), p.style(msg, ansiRed))
}

// Info prints a cyan informational line.
func (p *Printer) Info(msg string) {
	p.Println(p.style("ℹ️ ", ansiCyan), p.style(msg, ansiCyan))
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(msg string) {
	p.Println(p.style("⚠️ ", ansiYellow), p.style(msg, ansiYellow))
}

// Heading prints a bold green title followed by a rule.
func (p *Printer) Heading(title, detail string) {
	p.Println()
	if detail != "" {
		p.Printf("%s (%s)\n", p.style(title, ansiGreen, ansiBold), detail)
	} else {
		p.Println(p.style(title, ansiGreen, ansiBold))
	}
	p.Println(strings.Repeat("=", ruleWidth))
}

// Title prints a bold green line.
func (p *Printer) Title(s string) {
	p.Println(p.style(s, ansiGreen, ansiBold))
}

// Hint prints a dimmed secondary line with a leading bulb.
func (p *Printer) Hint(msg string) {
	p.Println("💡", p.style(msg, ansiDim))
}

// Command highlights a runnable command.
func (p *Printer) Command(s string) string {
	return p.style(s, ansiCyan)
}

// Dim renders s in a muted tone.
func (p *Printer) Dim(s string) string {
	return p.style(s, ansiDim)
}

// Emphasis renders s bold.
func (p *Printer) Emphasis(s string) string {
	return p.style(s, ansiBold)
}

// Highlight renders s as yellow, for values the user must act on.
func (p *Printer) Highlight(s string) string {
	return p.style(s, ansiYellow)
}

// Alert renders s bold red.
func (p *Printer) Alert(s string) string {
	return p.style(s, ansiRed, ansiBold)
}

func (p *Printer) rule(n int) string {
	return p.style(strings.Repeat("─", n), ansiDim)
}

func (p *Printer) heavyRule(n int) string {
	return p.style(strings.Repeat("━", n), ansiDim)
}
