package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

func isInteractiveInput() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// prompter reads answers from the user when input is a terminal.
type prompter struct {
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
	// tty is set when answers come from the controlling terminal, whose
	// echo can be switched off for secrets.
	tty bool
}

func newPrompter(in io.Reader, out io.Writer, interactive bool) *prompter {
	return &prompter{
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: interactive,
		tty:         interactive && in == io.Reader(os.Stdin),
	}
}

func (p *prompter) prompt(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptDefault returns def when the answer is empty.
func (p *prompter) promptDefault(label, def string) (string, error) {
	v, err := p.prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

// required returns value when set, otherwise asks for it. Without a
// terminal a missing value is a usage error naming flag.
func (p *prompter) required(value, label, flag string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		return value, nil
	}
	if !p.interactive {
		return "", usageErrorf("missing %s", flag)
	}
	v, err := p.prompt(label + ": ")
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", usageErrorf("%s is required", strings.ToLower(label))
	}
	return v, nil
}

// optional asks for value only when it is unset and a terminal is present.
func (p *prompter) optional(value, label string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" || !p.interactive {
		return value, nil
	}
	return p.prompt(label + " (optional): ")
}

func (p *prompter) secret(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}
	if p.tty {
		echoDisabled := false
		if err := setTerminalEcho(false); err == nil {
			echoDisabled = true
		}
		defer func() {
			if echoDisabled {
				_ = setTerminalEcho(true)
			}
			_, _ = fmt.Fprintln(p.out)
		}()
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func setTerminalEcho(enable bool) error {
	arg := "-echo"
	if enable {
		arg = "echo"
	}
	cmd := exec.Command("stty", arg)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
