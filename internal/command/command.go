package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Command is one program invocation with its arguments kept as separate
// tokens. Quoting happens only when the command is rendered for a remote
// shell, so a token can never be split or expanded on the way.
type Command struct {
	Program string
	Args    []string

	// Background detaches the process from the remote session: it survives
	// the session and its stdio does not keep the session open.
	Background bool
	// IgnoreFailure makes the rendered line succeed even when the program
	// exits non-zero.
	IgnoreFailure bool
}

// New returns a foreground command.
func New(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// ChangeDir is the "cd <dir>" step.
func ChangeDir(dir string) Command {
	return New("cd", dir)
}

// Sleep pauses the remote session for d.
func Sleep(d time.Duration) Command {
	return New("sleep", strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
}

// Tokens returns program followed by its arguments.
func (c Command) Tokens() []string {
	out := make([]string, 0, len(c.Args)+1)
	out = append(out, c.Program)
	return append(out, c.Args...)
}

// String renders the command as one POSIX shell line.
func (c Command) String() string {
	line := shellquote.Join(c.Tokens()...)
	if c.Background {
		line = "nohup " + line + " >/dev/null 2>&1 </dev/null &"
	}
	if c.IgnoreFailure {
		line += " || true"
	}
	return line
}

// Script is the body of one remote session: every step runs in order on a
// single host.
type Script struct {
	Address string
	Steps   []Command
}

// Render joins the steps with newlines, the remote shell's command terminator.
func (s Script) Render() string {
	var b strings.Builder
	for _, step := range s.Steps {
		b.WriteString(step.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Len is the number of steps.
func (s Script) Len() int {
	return len(s.Steps)
}
