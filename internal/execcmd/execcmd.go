// Package execcmd runs a user supplied command for each duplicate group.
package execcmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Logger receives diagnostic lines
type Logger interface {
	PrintVerbose(level int, format string, args ...interface{})
}

// Runner executes the configured command through the platform shell.
// Standard streams are passed through and the exit status is ignored.
type Runner struct {
	command string
	hashArg bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  Logger
}

// NewRunner creates a Runner for command. When hashArg is set the group hash
// precedes the file names.
func NewRunner(command string, hashArg bool) *Runner {
	return &Runner{
		command: command,
		hashArg: hashArg,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// SetOutput redirects the command's standard output and error
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// SetLogger sets the destination of diagnostic lines
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}

// Enabled reports whether a command is configured
func (r *Runner) Enabled() bool {
	return r != nil && r.command != ""
}

// CommandLine builds `<command> [<hash> ]"<p1>" "<p2>" ...`
func (r *Runner) CommandLine(hash string, files []string) string {
	var b strings.Builder
	b.WriteString(r.command)
	b.WriteByte(' ')
	if r.hashArg {
		b.WriteString(hash)
		b.WriteByte(' ')
	}
	b.WriteByte('"')
	b.WriteString(strings.Join(files, `" "`))
	b.WriteByte('"')
	return b.String()
}

// Run executes the command for one group. Only a cancelled context is
// reported; failures of the command itself are logged and ignored.
func (r *Runner) Run(ctx context.Context, hash string, files []string) error {
	if !r.Enabled() {
		return nil
	}

	cmdline := r.CommandLine(hash, files)
	r.verbose(2, "Executing '%s'\n", cmdline)

	cmd := shellCommand(ctx, cmdline)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.verbose(2, "Command exited with status %d\n", exitErr.ExitCode())
		} else {
			r.verbose(2, "Command failed: %v\n", err)
		}
	}
	return nil
}

func (r *Runner) verbose(level int, format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.PrintVerbose(level, format, args...)
	}
}

func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		// #nosec G204 - running the user's command is the purpose of --exec
		return exec.CommandContext(ctx, "cmd", "/C", cmdline)
	}
	// #nosec G204 - running the user's command is the purpose of --exec
	return exec.CommandContext(ctx, "sh", "-c", cmdline)
}
