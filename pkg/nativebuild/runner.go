// pkg/nativebuild/runner.go
package nativebuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
)

// ErrStageFailed indicates a spawned build tool exited non-zero.
var ErrStageFailed = errors.New("build stage failed")

// Command describes one external build-tool invocation.
type Command struct {
	// Path is the executable to run; resolved via PATH unless absolute.
	Path string
	// Args are the arguments, not including the executable name.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is the explicit child environment for this spawn.
	Env Environment
}

// String renders the invocation for diagnostics.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner executes external build-tool commands. The production runner
// spawns processes; tests substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes, streaming their output.
// Any non-zero exit is an error; the orchestrator waits unconditionally
// for completion.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// NewExecRunner creates a runner wired to the process's stdio.
func NewExecRunner(logger *log.Logger) *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Run executes cmd and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if r.Logger != nil {
		r.Logger.Printf("running: %s", cmd)
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env.Slice()
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("%w: %s exited with status %d", ErrStageFailed, cmd.Path, exitErr.ExitCode())
		}
		return fmt.Errorf("running %s: %w", cmd.Path, err)
	}
	return nil
}
