// Package runner executes external commands and streams their combined output
// to a logging.Sink line by line.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/xlttj/fridamgr/pkg/logging"
)

// ErrEmptyInvocation is returned when an Invocation carries no program.
var ErrEmptyInvocation = errors.New("invocation has no arguments")

// Invocation is one external process call.
type Invocation struct {
	Args []string
	Dir  string // working directory, empty for the current one
}

// Command builds an Invocation from a program and its arguments.
func Command(name string, args ...string) Invocation {
	return Invocation{Args: append([]string{name}, args...)}
}

// String renders the command line as echoed to sinks.
func (inv Invocation) String() string {
	return strings.Join(inv.Args, " ")
}

// Runner abstracts command execution so action sequences can be tested without
// spawning processes.
//
// A non-zero exit is reported through the returned code. The error is reserved
// for failures to execute at all (missing binary, broken pipe, cancellation).
type Runner interface {
	// Run streams every output line to sink as it is produced and returns the
	// exit code.
	Run(ctx context.Context, inv Invocation, sink logging.Sink) (int, error)
	// RunCapture waits for completion and returns the exit code and the
	// combined output. Lines are emitted to sink after the process ends.
	RunCapture(ctx context.Context, inv Invocation, sink logging.Sink) (int, string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Default is the shared os/exec backed runner.
var Default Runner = ExecRunner{}

func (inv Invocation) command(ctx context.Context) (*exec.Cmd, error) {
	if len(inv.Args) == 0 {
		return nil, ErrEmptyInvocation
	}
	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir
	return cmd, nil
}

func (ExecRunner) Run(ctx context.Context, inv Invocation, sink logging.Sink) (int, error) {
	logging.Emit(sink, "$ "+inv.String())
	cmd, err := inv.command(ctx)
	if err != nil {
		return -1, err
	}

	// stderr shares the stdout pipe so lines keep their arrival order
	out, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("failed to open output pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		logging.LogError("Failed to start %q: %v", inv.String(), err)
		return -1, fmt.Errorf("failed to start %s: %w", inv.Args[0], err)
	}
	logging.LogDebug("Started %q (PID: %d)", inv.String(), cmd.Process.Pid)

	readErr := streamLines(out, sink)
	code, err := exitStatus(ctx, cmd.Wait())
	if err != nil {
		return code, err
	}
	if readErr != nil {
		return code, fmt.Errorf("failed to read output of %s: %w", inv.Args[0], readErr)
	}
	logging.LogDebug("%q exited with code %d", inv.String(), code)
	return code, nil
}

func (ExecRunner) RunCapture(ctx context.Context, inv Invocation, sink logging.Sink) (int, string, error) {
	logging.Emit(sink, "$ "+inv.String())
	cmd, err := inv.command(ctx)
	if err != nil {
		return -1, "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	var startErr *exec.Error
	if errors.As(runErr, &startErr) {
		logging.LogError("Failed to start %q: %v", inv.String(), runErr)
		return -1, "", fmt.Errorf("failed to start %s: %w", inv.Args[0], runErr)
	}

	output := strings.ToValidUTF8(stdout.String()+stderr.String(), "\uFFFD")
	for _, line := range SplitLines(output) {
		logging.Emit(sink, line)
	}

	code, err := exitStatus(ctx, runErr)
	logging.LogDebug("%q exited with code %d (%d bytes captured)", inv.String(), code, len(output))
	return code, output, err
}

// streamLines forwards r to sink one line at a time until EOF.
func streamLines(r io.Reader, sink logging.Sink) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			logging.Emit(sink, cleanLine(line))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func cleanLine(line string) string {
	return strings.ToValidUTF8(strings.TrimRight(line, "\r\n"), "\uFFFD")
}

// SplitLines splits text on line boundaries, dropping the terminators and a
// trailing empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// exitStatus maps the result of Wait/Run to an exit code. Only failures that
// are not plain non-zero exits come back as errors.
func exitStatus(ctx context.Context, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("command interrupted: %w", ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
