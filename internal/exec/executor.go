package exec

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/privilege"
)

// Executor runs external commands. Implementations must be safe for
// concurrent use.
type Executor interface {
	// Execute runs a command and captures its output.
	Execute(ctx context.Context, cmd string, args ...string) *Result
	// Attach runs a command on the caller's stdio with extra environment
	// entries and reports its exit code.
	Attach(ctx context.Context, env []string, cmd string, args ...string) *Result
	// ElevatedCmd prepares (without starting) a root command, preferring
	// pkexec as the helper.
	ElevatedCmd(cmd string, args ...string) *exec.Cmd
}

// Options configures the executor behavior.
type Options struct {
	Timeout     time.Duration // per-command timeout, 0 disables
	WorkDir     string
	Env         []string
	SanitizeEnv bool
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// DefaultOptions returns the defaults for command execution.
func DefaultOptions() Options {
	return Options{
		Timeout:     2 * time.Minute,
		SanitizeEnv: true,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// RealExecutor runs commands with os/exec.
type RealExecutor struct {
	mu        sync.Mutex
	opts      Options
	privilege *privilege.Manager
}

// NewExecutor creates an executor. priv may be nil, in which case
// elevation is skipped and the environment is passed through.
func NewExecutor(opts Options, priv *privilege.Manager) *RealExecutor {
	return &RealExecutor{opts: opts, privilege: priv}
}

func (e *RealExecutor) options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *RealExecutor) environ(opts Options, extra []string) []string {
	var env []string
	switch {
	case opts.SanitizeEnv && e.privilege != nil:
		env = e.privilege.SanitizedEnv()
	case len(opts.Env) > 0:
		env = append(env, opts.Env...)
	case len(extra) > 0:
		env = os.Environ()
	}
	return append(env, extra...)
}

// Execute implements Executor.
func (e *RealExecutor) Execute(ctx context.Context, cmd string, args ...string) *Result {
	opts := e.options()
	var stdout, stderr bytes.Buffer
	return e.run(ctx, opts, nil, &stdout, &stderr, nil, cmd, args, func(r *Result) {
		r.Stdout = stdout.Bytes()
		r.Stderr = stderr.Bytes()
	})
}

// Attach implements Executor. No timeout applies; the child owns the terminal.
func (e *RealExecutor) Attach(ctx context.Context, env []string, cmd string, args ...string) *Result {
	opts := e.options()
	opts.Timeout = 0
	return e.run(ctx, opts, opts.Stdin, opts.Stdout, opts.Stderr, env, cmd, args, nil)
}

// ElevatedCmd implements Executor. The GUI child marker is never passed
// on, so an elevated nvidia_oc runs its command line instead of the UI.
func (e *RealExecutor) ElevatedCmd(cmd string, args ...string) *exec.Cmd {
	opts := e.options()
	name, argv := cmd, args
	env := os.Environ()
	if e.privilege != nil {
		name, argv = e.privilege.ElevatedCommandVia(privilege.MethodPkexec, cmd, args...)
		if opts.SanitizeEnv {
			env = e.privilege.SanitizedEnv()
		}
	}
	c := exec.Command(name, argv...)
	c.Env = withoutEnv(env, constants.EnvGUIRun)
	return c
}

func withoutEnv(env []string, name string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		if k, _, _ := strings.Cut(kv, "="); k == name {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func (e *RealExecutor) run(ctx context.Context, opts Options, stdin io.Reader, stdout, stderr io.Writer,
	extraEnv []string, cmd string, args []string, collect func(*Result)) *Result {

	result := &Result{Command: cmd, Args: args, StartTime: time.Now()}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd, args...)
	c.Dir = opts.WorkDir
	c.Env = e.environ(opts, extraEnv)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr

	err := c.Run()

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	if collect != nil {
		collect(result)
	}

	if err != nil {
		// Context errors win: a killed process also reports an ExitError.
		switch {
		case ctx.Err() == context.DeadlineExceeded:
			result.Error = errors.Wrap(errors.Timeout, "command timed out", err)
			result.ExitCode = -1
		case ctx.Err() == context.Canceled:
			result.Error = errors.Wrap(errors.Cancelled, "command cancelled", err)
			result.ExitCode = -1
		default:
			if exitErr, ok := err.(*exec.ExitError); ok {
				result.ExitCode = exitErr.ExitCode()
			} else {
				result.Error = errors.Wrap(errors.Execution, "command execution failed", err)
				result.ExitCode = -1
			}
		}
	}
	return result
}

var _ Executor = (*RealExecutor)(nil)
