package exec

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// MockExecutor records calls and returns canned results. It is safe for
// concurrent use.
type MockExecutor struct {
	mu            sync.Mutex
	responses     map[string]*Result
	calls         []MockCall
	defaultResult *Result
}

// MockCall records a call to the mock executor.
type MockCall struct {
	Command  string
	Args     []string
	Env      []string
	Attached bool
	Elevated bool
}

// Line renders the call as a shell-like line.
func (c MockCall) Line() string {
	return strings.TrimSpace(c.Command + " " + strings.Join(c.Args, " "))
}

// NewMockExecutor creates a new mock executor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{responses: make(map[string]*Result)}
}

// SetResponse sets the result for every invocation of cmd.
func (m *MockExecutor) SetResponse(cmd string, result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = result
}

// SetResponseFor sets the result for cmd invoked with exactly args. It
// takes precedence over SetResponse.
func (m *MockExecutor) SetResponseFor(cmd string, args []string, result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key(cmd, args)] = result
}

// SetDefaultResponse sets the result for commands without a response.
func (m *MockExecutor) SetDefaultResponse(result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResult = result
}

func key(cmd string, args []string) string {
	return cmd + "\x00" + strings.Join(args, "\x00")
}

// Calls returns a copy of the recorded calls.
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

// Lines returns every recorded call rendered with MockCall.Line.
func (m *MockExecutor) Lines() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Line()
	}
	return out
}

// LastCall returns the most recent call, or a zero MockCall.
func (m *MockExecutor) LastCall() MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return MockCall{}
	}
	return m.calls[len(m.calls)-1]
}

// WasCalledWith reports whether cmd ran with exactly args.
func (m *MockExecutor) WasCalledWith(cmd string, args ...string) bool {
	for _, c := range m.Calls() {
		if c.Command == cmd && key(cmd, c.Args) == key(cmd, args) {
			return true
		}
	}
	return false
}

// Execute implements Executor.
func (m *MockExecutor) Execute(_ context.Context, cmd string, args ...string) *Result {
	return m.record(MockCall{Command: cmd, Args: args})
}

// Attach implements Executor.
func (m *MockExecutor) Attach(_ context.Context, env []string, cmd string, args ...string) *Result {
	return m.record(MockCall{Command: cmd, Args: args, Env: env, Attached: true})
}

// ElevatedCmd implements Executor. The returned command is "true" so
// running it is harmless.
func (m *MockExecutor) ElevatedCmd(cmd string, args ...string) *exec.Cmd {
	m.record(MockCall{Command: cmd, Args: args, Elevated: true})
	return exec.Command("true")
}

func (m *MockExecutor) record(call MockCall) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)

	canned, ok := m.responses[key(call.Command, call.Args)]
	if !ok {
		canned, ok = m.responses[call.Command]
	}
	if !ok {
		canned = m.defaultResult
	}

	now := time.Now()
	r := &Result{Command: call.Command, Args: call.Args, StartTime: now, EndTime: now}
	if canned != nil {
		r.Stdout = canned.Stdout
		r.Stderr = canned.Stderr
		r.ExitCode = canned.ExitCode
		r.Error = canned.Error
	}
	return r
}

// SuccessResult creates a successful result with the given stdout.
func SuccessResult(stdout string) *Result {
	return &Result{Stdout: []byte(stdout)}
}

// FailureResult creates a failed result with the given exit code and stderr.
func FailureResult(exitCode int, stderr string) *Result {
	return &Result{ExitCode: exitCode, Stderr: []byte(stderr)}
}

// ErrorResult creates a result for a command that could not run.
func ErrorResult(err error) *Result {
	return &Result{ExitCode: -1, Error: err}
}

var _ Executor = (*MockExecutor)(nil)
