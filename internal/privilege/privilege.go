// Package privilege detects whether nvidia_oc runs as root and, when it
// does not, how to become root: sudo, then doas, then pkexec.
package privilege

import (
	"os"
	"os/exec"
	"os/user"
	"strings"
)

// Method is a privilege elevation helper.
type Method int

const (
	MethodNone Method = iota
	MethodSudo
	MethodDoas
	MethodPkexec
)

// searchOrder is the order helpers are probed in.
var searchOrder = []Method{MethodSudo, MethodDoas, MethodPkexec}

// String returns the helper binary name.
func (m Method) String() string {
	switch m {
	case MethodSudo:
		return "sudo"
	case MethodDoas:
		return "doas"
	case MethodPkexec:
		return "pkexec"
	default:
		return "none"
	}
}

// Manager holds the detected privilege state.
type Manager struct {
	method      Method
	paths       map[Method]string
	isRoot      bool
	currentUser *user.User
	execFn      func(argv0 string, argv []string, envv []string) error
	executable  func() (string, error)
}

// NewManager detects the effective user and the available helpers.
func NewManager() *Manager {
	return newManager(os.Geteuid() == 0, exec.LookPath)
}

func newManager(isRoot bool, lookPath func(string) (string, error)) *Manager {
	m := &Manager{
		paths:      make(map[Method]string),
		isRoot:     isRoot,
		execFn:     execve,
		executable: os.Executable,
	}
	m.currentUser, _ = user.Current()

	for _, method := range searchOrder {
		if p, err := lookPath(method.String()); err == nil {
			m.paths[method] = p
			if m.method == MethodNone {
				m.method = method
			}
		}
	}
	return m
}

// IsRoot reports whether the process runs with euid 0.
func (m *Manager) IsRoot() bool { return m.isRoot }

// CurrentUser returns the invoking user, if known.
func (m *Manager) CurrentUser() *user.User { return m.currentUser }

// Method returns the preferred available helper.
func (m *Manager) Method() Method { return m.method }

// Available reports whether method was found on PATH.
func (m *Manager) Available(method Method) bool {
	_, ok := m.paths[method]
	return ok
}

// CanElevate reports whether the process is root or a helper exists.
func (m *Manager) CanElevate() bool {
	return m.isRoot || m.method != MethodNone
}

// ElevatedCommand prefixes cmd with the preferred helper. As root the
// command is returned unchanged.
func (m *Manager) ElevatedCommand(cmd string, args ...string) (string, []string) {
	return m.ElevatedCommandVia(m.method, cmd, args...)
}

// ElevatedCommandVia is ElevatedCommand with a preferred helper that is
// used when installed; otherwise the default helper applies.
func (m *Manager) ElevatedCommandVia(pref Method, cmd string, args ...string) (string, []string) {
	if m.isRoot {
		return cmd, args
	}
	method := m.method
	if m.Available(pref) {
		method = pref
	}
	path, ok := m.paths[method]
	if !ok {
		return cmd, args
	}
	return path, append([]string{cmd}, args...)
}

var dangerousEnvVars = map[string]bool{
	"LD_PRELOAD":       true,
	"LD_LIBRARY_PATH":  true,
	"LD_AUDIT":         true,
	"LD_ORIGIN_PATH":   true,
	"LD_PROFILE":       true,
	"LD_DEBUG":         true,
	"LD_DEBUG_OUTPUT":  true,
	"LD_BIND_NOW":      true,
	"GCONV_PATH":       true,
	"HOSTALIASES":      true,
	"LOCALDOMAIN":      true,
	"LOCPATH":          true,
	"MALLOC_TRACE":     true,
	"NLSPATH":          true,
	"RESOLV_HOST_CONF": true,
	"RES_OPTIONS":      true,
	"TMPDIR":           true,
}

const safePath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// SanitizedEnv returns the process environment without loader and
// resolver overrides, with PATH pinned to system directories.
func (m *Manager) SanitizedEnv() []string {
	return sanitize(os.Environ())
}

func sanitize(environ []string) []string {
	env := make([]string, 0, len(environ)+1)
	for _, e := range environ {
		name, _, ok := strings.Cut(e, "=")
		if !ok || dangerousEnvVars[name] || name == "PATH" {
			continue
		}
		env = append(env, e)
	}
	return append(env, "PATH="+safePath)
}

// SetRoot overrides root detection. Tests only.
func (m *Manager) SetRoot(isRoot bool) { m.isRoot = isRoot }
