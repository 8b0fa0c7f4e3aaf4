package privilege

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/kombatant/nvidia-oc/internal/errors"
)

func execve(argv0 string, argv []string, envv []string) error {
	return unix.Exec(argv0, argv, envv)
}

// Escalate replaces the current process with "<helper> <self> args...".
// As root it returns nil without doing anything; on success it does not
// return at all.
func (m *Manager) Escalate(args []string) error {
	if m.isRoot {
		return nil
	}

	helper, ok := m.paths[m.method]
	if !ok {
		return errors.ErrNoElevation
	}

	self, err := m.executable()
	if err != nil {
		return errors.Wrap(errors.Permission, "cannot locate own executable", err).
			WithOp("privilege.Escalate")
	}

	argv := append([]string{helper, self}, args...)
	if err := m.execFn(helper, argv, os.Environ()); err != nil {
		return errors.Wrapf(errors.Permission, err, "Failed to escalate privileges via %s", m.method).
			WithOp("privilege.Escalate")
	}
	return nil
}
