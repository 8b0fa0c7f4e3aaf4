package cli

import (
	stderrors "errors"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
)

// usageError marks failures cobra reports before a command runs:
// unknown commands, bad flag values, missing required flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ExitCodeFor maps an error returned by the command tree to a process
// exit code.
func ExitCodeFor(err error) constants.ExitCode {
	if err == nil {
		return constants.ExitSuccess
	}

	var ue *usageError
	var fe *FlagError
	if stderrors.As(err, &ue) || stderrors.As(err, &fe) {
		return constants.ExitValidation
	}
	switch errors.GetCode(err) {
	case errors.Validation:
		return constants.ExitValidation
	case errors.Permission:
		return constants.ExitPermission
	case errors.NVML, errors.Device:
		return constants.ExitApply
	case errors.Cancelled:
		return constants.ExitUserAbort
	default:
		return constants.ExitError
	}
}
