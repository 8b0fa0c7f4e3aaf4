// Package errors provides the structured error type used across nvidia_oc.
// Errors carry a Code for classification, the failing operation, and an
// optional cause, and they cooperate with errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code int

const (
	// Unknown indicates an unclassified error.
	Unknown Code = iota
	// NVML indicates the management library could not be loaded or initialized.
	NVML
	// Device indicates a query or update against a GPU handle failed.
	Device
	// Permission indicates insufficient privileges.
	Permission
	// Configuration indicates a bad or unreadable configuration file.
	Configuration
	// Validation indicates invalid user input.
	Validation
	// Execution indicates an external command failed.
	Execution
	// Service indicates a systemd unit operation failed.
	Service
	// NotFound indicates a required resource is missing.
	NotFound
	// Timeout indicates an operation exceeded its time limit.
	Timeout
	// Unsupported indicates the operation is not available here.
	Unsupported
	// Cancelled indicates the user backed out.
	Cancelled
)

var codeNames = map[Code]string{
	Unknown:       "Unknown",
	NVML:          "NVML",
	Device:        "Device",
	Permission:    "Permission",
	Configuration: "Configuration",
	Validation:    "Validation",
	Execution:     "Execution",
	Service:       "Service",
	NotFound:      "NotFound",
	Timeout:       "Timeout",
	Unsupported:   "Unsupported",
	Cancelled:     "Cancelled",
}

// String returns the name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", c)
}

// Error is a structured application error.
type Error struct {
	Code    Code   // Error category
	Message string // Human-readable message
	Op      string // Failing operation, e.g. "gpu.Apply"
	Cause   error  // Underlying error, if any
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps cause with a code and message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf wraps cause with a code and formatted message.
func Wrapf(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithOp sets the operation and returns the same error for chaining.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// Error implements the error interface. The layout is
// "op: message: cause" with absent parts left out.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// GetCode extracts the code of the first *Error in the chain,
// or Unknown when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// UserMessage returns the message of the outermost *Error without the
// operation prefix, falling back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Sentinel errors.
var (
	// ErrNoElevation indicates no privilege helper is installed and the process is not root.
	ErrNoElevation = New(Permission, "Please install sudo, doas or pkexec and try again. Alternatively, run the program as root.")
	// ErrNVMLUnavailable indicates the management library is not usable in this build or host.
	ErrNVMLUnavailable = New(NVML, "NVML is not available")
	// ErrNoConfig indicates neither a command nor a configuration file was given.
	ErrNoConfig = New(NotFound, "Configuration file not found and no valid arguments were provided. Run `nvidia_oc --help` for more information.")
	// ErrTimeout indicates an operation exceeded its allowed time.
	ErrTimeout = New(Timeout, "operation timed out")
	// ErrCancelled indicates the user backed out of an operation.
	ErrCancelled = New(Cancelled, "operation cancelled")
)
