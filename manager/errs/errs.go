// Package errs defines the abstract error kinds shared by every backend
// and the handler runtime (spec §7). Each kind is a typed error value
// checked with errors.Is/errors.As rather than string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error the way callers need to branch on it (e.g.
// "not found" maps to State=NotInstalled rather than failing status()).
type Kind int

const (
	NotSupported Kind = iota
	BackendUnavailable
	IoFailure
	NotFound
	PermissionDenied
	InvalidData
	Conflict
	TimedOut
	ExecutionPanic
	ExecutionFailure
)

func (k Kind) String() string {
	switch k {
	case NotSupported:
		return "not-supported"
	case BackendUnavailable:
		return "backend-unavailable"
	case IoFailure:
		return "io-failure"
	case NotFound:
		return "not-found"
	case PermissionDenied:
		return "permission-denied"
	case InvalidData:
		return "invalid-data"
	case Conflict:
		return "conflict"
	case TimedOut:
		return "timed-out"
	case ExecutionPanic:
		return "execution-panic"
	case ExecutionFailure:
		return "execution-failure"
	default:
		return "unknown"
	}
}

// Error is the concrete error type every backend returns. Backend and Op
// identify the originating command/path (spec requires IoFailure "always
// carries the originating path or command line").
type Error struct {
	Kind    Kind
	Backend string // "systemd", "launchd", "windows", "docker", "server", "builder"
	Op      string // e.g. the unit name, plist path, registry key, command line
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", e.Backend, e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %s: %v", e.Backend, e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, errs.New(errs.NotFound, "", "", nil)) matches any
// NotFound error; more commonly, callers use IsNotFound/IsTimedOut or
// compare e.Kind directly after errors.As.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs an *Error. Pass err as nil when the kind alone is the
// payload (e.g. idempotent-success checks that need a comparable
// sentinel).
func New(kind Kind, backend, op string, err error) *Error {
	return &Error{Kind: kind, Backend: backend, Op: op, Err: err}
}

// IsNotFound reports whether err (or something it wraps) is a NotFound
// error from any backend.
func IsNotFound(err error) bool {
	var e *Error
	return asErr(err, &e) && e.Kind == NotFound
}

// IsTimedOut reports whether err is a TimedOut error.
func IsTimedOut(err error) bool {
	var e *Error
	return asErr(err, &e) && e.Kind == TimedOut
}

func asErr(err error, target **Error) bool {
	return errors.As(err, target)
}
