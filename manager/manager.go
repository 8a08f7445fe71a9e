// Package manager defines the Manager contract (spec §4.2) implemented
// by the four backends, the Info type those backends report, and the
// Spec/config types their constructors consume. The factory that selects
// a backend is builder.NewForOS; the State type lives in package label.
package manager

import (
	"context"

	"github.com/svchost/svchost/label"
)

// Info is a point-in-time status snapshot returned by Status.
type Info struct {
	Label        label.Label
	State        label.State
	Autostart    *bool // nil only when State == NotInstalled
	PID          *uint32
	ContainerID  *string // 12-char prefix, Docker backend only
	LastExitCode *int32
}

// Manager is the fixed vocabulary of operations every backend implements
// (spec §4.2). All operations may perform I/O and are fallible with
// *errs.Error. None of them block on state convergence: that bounded
// polling loop is the CLI collaborator's job, not the backend's.
type Manager interface {
	// Install materializes the backend-specific service record. Already
	// installed is tolerated per-backend (idempotent-success or
	// open-existing-then-update); other failures surface.
	Install(ctx context.Context) error
	// Uninstall removes the backend-specific service record. "Not found"
	// is treated as success.
	Uninstall(ctx context.Context) error
	// Start requests the service transition toward Started (or
	// Listening, for socket-activation-only start). Already-started is
	// idempotent success.
	Start(ctx context.Context) error
	// Stop requests the service transition toward Stopped. Not-running
	// is idempotent success.
	Stop(ctx context.Context) error
	// Restart stops then starts the service. If currently stopped, it is
	// equivalent to Start.
	Restart(ctx context.Context) error
	// EnableAutostart configures the service to launch at boot/login.
	EnableAutostart(ctx context.Context) error
	// DisableAutostart configures the service to not launch at
	// boot/login.
	DisableAutostart(ctx context.Context) error
	// Status reports an Info snapshot. Never errors for "not installed";
	// that case is reported as Info{State: NotInstalled}.
	Status(ctx context.Context) (Info, error)
	// ReloadConfig re-materializes backing artifacts (unit files,
	// plists, registry entries, container definition) from the current
	// user config, preserving running state where the backend can.
	ReloadConfig(ctx context.Context) error
	// OnConfigChanged diffs the current environment variables against
	// the last-seen snapshot and calls ReloadConfig if they changed.
	OnConfigChanged(ctx context.Context) error

	// Accessors, all pure.
	Name() string
	Label() label.Label
	Description() string
	Arguments() []string
	Config() ConfigAccessor
}
