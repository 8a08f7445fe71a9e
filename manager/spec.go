package manager

import "github.com/svchost/svchost/label"

// ConfigAccessor is the builder's "cached user-config accessor" (spec
// §3): a snapshot + reload handle over the user's configuration, used by
// OnConfigChanged to diff environment variables without requiring
// external wiring to the (out-of-scope) config-file parser.
type ConfigAccessor interface {
	// Snapshot returns the last-loaded Config without touching disk.
	Snapshot() Config
	// Reload re-reads the backing configuration and returns the fresh
	// value, also updating what Snapshot returns afterward.
	Reload() (Config, error)
}

// Config is the minimal user-config surface the core needs: the
// environment variables a backend injects into the service process.
type Config struct {
	EnvVars []label.EnvVar
}

// SystemdConfig carries systemd-specific tuning (spec §4.3).
type SystemdConfig struct {
	// After lists unit names the generated [Service] unit should order
	// itself after (After=).
	After []string
	// SocketBehavior selects, when sockets are configured, whether
	// autostart enables the socket unit alone or both units, and whether
	// start/restart act on the socket unit or on the service unit.
	SocketBehavior label.SocketActivationBehavior
}

// Trustee identifies the principal an additional Windows access grant
// applies to (spec §4.5).
type Trustee string

// AccessRight is one of the grantable SCM access rights.
type AccessRight int

const (
	AccessStart AccessRight = iota
	AccessStop
	AccessQueryStatus
	AccessQueryConfig
	AccessChangeConfig
	AccessPauseContinue
	AccessInterrogate
	AccessEnumerateDependents
	AccessDelete
)

// WindowsConfig carries Windows-specific tuning (spec §4.5).
type WindowsConfig struct {
	// AdditionalAccess grants extra SCM access rights to trustees beyond
	// the installing principal.
	AdditionalAccess map[Trustee][]AccessRight
}

// Spec is the snapshot of builder state a backend constructor consumes.
// The builder produces it when Build/NewForOS runs; each backend owns its
// own copy and updates it in place (Autostart on autostart toggles,
// EnvVars after OnConfigChanged).
type Spec struct {
	Label       label.Label
	DisplayName string
	Description string
	Program     label.Program
	Arguments   []string
	Level       label.Level
	Autostart   bool
	ServiceType label.ServiceType
	EnvVars     []label.EnvVar
	Sockets     []label.SocketDescriptor

	Systemd SystemdConfig
	Windows WindowsConfig

	Config ConfigAccessor

	// ConfigureContainer, when set, is a func(*container.HostConfig)
	// from manager/dockersvc that customizes bind mounts / resource
	// limits at container-create time. Typed as any here so this leaf
	// package has no dependency on the Docker client library; dockersvc
	// type-asserts it back.
	ConfigureContainer any
}
