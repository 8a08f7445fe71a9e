// Package builder implements the fluent Service Builder (spec §4.1): it
// aggregates identity, executable, arguments, privilege level, autostart
// preference, environment variables, and backend-specific tuning, and
// its Build method selects and constructs the appropriate backend
// Manager.
package builder

import (
	"context"
	"runtime"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Builder is constructed fluently via New and the With* setters, then
// consumed by Build to produce a backend Manager.
type Builder struct {
	label       label.Label
	displayName string
	description string
	program     label.Program
	arguments   []string
	level       label.Level
	autostart   bool
	serviceType label.ServiceType
	envVars     []label.EnvVar
	sockets     []label.SocketDescriptor

	systemd manager.SystemdConfig
	windows manager.WindowsConfig

	config             manager.ConfigAccessor
	configureContainer any

	logger hclog.Logger
}

// New constructs a Builder with defaults: Level=System, autostart=false,
// ServiceType=Native, empty arguments and environment variables.
func New(lbl label.Label, program label.Program) *Builder {
	return &Builder{
		label:       lbl,
		displayName: lbl.Application,
		program:     program,
		level:       label.System,
		serviceType: label.Native,
	}
}

func (b *Builder) WithDisplayName(name string) *Builder {
	b.displayName = name
	return b
}

func (b *Builder) WithDescription(description string) *Builder {
	b.description = description
	return b
}

// WithArgument appends a single argument.
func (b *Builder) WithArgument(arg string) *Builder {
	b.arguments = append(b.arguments, arg)
	return b
}

// WithArguments appends every argument in args.
func (b *Builder) WithArguments(args ...string) *Builder {
	b.arguments = append(b.arguments, args...)
	return b
}

func (b *Builder) WithLevel(level label.Level) *Builder {
	b.level = level
	return b
}

func (b *Builder) WithAutostart(autostart bool) *Builder {
	b.autostart = autostart
	return b
}

// WithEnvironmentVariable appends one environment variable to the
// ordered sequence carried in user-config.
func (b *Builder) WithEnvironmentVariable(name, value string) *Builder {
	b.envVars = append(b.envVars, label.EnvVar{Name: name, Value: value})
	return b
}

func (b *Builder) WithServiceType(t label.ServiceType) *Builder {
	b.serviceType = t
	return b
}

func (b *Builder) WithSystemdConfig(cfg manager.SystemdConfig) *Builder {
	b.systemd = cfg
	return b
}

func (b *Builder) WithWindowsConfig(cfg manager.WindowsConfig) *Builder {
	b.windows = cfg
	return b
}

// WithSocketActivation appends a socket-activation descriptor. The name
// must be unique within the builder; duplicates are rejected at Build
// time rather than here, since With* setters never fail.
func (b *Builder) WithSocketActivation(desc label.SocketDescriptor) *Builder {
	b.sockets = append(b.sockets, desc)
	return b
}

// WithConfigAccessor installs the cached user-config snapshot+reload
// handle OnConfigChanged diffs against.
func (b *Builder) WithConfigAccessor(accessor manager.ConfigAccessor) *Builder {
	b.config = accessor
	return b
}

// WithContainerConfigurer installs a Docker HostConfig customizer (bind
// mounts, resource limits). fn must be func(*container.HostConfig) from
// github.com/docker/docker/api/types/container; it is stored untyped so
// this package does not force a Docker client dependency onto callers
// who never use the Container service type.
func (b *Builder) WithContainerConfigurer(fn any) *Builder {
	b.configureContainer = fn
	return b
}

func (b *Builder) WithLogger(logger hclog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) validateSockets() error {
	seen := make(map[string]struct{}, len(b.sockets))
	for _, s := range b.sockets {
		if _, ok := seen[s.Name]; ok {
			return errs.New(errs.InvalidData, "builder", "socket-activation", nil)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

func (b *Builder) toSpec() manager.Spec {
	return manager.Spec{
		Label:              b.label,
		DisplayName:        b.displayName,
		Description:        b.description,
		Program:            b.program,
		Arguments:          b.arguments,
		Level:              b.level,
		Autostart:          b.autostart,
		ServiceType:        b.serviceType,
		EnvVars:            b.envVars,
		Sockets:            b.sockets,
		Systemd:            b.systemd,
		Windows:            b.windows,
		Config:             b.config,
		ConfigureContainer: b.configureContainer,
	}
}

// Build selects the backend (Container type -> Docker; else by host OS)
// and constructs its Manager. Build fails only if backend initialization
// itself fails (D-Bus connect, Docker ping) or the builder's own data is
// invalid (e.g. duplicate socket names).
func (b *Builder) Build(ctx context.Context) (manager.Manager, error) {
	return NewForOS(ctx, runtime.GOOS, b)
}

// NewForOS is Build's OS-parameterized core, split out so backend
// selection is unit-testable without depending on the test binary's
// actual runtime.GOOS.
func NewForOS(ctx context.Context, goos string, b *Builder) (manager.Manager, error) {
	if err := b.validateSockets(); err != nil {
		return nil, err
	}
	if err := b.label.Validate(); err != nil {
		return nil, errs.New(errs.InvalidData, "builder", "label", err)
	}

	spec := b.toSpec()
	logger := b.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if b.serviceType == label.Container {
		return newDockerManager(ctx, spec, logger)
	}

	switch goos {
	case "linux":
		return newSystemdManager(ctx, spec, logger)
	case "darwin":
		return newLaunchdManager(ctx, spec, logger)
	case "windows":
		return newWindowsManager(ctx, spec, logger)
	default:
		return nil, errs.New(errs.NotSupported, "builder", goos, nil)
	}
}
