// Package dockersvc implements the Manager contract (spec §4.6) against a
// Docker daemon, the way a container Service Type substitutes for an OS
// service model: install creates a container instead of a unit/plist/SCM
// entry, and start/stop/restart map directly onto container operations.
package dockersvc

import (
	"context"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Manager is the Docker backend.
type Manager struct {
	spec   manager.Spec
	name   string
	cli    *client.Client
	logger hclog.Logger
}

// New constructs a Docker-backed Manager, connecting to the daemon
// addressed by the standard DOCKER_HOST/TLS environment (client.FromEnv),
// negotiating the API version with the daemon, and pinging it.
func New(ctx context.Context, spec manager.Spec, logger hclog.Logger) (manager.Manager, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errs.New(errs.BackendUnavailable, "docker", "client-init", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, errs.New(errs.BackendUnavailable, "docker", "ping", err)
	}

	return &Manager{
		spec:   spec,
		name:   spec.Label.Application,
		cli:    cli,
		logger: logger.Named("docker"),
	}, nil
}

func (m *Manager) hostConfig() *container.HostConfig {
	hc := &container.HostConfig{}
	if configure, ok := m.spec.ConfigureContainer.(func(*container.HostConfig)); ok && configure != nil {
		configure(hc)
	}
	return hc
}

func (m *Manager) containerConfig() *container.Config {
	env := make([]string, 0, len(m.spec.EnvVars))
	for _, e := range m.spec.EnvVars {
		env = append(env, e.Name+"="+e.Value)
	}
	return &container.Config{
		Image: string(m.spec.Program),
		Cmd:   m.spec.Arguments,
		Env:   env,
	}
}

// findContainer returns the 12-char-or-longer container ID for the named
// container, or "" if none exists.
func (m *Manager) findContainer(ctx context.Context) (string, error) {
	containers, err := m.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return "", errs.New(errs.IoFailure, "docker", "list-containers", err)
	}
	for _, c := range containers {
		for _, n := range c.Names {
			if n == "/"+m.name {
				return c.ID, nil
			}
		}
	}
	return "", nil
}

// Install creates the container if it doesn't already exist (already
// installed is idempotent success).
func (m *Manager) Install(ctx context.Context) error {
	existing, err := m.findContainer(ctx)
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}

	resp, err := m.cli.ContainerCreate(ctx, m.containerConfig(), m.hostConfig(), nil, nil, m.name)
	if err != nil {
		return errs.New(errs.IoFailure, "docker", "create-container "+m.name, err)
	}
	m.logger.Debug("created container", "id", resp.ID)

	if m.spec.Autostart {
		return m.setRestartPolicy(ctx, resp.ID, true)
	}
	return nil
}

// Uninstall stops (tolerating not-running) then removes the container
// without force.
func (m *Manager) Uninstall(ctx context.Context) error {
	id, err := m.findContainer(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	if err := m.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil && !errdefsNotRunning(err) {
		return errs.New(errs.IoFailure, "docker", "stop "+id, err)
	}
	if err := m.cli.ContainerRemove(ctx, id, container.RemoveOptions{}); err != nil {
		return errs.New(errs.IoFailure, "docker", "remove "+id, err)
	}
	return nil
}

func (m *Manager) Name() string                   { return m.name }
func (m *Manager) Label() label.Label             { return m.spec.Label }
func (m *Manager) Description() string            { return m.spec.Description }
func (m *Manager) Arguments() []string            { return m.spec.Arguments }
func (m *Manager) Config() manager.ConfigAccessor { return m.spec.Config }

func errdefsNotRunning(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "is not running") || strings.Contains(msg, "No such container")
}

var _ manager.Manager = (*Manager)(nil)
