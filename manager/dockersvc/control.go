package dockersvc

import (
	"context"

	"github.com/docker/docker/api/types/container"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager/errs"
)

// Start starts the container. Already-running is idempotent success.
func (m *Manager) Start(ctx context.Context) error {
	id, err := m.findContainer(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return errs.New(errs.NotFound, "docker", m.name, nil)
	}
	if err := m.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return errs.New(errs.IoFailure, "docker", "start "+id, err)
	}
	return nil
}

// Stop stops the container. Not-running is idempotent success.
func (m *Manager) Stop(ctx context.Context) error {
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
	return nil
}

// Restart maps directly onto Docker's container restart operation.
func (m *Manager) Restart(ctx context.Context) error {
	id, err := m.findContainer(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return errs.New(errs.NotFound, "docker", m.name, nil)
	}
	if err := m.cli.ContainerRestart(ctx, id, container.StopOptions{}); err != nil {
		return errs.New(errs.IoFailure, "docker", "restart "+id, err)
	}
	return nil
}

// EnableAutostart and DisableAutostart rewrite the container's restart
// policy via update_container (spec §4.6: RestartPolicy=ALWAYS to enable,
// NO to disable).
func (m *Manager) EnableAutostart(ctx context.Context) error {
	id, err := m.findContainer(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return errs.New(errs.NotFound, "docker", m.name, nil)
	}
	return m.setRestartPolicy(ctx, id, true)
}

func (m *Manager) DisableAutostart(ctx context.Context) error {
	id, err := m.findContainer(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return errs.New(errs.NotFound, "docker", m.name, nil)
	}
	return m.setRestartPolicy(ctx, id, false)
}

func (m *Manager) setRestartPolicy(ctx context.Context, id string, enable bool) error {
	name := container.RestartPolicyDisabled
	if enable {
		name = container.RestartPolicyAlways
	}
	_, err := m.cli.ContainerUpdate(ctx, id, container.UpdateConfig{
		RestartPolicy: container.RestartPolicy{Name: name},
	})
	if err != nil {
		return errs.New(errs.IoFailure, "docker", "update-restart-policy "+id, err)
	}
	m.spec.Autostart = enable
	return nil
}

// ReloadConfig recreates the container from the current spec, preserving
// running state: Docker has no in-place "update env/cmd" operation, so
// reload is stop -> remove -> create -> (re)start.
func (m *Manager) ReloadConfig(ctx context.Context) error {
	info, err := m.Status(ctx)
	if err != nil {
		return err
	}
	wasRunning := info.State == label.Started

	if err := m.Uninstall(ctx); err != nil {
		return err
	}
	if err := m.Install(ctx); err != nil {
		return err
	}
	if wasRunning {
		return m.Start(ctx)
	}
	return nil
}

// OnConfigChanged diffs environment variables and reloads if changed.
func (m *Manager) OnConfigChanged(ctx context.Context) error {
	if m.spec.Config == nil {
		return nil
	}
	before := m.spec.Config.Snapshot()
	after, err := m.spec.Config.Reload()
	if err != nil {
		return errs.New(errs.IoFailure, "docker", "config-reload", err)
	}
	if envVarsEqual(before.EnvVars, after.EnvVars) {
		return nil
	}
	m.spec.EnvVars = after.EnvVars
	return m.ReloadConfig(ctx)
}

func envVarsEqual(a, b []label.EnvVar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
