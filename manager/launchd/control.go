package launchd

import (
	"context"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Start bootstraps (if socket-activated) or kickstarts the service
// (spec §4.4).
func (m *Manager) Start(ctx context.Context) error {
	if m.hasSockets() {
		return m.Install(ctx)
	}
	target, err := m.serviceTarget(ctx)
	if err != nil {
		return errs.New(errs.IoFailure, "launchd", "service-target", err)
	}
	if _, err := runLaunchctl(ctx, "kickstart", target); err != nil && !isAlreadyRunning(err) {
		return errs.New(errs.IoFailure, "launchd", "kickstart "+target, err)
	}
	return nil
}

// Stop stops the service; if socket activation is configured it also
// boots the socket out so the activation listener is unregistered.
func (m *Manager) Stop(ctx context.Context) error {
	if _, err := runLaunchctl(ctx, "stop", m.label); err != nil && !isNotRunning(err) {
		return errs.New(errs.IoFailure, "launchd", "stop "+m.label, err)
	}
	if m.hasSockets() {
		return m.Uninstall(ctx)
	}
	return nil
}

// Restart kickstarts with -k (force-restart) when Started, is a no-op
// when Listening (Open Question #1 — a caller that needs to force a
// socket re-arm calls Stop then Start explicitly), and falls through to
// Start otherwise.
func (m *Manager) Restart(ctx context.Context) error {
	info, err := m.Status(ctx)
	if err != nil {
		return err
	}
	switch info.State {
	case label.Started:
		target, err := m.serviceTarget(ctx)
		if err != nil {
			return errs.New(errs.IoFailure, "launchd", "service-target", err)
		}
		if _, err := runLaunchctl(ctx, "kickstart", "-k", target); err != nil {
			return errs.New(errs.IoFailure, "launchd", "kickstart -k "+target, err)
		}
		return nil
	case label.Listening:
		return nil
	default:
		return m.Start(ctx)
	}
}

// EnableAutostart rewrites the plist with RunAtLoad=true, reloads it via
// bootout+bootstrap, and re-applies the previous run state.
func (m *Manager) EnableAutostart(ctx context.Context) error {
	return m.setRunAtLoad(ctx, true)
}

func (m *Manager) DisableAutostart(ctx context.Context) error {
	return m.setRunAtLoad(ctx, false)
}

func (m *Manager) setRunAtLoad(ctx context.Context, runAtLoad bool) error {
	info, err := m.Status(ctx)
	if err != nil {
		return err
	}
	wasRunning := info.State == label.Started || info.State == label.Listening

	m.spec.Autostart = runAtLoad

	if err := m.Uninstall(ctx); err != nil {
		return err
	}
	if err := m.Install(ctx); err != nil {
		return err
	}
	if wasRunning && !m.hasSockets() {
		return m.Start(ctx)
	}
	return nil
}

// ReloadConfig rewrites the plist from the current spec and reloads it,
// preserving running state.
func (m *Manager) ReloadConfig(ctx context.Context) error {
	info, err := m.Status(ctx)
	if err != nil {
		return err
	}
	wasRunning := info.State == label.Started || info.State == label.Listening

	if err := m.Uninstall(ctx); err != nil {
		return err
	}
	if err := m.Install(ctx); err != nil {
		return err
	}
	if wasRunning && !m.hasSockets() {
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
		return errs.New(errs.IoFailure, "launchd", "config-reload", err)
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

func isAlreadyRunning(err error) bool {
	if err == nil {
		return false
	}
	return containsFold(err.Error(), "already running") || containsFold(err.Error(), "service is already loaded")
}

func isNotRunning(err error) bool {
	if err == nil {
		return false
	}
	return containsFold(err.Error(), "no such process") || containsFold(err.Error(), "not currently running")
}

var _ manager.Manager = (*Manager)(nil)
