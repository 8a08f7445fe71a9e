package systemd

import (
	"context"
	"strings"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

const replaceMode = "replace"

// startStopUnits returns which unit(s) start/restart act on, per spec
// §4.3's dispatch table: when sockets are configured and behaviour is
// not EnableAll, start/restart act on the socket unit only; absent
// sockets, or with EnableAll, they act on the service unit.
func (m *Manager) startStopUnits() []string {
	if m.hasSockets() && m.spec.Systemd.SocketBehavior != label.EnableAll {
		return []string{m.socketUnitName()}
	}
	return []string{m.serviceUnitName()}
}

// stopUnits always stops both units when sockets are configured (§4.3:
// "stop always stops both").
func (m *Manager) stopUnits() []string {
	units := []string{m.serviceUnitName()}
	if m.hasSockets() {
		units = append(units, m.socketUnitName())
	}
	return units
}

func (m *Manager) Start(ctx context.Context) error {
	for _, unit := range m.startStopUnits() {
		if err := m.startUnit(ctx, unit); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) startUnit(ctx context.Context, unit string) error {
	ch := make(chan string, 1)
	if _, err := m.conn.StartUnitContext(ctx, unit, replaceMode, ch); err != nil {
		return errs.New(errs.IoFailure, "systemd", unit, err)
	}
	if result := <-ch; result != "done" {
		m.logger.Warn("start unit did not report done", "unit", unit, "result", result)
	}
	return nil
}

func (m *Manager) Stop(ctx context.Context) error {
	for _, unit := range m.stopUnits() {
		if err := m.stopUnit(ctx, unit); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) stopUnit(ctx context.Context, unit string) error {
	ch := make(chan string, 1)
	if _, err := m.conn.StopUnitContext(ctx, unit, replaceMode, ch); err != nil {
		// "unit not loaded" is idempotent success.
		if isUnitNotLoaded(err) {
			return nil
		}
		return errs.New(errs.IoFailure, "systemd", unit, err)
	}
	if result := <-ch; result != "done" {
		m.logger.Warn("stop unit did not report done", "unit", unit, "result", result)
	}
	return nil
}

func (m *Manager) Restart(ctx context.Context) error {
	for _, unit := range m.startStopUnits() {
		ch := make(chan string, 1)
		if _, err := m.conn.RestartUnitContext(ctx, unit, replaceMode, ch); err != nil {
			return errs.New(errs.IoFailure, "systemd", unit, err)
		}
		if result := <-ch; result != "done" {
			m.logger.Warn("restart unit did not report done", "unit", unit, "result", result)
		}
	}
	return nil
}

func (m *Manager) enableTargets() []string {
	if m.hasSockets() && m.spec.Systemd.SocketBehavior != label.EnableAll {
		return []string{m.socketUnitName()}
	}
	if m.hasSockets() {
		return []string{m.serviceUnitName(), m.socketUnitName()}
	}
	return []string{m.serviceUnitName()}
}

func (m *Manager) EnableAutostart(ctx context.Context) error {
	_, _, err := m.conn.EnableUnitFilesContext(ctx, m.enableTargets(), false, true)
	if err != nil {
		return errs.New(errs.IoFailure, "systemd", "enable", err)
	}
	return nil
}

func (m *Manager) DisableAutostart(ctx context.Context) error {
	_, err := m.conn.DisableUnitFilesContext(ctx, m.enableTargets(), false)
	if err != nil {
		return errs.New(errs.IoFailure, "systemd", "disable", err)
	}
	return nil
}

// ReloadConfig re-materializes the unit files from the current spec,
// preserving running state: stop, uninstall, install, and (if the
// service was running before) start again.
func (m *Manager) ReloadConfig(ctx context.Context) error {
	info, err := m.Status(ctx)
	if err != nil {
		return err
	}
	wasRunning := info.State == label.Started || info.State == label.Listening

	if err := m.Stop(ctx); err != nil {
		return err
	}
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

// OnConfigChanged diffs the current environment variables against the
// config accessor's last snapshot and reloads if they changed.
func (m *Manager) OnConfigChanged(ctx context.Context) error {
	if m.spec.Config == nil {
		return nil
	}
	before := m.spec.Config.Snapshot()
	after, err := m.spec.Config.Reload()
	if err != nil {
		return errs.New(errs.IoFailure, "systemd", "config-reload", err)
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

var _ manager.Manager = (*Manager)(nil)

func isUnitNotLoaded(err error) bool {
	if err == nil {
		return false
	}
	// go-systemd wraps the D-Bus error name in dbus.Error; a simple
	// substring check on the message is what the teacher's repo does
	// for subprocess error classification (systemd/driver.go TODO
	// comments reference similarly pragmatic string checks).
	msg := err.Error()
	return strings.Contains(msg, "not loaded") || strings.Contains(msg, "NoSuchUnit")
}
