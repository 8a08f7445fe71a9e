package systemd

import (
	"context"
	"strings"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Status reloads and resets failed units before querying properties, per
// spec §4.3: "Before state queries, call Reload and ResetFailed."
func (m *Manager) Status(ctx context.Context) (manager.Info, error) {
	if err := m.conn.ReloadContext(ctx); err != nil {
		m.logger.Warn("reload before status failed", "error", err)
	}
	if err := m.conn.ResetFailedUnitContext(ctx, m.serviceUnitName()); err != nil {
		m.logger.Debug("reset-failed before status failed", "error", err)
	}

	props, err := m.conn.GetUnitPropertiesContext(ctx, m.serviceUnitName())
	if err != nil {
		if isUnitNotFound(err) {
			return manager.Info{Label: m.spec.Label, State: label.NotInstalled}, nil
		}
		return manager.Info{}, errs.New(errs.IoFailure, "systemd", m.serviceUnitName(), err)
	}

	loadState, _ := props["LoadState"].(string)
	activeState, _ := props["ActiveState"].(string)
	subState, _ := props["SubState"].(string)

	state := m.deriveState(ctx, loadState, activeState, subState)

	autostart, err := m.autostartState(ctx)
	if err != nil {
		return manager.Info{}, err
	}

	info := manager.Info{
		Label:     m.spec.Label,
		State:     state,
		Autostart: autostart,
	}

	if pid, ok := asUint32(props["ExecMainPID"]); ok && pid != 0 {
		info.PID = &pid
	}
	if code, ok := asInt32(props["ExecMainStatus"]); ok {
		info.LastExitCode = &code
	}

	return info, nil
}

func (m *Manager) deriveState(ctx context.Context, loadState, activeState, subState string) label.State {
	switch {
	case loadState == "not-found":
		return label.NotInstalled
	case loadState == "loaded" && activeState == "active" && subState == "running":
		return label.Started
	}

	if m.hasSockets() {
		sockProps, err := m.conn.GetUnitPropertiesContext(ctx, m.socketUnitName())
		if err == nil {
			sLoad, _ := sockProps["LoadState"].(string)
			sActive, _ := sockProps["ActiveState"].(string)
			sSub, _ := sockProps["SubState"].(string)
			if sLoad == "loaded" && sActive == "active" && sSub == "listening" {
				return label.Listening
			}
		}
	}

	return label.Stopped
}

func (m *Manager) autostartState(ctx context.Context) (*bool, error) {
	state, err := m.conn.GetUnitFileStateContext(ctx, m.serviceUnitName())
	if err != nil {
		if isUnitNotFound(err) {
			return nil, nil
		}
		return nil, errs.New(errs.IoFailure, "systemd", "unit-file-state", err)
	}
	enabled := state == "enabled" || state == "enabled-runtime" || state == "static"
	return &enabled, nil
}

func asUint32(v interface{}) (uint32, bool) {
	switch t := v.(type) {
	case uint32:
		return t, true
	case int32:
		return uint32(t), true
	case uint64:
		return uint32(t), true
	default:
		return 0, false
	}
}

func asInt32(v interface{}) (int32, bool) {
	switch t := v.(type) {
	case int32:
		return t, true
	case uint32:
		return int32(t), true
	default:
		return 0, false
	}
}

func isUnitNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "not found") || strings.Contains(msg, "NoSuchUnit")
}
