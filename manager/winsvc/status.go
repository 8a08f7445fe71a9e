//go:build windows

package winsvc

import (
	"context"

	"golang.org/x/sys/windows/svc"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Status resolves the current instance (LUID-matched for User-level
// services), queries it, and maps the SCM state onto the State
// vocabulary: Stopped|StartPending -> Stopped, everything else -> Started
// (spec §4.5).
func (m *Manager) Status(ctx context.Context) (manager.Info, error) {
	conn, err := m.connect()
	if err != nil {
		return manager.Info{}, err
	}
	defer conn.Disconnect()

	svcHandle, err := m.openCurrent(conn)
	if err != nil {
		if errs.IsNotFound(err) {
			return manager.Info{Label: m.spec.Label, State: label.NotInstalled}, nil
		}
		return manager.Info{}, err
	}
	defer svcHandle.Close()

	status, err := svcHandle.Query()
	if err != nil {
		return manager.Info{}, errs.New(errs.IoFailure, "windows", "query "+m.name, err)
	}

	cfg, err := svcHandle.Config()
	if err != nil {
		return manager.Info{}, errs.New(errs.IoFailure, "windows", "query-config "+m.name, err)
	}
	program, args := parseCommandLine(cfg.BinaryPathName)
	m.logger.Trace("resolved installed command line", "program", program, "args", args)

	autostart := cfg.StartType == startType(true)

	info := manager.Info{
		Label:     m.spec.Label,
		State:     deriveState(status.State),
		Autostart: &autostart,
	}

	if status.ProcessId != 0 {
		pid := status.ProcessId
		info.PID = &pid
	}
	exitCode := int32(status.Win32ExitCode)
	info.LastExitCode = &exitCode

	return info, nil
}

func deriveState(s svc.State) label.State {
	switch s {
	case svc.Stopped, svc.StartPending:
		return label.Stopped
	default:
		return label.Started
	}
}
