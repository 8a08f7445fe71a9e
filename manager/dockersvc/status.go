package dockersvc

import (
	"context"

	"github.com/docker/docker/api/types/container"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Status lists containers filtered by name (spec §4.6); if none exist,
// State is NotInstalled. Otherwise it inspects the match and derives
// State, Autostart, PID, LastExitCode, and a 12-character ID prefix.
func (m *Manager) Status(ctx context.Context) (manager.Info, error) {
	id, err := m.findContainer(ctx)
	if err != nil {
		return manager.Info{}, err
	}
	if id == "" {
		return manager.Info{Label: m.spec.Label, State: label.NotInstalled}, nil
	}

	inspect, err := m.cli.ContainerInspect(ctx, id)
	if err != nil {
		return manager.Info{}, errs.New(errs.IoFailure, "docker", "inspect "+id, err)
	}

	state := label.Stopped
	if inspect.State != nil && inspect.State.Running && !inspect.State.Paused {
		state = label.Started
	}

	autostart := autostartFromPolicy(inspect.HostConfig)

	shortID := id
	if len(shortID) > 12 {
		shortID = shortID[:12]
	}

	info := manager.Info{
		Label:       m.spec.Label,
		State:       state,
		Autostart:   &autostart,
		ContainerID: &shortID,
	}

	if inspect.State != nil {
		if inspect.State.Pid > 0 {
			pid := uint32(inspect.State.Pid)
			info.PID = &pid
		}
		exitCode := int32(inspect.State.ExitCode)
		info.LastExitCode = &exitCode
	}

	return info, nil
}

func autostartFromPolicy(hc *container.HostConfig) bool {
	if hc == nil {
		return false
	}
	switch hc.RestartPolicy.Name {
	case container.RestartPolicyAlways, container.RestartPolicyOnFailure, container.RestartPolicyUnlessStopped:
		return true
	default:
		return false
	}
}
