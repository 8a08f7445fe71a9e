package launchd

import (
	"context"
	"regexp"
	"strconv"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// launchctl print's human-readable text is not a stable format across OS
// versions (spec §4.4's explicit caveat), so only a handful of loosely
// anchored fields are scraped out of it rather than parsed structurally.
var (
	stateLineRe    = regexp.MustCompile(`(?m)^\s*state\s*=\s*(\S+)`)
	pidLineRe      = regexp.MustCompile(`(?m)^\s*pid\s*=\s*(\d+)`)
	lastExitLineRe = regexp.MustCompile(`(?m)^\s*last exit code\s*=\s*(-?\d+)`)
)

// Status shells out to `launchctl print <domain>/<label>` and scrapes
// state/pid/last-exit-code out of the output. Autostart is read from the
// on-disk plist's RunAtLoad rather than from launchctl, since print's
// notion of "enabled" reflects launchctl's own load bookkeeping, not the
// RunAtLoad flag the Manager contract cares about.
func (m *Manager) Status(ctx context.Context) (manager.Info, error) {
	target, err := m.serviceTarget(ctx)
	if err != nil {
		return manager.Info{}, errs.New(errs.IoFailure, "launchd", "service-target", err)
	}

	out, err := runLaunchctl(ctx, "print", target)
	if err != nil {
		if isNotFoundMessage(err) {
			if !m.hasSockets() {
				return manager.Info{Label: m.spec.Label, State: label.NotInstalled}, nil
			}
			runAtLoad, err := m.readPlistRunAtLoad()
			if err != nil {
				return manager.Info{}, err
			}
			return manager.Info{Label: m.spec.Label, State: label.Listening, Autostart: &runAtLoad}, nil
		}
		return manager.Info{}, errs.New(errs.IoFailure, "launchd", "print "+target, err)
	}

	runAtLoad, err := m.readPlistRunAtLoad()
	if err != nil {
		return manager.Info{}, err
	}
	autostart := runAtLoad

	info := manager.Info{
		Label:     m.spec.Label,
		State:     m.deriveState(out),
		Autostart: &autostart,
	}

	if match := pidLineRe.FindStringSubmatch(out); match != nil {
		if pid, err := strconv.ParseUint(match[1], 10, 32); err == nil {
			pid32 := uint32(pid)
			info.PID = &pid32
		}
	}
	if match := lastExitLineRe.FindStringSubmatch(out); match != nil {
		if code, err := strconv.ParseInt(match[1], 10, 32); err == nil {
			code32 := int32(code)
			info.LastExitCode = &code32
		}
	}

	return info, nil
}

// deriveState maps launchctl print's "state = running"/"state = not
// running" (and similar) onto the State vocabulary. A job with no pid but
// a registered socket endpoint is reported Listening rather than Stopped.
func (m *Manager) deriveState(printOutput string) label.State {
	match := stateLineRe.FindStringSubmatch(printOutput)
	running := match != nil && match[1] == "running"

	if running {
		return label.Started
	}
	if m.hasSockets() {
		return label.Listening
	}
	return label.Stopped
}
