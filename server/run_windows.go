//go:build windows

package server

import (
	"context"
	"os"
	"strings"

	"golang.org/x/sys/windows/registry"
	"golang.org/x/sys/windows/svc"
)

// serviceUserProcessTypes are the registry Type bitmask values Windows
// assigns USER_OWN_PROCESS and USER_SHARE_PROCESS template services
// (spec §4.7's "Windows user-service environment fix-up").
const (
	serviceUserOwnProcessTemplate   = 0x00000050
	serviceUserShareProcessTemplate = 0x00000060
)

// RunService dispatches the Handler through the Windows SCM (spec §4.7's
// Service entry): the control handler interprets Stop/Shutdown as a
// cancellation and acknowledges Interrogate; any other control request
// is logged and otherwise ignored, with no NotImplemented status returned
// for it. Readiness/stopping map onto SCM status transitions instead of a
// Notifier.
func RunService(serviceName string, parent context.Context, factory HandlerFactory, opts ...Option) error {
	o := buildOptions(opts)

	if err := applyUserServiceEnvironment(serviceName, o); err != nil {
		o.logger.Warn("user-service environment fix-up failed", "error", err)
	}

	svcCtx := NewServiceContext(parent)
	installSignalListener(svcCtx, o.logger)

	handler, err := factory(svcCtx.Context())
	if err != nil {
		svcCtx.Cancel()
		return err
	}

	h := &windowsDispatcher{handler: handler, svcCtx: svcCtx, logger: o.logger}
	if err := svc.Run(serviceName, h); err != nil {
		return err
	}
	return h.result
}

type windowsDispatcher struct {
	handler Handler
	svcCtx  *ServiceContext
	logger  interface {
		Debug(string, ...interface{})
		Warn(string, ...interface{})
	}
	result error
}

// Execute implements svc.Handler.
func (d *windowsDispatcher) Execute(_ []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	changes <- svc.Status{State: svc.StartPending}

	runDone := make(chan error, 1)
	go func() {
		runDone <- d.handler.RunService(d.svcCtx, func() {
			changes <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop | svc.AcceptShutdown}
		})
	}()

	var runErr error
loop:
	for {
		select {
		case runErr = <-runDone:
			break loop
		case c := <-r:
			switch c.Cmd {
			case svc.Interrogate:
				changes <- c.CurrentStatus
			case svc.Stop, svc.Shutdown:
				changes <- svc.Status{State: svc.StopPending}
				d.svcCtx.Cancel()
			default:
				d.logger.Debug("unhandled SCM control request", "cmd", c.Cmd)
			}
		}
	}

	drainErr := d.svcCtx.Drain()
	d.result = combineErrors(runErr, drainErr)

	exitCode := uint32(ExitCode(d.result))
	changes <- svc.Status{State: svc.Stopped, Win32ExitCode: exitCode}
	return false, exitCode
}

// applyUserServiceEnvironment loads the Environment multi-string from the
// registry and sets it in the process environment when this instance's
// registered service Type is a user-service template; user services do
// not otherwise inherit it (spec §4.7).
func applyUserServiceEnvironment(serviceName string, o *options) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `SYSTEM\CurrentControlSet\Services\`+serviceName, registry.QUERY_VALUE)
	if err != nil {
		return nil // nothing to fix up if the key is unreadable
	}
	defer key.Close()

	typ, _, err := key.GetIntegerValue("Type")
	if err != nil {
		return nil
	}
	if typ != serviceUserOwnProcessTemplate && typ != serviceUserShareProcessTemplate {
		return nil
	}

	entries, _, err := key.GetStringsValue("Environment")
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		os.Setenv(name, value)
	}
	return nil
}
