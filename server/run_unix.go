//go:build !windows

package server

import "context"

// RunService is the Service entry (spec §4.7): invoked when the OS
// service supervisor launches this process. serviceName is accepted for
// API parity with the Windows build, which needs it to dispatch through
// the SCM; it is unused here since systemd/launchd identify the service
// externally via the unit/plist rather than a runtime handshake.
func RunService(serviceName string, parent context.Context, factory HandlerFactory, opts ...Option) error {
	return run(parent, factory, newNotifier(), opts...)
}
