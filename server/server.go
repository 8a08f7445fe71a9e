package server

import (
	"context"

	multierror "github.com/hashicorp/go-multierror"
)

// RunDirect runs the Handler without any service-manager integration
// (spec §4.7's Direct entry): used for foreground/dev execution. It still
// installs the signal-translation background service so Ctrl-C/SIGTERM
// triggers the same drain path a service-managed run would take.
func RunDirect(parent context.Context, factory HandlerFactory, opts ...Option) error {
	return run(parent, factory, nullNotifier{}, opts...)
}

// run is the entry-point-agnostic core both RunDirect and the non-Windows
// RunService build on: construct the context, install signal translation,
// construct and run the Handler, notify readiness/stopping, then drain.
func run(parent context.Context, factory HandlerFactory, notifier Notifier, opts ...Option) error {
	o := buildOptions(opts)
	svcCtx := NewServiceContext(parent)
	installSignalListener(svcCtx, o.logger)

	handler, err := factory(svcCtx.Context())
	if err != nil {
		svcCtx.Cancel()
		return err
	}

	runErr := handler.RunService(svcCtx, func() {
		if err := notifier.Ready(); err != nil {
			o.logger.Warn("readiness notification failed", "error", err)
		}
	})

	if err := notifier.Stopping(); err != nil {
		o.logger.Warn("stopping notification failed", "error", err)
	}

	drainErr := svcCtx.Drain()

	return combineErrors(runErr, drainErr)
}

// combineErrors merges the Handler's own result with the background-
// service drain's composite error (spec §4.7: "surfaces it along with the
// user's handler result").
func combineErrors(runErr, drainErr error) error {
	var result *multierror.Error
	if runErr != nil {
		result = multierror.Append(result, runErr)
	}
	if drainErr != nil {
		result = multierror.Append(result, drainErr)
	}
	return result.ErrorOrNil()
}

// ExitCode derives the process exit code from a RunDirect/RunService
// result: 0 on clean shutdown with no errors, 1 otherwise (spec §6).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
