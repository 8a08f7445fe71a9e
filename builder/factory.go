package builder

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/dockersvc"
	"github.com/svchost/svchost/manager/launchd"
	"github.com/svchost/svchost/manager/systemd"
	"github.com/svchost/svchost/manager/winsvc"
)

func newSystemdManager(ctx context.Context, spec manager.Spec, logger hclog.Logger) (manager.Manager, error) {
	return systemd.New(ctx, spec, logger)
}

func newLaunchdManager(ctx context.Context, spec manager.Spec, logger hclog.Logger) (manager.Manager, error) {
	return launchd.New(ctx, spec, logger)
}

func newWindowsManager(ctx context.Context, spec manager.Spec, logger hclog.Logger) (manager.Manager, error) {
	return winsvc.New(ctx, spec, logger)
}

func newDockerManager(ctx context.Context, spec manager.Spec, logger hclog.Logger) (manager.Manager, error) {
	return dockersvc.New(ctx, spec, logger)
}
