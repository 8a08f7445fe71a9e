package server

import (
	"context"
	"os"
	"os/signal"
	"time"

	hclog "github.com/hashicorp/go-hclog"
)

const signalListenerDrainTimeout = 2 * time.Second

// installSignalListener spawns the signal-translation background service
// (spec §4.7): termination signals cancel svcCtx; the optional job-control
// signals are logged but otherwise ignored. It registers itself as a
// background service with a short shutdown timeout since it has nothing
// to drain beyond stopping the signal.Notify subscription.
func installSignalListener(svcCtx *ServiceContext, logger hclog.Logger) {
	termSigs := terminationSignals()
	infoSigs := informationalSignals()

	all := make([]os.Signal, 0, len(termSigs)+len(infoSigs))
	all = append(all, termSigs...)
	all = append(all, infoSigs...)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, all...)

	svcCtx.Spawn("signal-listener", signalListenerDrainTimeout, func(ctx context.Context) error {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return nil
			case sig := <-ch:
				if isTerminationSignal(sig, termSigs) {
					logger.Debug("termination signal received, cancelling service context", "signal", sig)
					svcCtx.Cancel()
					continue
				}
				logger.Debug("informational signal received", "signal", sig)
			}
		}
	})
}

func isTerminationSignal(sig os.Signal, termSigs []os.Signal) bool {
	for _, s := range termSigs {
		if s == sig {
			return true
		}
	}
	return false
}
