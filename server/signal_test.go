//go:build !windows

package server

import (
	"context"
	"syscall"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"
)

func TestInstallSignalListenerCancelsOnTermination(t *testing.T) {
	svcCtx := NewServiceContext(context.Background())
	installSignalListener(svcCtx, hclog.NewNullLogger())

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("sending SIGHUP: %v", err)
	}

	select {
	case <-svcCtx.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("expected SIGHUP to cancel the service context")
	}

	if err := svcCtx.Drain(); err != nil {
		t.Errorf("Drain() = %v, want nil", err)
	}
}

func TestIsTerminationSignal(t *testing.T) {
	termSigs := terminationSignals()
	if !isTerminationSignal(syscall.SIGTERM, termSigs) {
		t.Error("expected SIGTERM to be a termination signal")
	}
	if isTerminationSignal(syscall.SIGCHLD, termSigs) {
		t.Error("expected SIGCHLD not to be a termination signal")
	}
}
