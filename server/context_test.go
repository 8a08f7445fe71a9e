package server

import (
	"context"
	"errors"
	"testing"
	"time"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/svchost/svchost/manager/errs"
)

func TestDrainCleanShutdown(t *testing.T) {
	svcCtx := NewServiceContext(context.Background())
	svcCtx.Spawn("worker", time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	if err := svcCtx.Drain(); err != nil {
		t.Errorf("Drain() = %v, want nil", err)
	}
}

func TestDrainAggregatesFailure(t *testing.T) {
	svcCtx := NewServiceContext(context.Background())
	svcCtx.Spawn("worker", time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		return errors.New("boom")
	})

	err := svcCtx.Drain()
	if err == nil {
		t.Fatal("Drain() = nil, want error")
	}
}

func TestDrainTimesOut(t *testing.T) {
	svcCtx := NewServiceContext(context.Background())
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	svcCtx.Spawn("stuck", 10*time.Millisecond, func(ctx context.Context) error {
		<-block
		return nil
	})

	err := svcCtx.Drain()
	if err == nil {
		t.Fatal("Drain() = nil, want TimedOut error")
	}
}

func TestDrainRecoversPanic(t *testing.T) {
	svcCtx := NewServiceContext(context.Background())
	svcCtx.Spawn("panicker", time.Second, func(ctx context.Context) error {
		panic("kaboom")
	})

	err := svcCtx.Drain()
	if err == nil {
		t.Fatal("Drain() = nil, want ExecutionPanic error")
	}
	me, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("Drain() error is not a *multierror.Error: %v", err)
	}
	found := false
	var target *errs.Error
	for _, sub := range me.WrappedErrors() {
		if errors.As(sub, &target) && target.Kind == errs.ExecutionPanic {
			found = true
		}
	}
	if !found {
		t.Errorf("Drain() did not report ExecutionPanic, got: %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	svcCtx := NewServiceContext(context.Background())
	svcCtx.Cancel()
	svcCtx.Cancel()
	select {
	case <-svcCtx.Context().Done():
	default:
		t.Error("expected context to be done after Cancel")
	}
}
