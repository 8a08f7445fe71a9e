// Package server implements the Handler Runtime (spec §4.7): it drives a
// user-supplied Handler under the hosting OS's service model, translating
// signals/SCM control events into a single cancellation token and
// draining background services with per-service timeouts on shutdown.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/svchost/svchost/manager/errs"
)

// backgroundService is one task registered via ServiceContext.Spawn.
type backgroundService struct {
	name    string
	timeout time.Duration
	done    chan error
}

// ServiceContext is the Handler Runtime's cancellation token and
// background-service registry (spec §3's "Handler Runtime state").
// Its registry is mutex-protected; writes occur only during Spawn and
// Drain, matching spec §5's shared-resource policy.
type ServiceContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	services []*backgroundService
}

// NewServiceContext constructs a ServiceContext rooted at parent.
func NewServiceContext(parent context.Context) *ServiceContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &ServiceContext{ctx: ctx, cancel: cancel}
}

// Context returns the cancellation-bearing context background services
// and the Handler should observe for shutdown.
func (c *ServiceContext) Context() context.Context { return c.ctx }

// Cancel broadcasts shutdown to every background service and the
// Handler's own context. Safe to call more than once.
func (c *ServiceContext) Cancel() { c.cancel() }

// Spawn registers a named background service with its own shutdown
// timeout and runs fn on a new goroutine. fn must return promptly once
// the context is cancelled; Drain gives it up to timeout to do so.
func (c *ServiceContext) Spawn(name string, timeout time.Duration, fn func(ctx context.Context) error) {
	svc := &backgroundService{name: name, timeout: timeout, done: make(chan error, 1)}

	c.mu.Lock()
	c.services = append(c.services, svc)
	c.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				svc.done <- errs.New(errs.ExecutionPanic, "server", name, fmt.Errorf("%v", r))
			}
		}()
		svc.done <- fn(c.ctx)
	}()
}

// Drain cancels the context and awaits every spawned service, in
// registration order, up to its declared timeout (spec §5's shutdown
// ordering: "cancellation is raised to all background services
// simultaneously; their completions are awaited in registration order").
// Failures are aggregated into a *multierror.Error; nil if every service
// drained cleanly.
func (c *ServiceContext) Drain() error {
	c.cancel()

	c.mu.Lock()
	services := append([]*backgroundService(nil), c.services...)
	c.mu.Unlock()

	var result *multierror.Error
	for _, svc := range services {
		select {
		case err := <-svc.done:
			if err != nil {
				if asErr, ok := err.(*errs.Error); ok && asErr.Kind == errs.ExecutionPanic {
					result = multierror.Append(result, err)
					continue
				}
				result = multierror.Append(result, errs.New(errs.ExecutionFailure, "server", svc.name, err))
			}
		case <-time.After(svc.timeout):
			result = multierror.Append(result, errs.New(errs.TimedOut, "server", svc.name, nil))
		}
	}
	return result.ErrorOrNil()
}
