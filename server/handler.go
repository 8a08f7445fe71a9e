package server

import "context"

// Handler is the user-supplied service body (spec §4.7). RunService is
// handed the ServiceContext (for Spawn/Context) and must call onReady
// once the Handler considers itself ready to serve; the runtime maps
// onReady onto the platform's readiness notification.
type Handler interface {
	RunService(svcCtx *ServiceContext, onReady func()) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(svcCtx *ServiceContext, onReady func()) error

func (f HandlerFunc) RunService(svcCtx *ServiceContext, onReady func()) error {
	return f(svcCtx, onReady)
}

// HandlerFactory constructs a Handler given the runtime's base context,
// matching the Handler contract's new(context, input_data) constructor
// (input_data is supplied by the caller's closure, not by this signature,
// since Go has no ambient generic input-type parameter to thread here).
type HandlerFactory func(ctx context.Context) (Handler, error)
