package server

import "testing"

func TestHandlerFuncImplementsHandler(t *testing.T) {
	called := false
	var h Handler = HandlerFunc(func(svcCtx *ServiceContext, onReady func()) error {
		onReady()
		called = true
		return nil
	})

	svcCtx := NewServiceContext(nil)
	if err := h.RunService(svcCtx, func() {}); err != nil {
		t.Fatalf("RunService() = %v, want nil", err)
	}
	if !called {
		t.Error("expected wrapped function to run")
	}
}
