package server

import "testing"

func TestNewNotifierRunsReadyStoppingWithoutError(t *testing.T) {
	n := newNotifier()
	if err := n.Ready(); err != nil {
		t.Errorf("Ready() = %v, want nil", err)
	}
	if err := n.Stopping(); err != nil {
		t.Errorf("Stopping() = %v, want nil", err)
	}
}
