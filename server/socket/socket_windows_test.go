//go:build windows

package socket

import (
	"testing"

	"github.com/svchost/svchost/label"
)

func TestGetActivationSocketsAlwaysInactive(t *testing.T) {
	sockets, err := GetActivationSockets([]label.SocketDescriptor{{Name: "http", Kind: label.TCP}})
	if err != nil {
		t.Fatalf("GetActivationSockets() error = %v", err)
	}
	if sockets.IsActivated {
		t.Error("expected IsActivated = false on windows")
	}
	if len(sockets.Named) != 0 {
		t.Errorf("expected no named sockets, got %v", sockets.Named)
	}
}
