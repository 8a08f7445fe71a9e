//go:build !windows

package socket

import (
	"os"
	"strconv"
	"testing"

	"github.com/svchost/svchost/label"
)

func TestGetActivationSocketsNoEnv(t *testing.T) {
	os.Unsetenv("LISTEN_PID")
	os.Unsetenv("LISTEN_FDS")

	sockets, err := GetActivationSockets([]label.SocketDescriptor{{Name: "http", Kind: label.TCP}})
	if err != nil {
		t.Fatalf("GetActivationSockets() error = %v", err)
	}
	if sockets.IsActivated {
		t.Error("expected IsActivated = false with no LISTEN_PID set")
	}
	if len(sockets.Named) != 0 {
		t.Errorf("expected no named sockets, got %v", sockets.Named)
	}
}

func TestListenPidMatches(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("LISTEN_PID") })

	os.Unsetenv("LISTEN_PID")
	if listenPidMatches() {
		t.Error("expected listenPidMatches() = false with LISTEN_PID unset")
	}

	os.Setenv("LISTEN_PID", strconv.Itoa(os.Getpid()))
	if !listenPidMatches() {
		t.Error("expected listenPidMatches() = true when LISTEN_PID equals the current pid")
	}

	os.Setenv("LISTEN_PID", "1")
	if listenPidMatches() && os.Getpid() != 1 {
		t.Error("expected listenPidMatches() = false for a mismatched pid")
	}
}
