package launchd

import (
	"context"
	"testing"

	"github.com/svchost/svchost/label"
)

func TestDeriveStateRunning(t *testing.T) {
	m := newTestManager(t, label.User, nil)
	out := "demo.app = {\n\tstate = running\n\tpid = 4242\n}\n"
	if got := m.deriveState(out); got != label.Started {
		t.Errorf("deriveState(running) = %v, want %v", got, label.Started)
	}
}

func TestDeriveStateNotRunningNoSockets(t *testing.T) {
	m := newTestManager(t, label.User, nil)
	out := "demo.app = {\n\tstate = not running\n}\n"
	if got := m.deriveState(out); got != label.Stopped {
		t.Errorf("deriveState(not running) = %v, want %v", got, label.Stopped)
	}
}

func TestDeriveStateNotRunningWithSockets(t *testing.T) {
	sockets := []label.SocketDescriptor{{Name: "http", Address: ":8080", Kind: label.TCP}}
	m := newTestManager(t, label.User, sockets)
	out := "demo.app = {\n\tstate = not running\n}\n"
	if got := m.deriveState(out); got != label.Listening {
		t.Errorf("deriveState(not running, with sockets) = %v, want %v", got, label.Listening)
	}
}

// Status's "could not find service" path must agree with deriveState's
// socket-aware fallback rather than always reporting NotInstalled.
func TestStatusNotFoundNoSockets(t *testing.T) {
	stubLaunchctl(t)
	m := newTestManager(t, label.System, nil)

	info, err := m.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if info.State != label.NotInstalled {
		t.Errorf("Status().State = %v, want %v", info.State, label.NotInstalled)
	}
}

func TestStatusNotFoundWithSockets(t *testing.T) {
	stubLaunchctl(t)
	sockets := []label.SocketDescriptor{{Name: "http", Address: ":8080", Kind: label.TCP}}
	m := newTestManager(t, label.System, sockets)

	info, err := m.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if info.State != label.Listening {
		t.Errorf("Status().State = %v, want %v", info.State, label.Listening)
	}
}

func TestPidAndExitCodeRegexes(t *testing.T) {
	out := "state = running\npid = 123\nlast exit code = -15\n"
	if m := pidLineRe.FindStringSubmatch(out); m == nil || m[1] != "123" {
		t.Errorf("pidLineRe match = %v, want 123", m)
	}
	if m := lastExitLineRe.FindStringSubmatch(out); m == nil || m[1] != "-15" {
		t.Errorf("lastExitLineRe match = %v, want -15", m)
	}
}
