package systemd

import (
	"testing"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
)

func newTestManager(sockets []label.SocketDescriptor, behavior label.SocketActivationBehavior) *Manager {
	return &Manager{
		spec: manager.Spec{
			Label:   label.Label{Application: "demo"},
			Sockets: sockets,
			Systemd: manager.SystemdConfig{SocketBehavior: behavior},
		},
		name: "demo",
	}
}

func TestStartStopUnitsNoSockets(t *testing.T) {
	m := newTestManager(nil, label.EnableAll)
	got := m.startStopUnits()
	if len(got) != 1 || got[0] != "demo.service" {
		t.Errorf("startStopUnits() = %v, want [demo.service]", got)
	}
	if got := m.stopUnits(); len(got) != 1 || got[0] != "demo.service" {
		t.Errorf("stopUnits() = %v, want [demo.service]", got)
	}
}

func TestStartStopUnitsSocketOnly(t *testing.T) {
	sockets := []label.SocketDescriptor{{Name: "http", Address: "0.0.0.0:9000", Kind: label.TCP}}
	m := newTestManager(sockets, label.SocketOnly)

	got := m.startStopUnits()
	if len(got) != 1 || got[0] != "demo.socket" {
		t.Errorf("startStopUnits() = %v, want [demo.socket]", got)
	}

	stop := m.stopUnits()
	if len(stop) != 2 || stop[0] != "demo.service" || stop[1] != "demo.socket" {
		t.Errorf("stopUnits() = %v, want [demo.service demo.socket]", stop)
	}
}

func TestStartStopUnitsEnableAllWithSockets(t *testing.T) {
	sockets := []label.SocketDescriptor{{Name: "http", Address: "0.0.0.0:9000", Kind: label.TCP}}
	m := newTestManager(sockets, label.EnableAll)

	got := m.startStopUnits()
	if len(got) != 1 || got[0] != "demo.service" {
		t.Errorf("startStopUnits() with EnableAll = %v, want [demo.service]", got)
	}
}

func TestEnableTargets(t *testing.T) {
	sockets := []label.SocketDescriptor{{Name: "http", Address: ":9000", Kind: label.TCP}}

	socketOnly := newTestManager(sockets, label.SocketOnly)
	if got := socketOnly.enableTargets(); len(got) != 1 || got[0] != "demo.socket" {
		t.Errorf("enableTargets(SocketOnly) = %v, want [demo.socket]", got)
	}

	enableAll := newTestManager(sockets, label.EnableAll)
	got := enableAll.enableTargets()
	if len(got) != 2 || got[0] != "demo.service" || got[1] != "demo.socket" {
		t.Errorf("enableTargets(EnableAll) = %v, want [demo.service demo.socket]", got)
	}

	noSockets := newTestManager(nil, label.EnableAll)
	if got := noSockets.enableTargets(); len(got) != 1 || got[0] != "demo.service" {
		t.Errorf("enableTargets(no sockets) = %v, want [demo.service]", got)
	}
}

func TestEnvVarsEqual(t *testing.T) {
	a := []label.EnvVar{{Name: "A", Value: "1"}}
	b := []label.EnvVar{{Name: "A", Value: "1"}}
	c := []label.EnvVar{{Name: "A", Value: "2"}}

	if !envVarsEqual(a, b) {
		t.Error("expected equal env var slices to compare equal")
	}
	if envVarsEqual(a, c) {
		t.Error("expected different env var slices to compare unequal")
	}
	if envVarsEqual(a, nil) {
		t.Error("expected different-length slices to compare unequal")
	}
}
