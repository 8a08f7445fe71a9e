package launchd

import (
	"testing"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
)

func newTestManager(t *testing.T, level label.Level, sockets []label.SocketDescriptor) *Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	lbl := label.Label{Application: "demo"}
	return &Manager{
		spec: manager.Spec{
			Label:   lbl,
			Level:   level,
			Program: label.Program("/usr/local/bin/demo"),
			Sockets: sockets,
		},
		name:  "demo",
		label: lbl.QualifiedName(),
	}
}

func TestSplitHostPort(t *testing.T) {
	cases := map[string][2]string{
		"127.0.0.1:8080": {"127.0.0.1", "8080"},
		"0.0.0.0:9000":   {"0.0.0.0", "9000"},
		"noport":         {"noport", ""},
	}
	for addr, want := range cases {
		host, port := splitHostPort(addr)
		if host != want[0] || port != want[1] {
			t.Errorf("splitHostPort(%q) = (%q, %q), want (%q, %q)", addr, host, port, want[0], want[1])
		}
	}
}

func TestSocketEntryTCP(t *testing.T) {
	entry := socketEntry(label.SocketDescriptor{Name: "http", Address: "127.0.0.1:8080", Kind: label.TCP})
	if entry.SockNodeName != "127.0.0.1" || entry.SockServiceName != "8080" || entry.SockType != "" {
		t.Errorf("socketEntry(TCP) = %+v", entry)
	}
}

func TestSocketEntryUDP(t *testing.T) {
	entry := socketEntry(label.SocketDescriptor{Name: "dns", Address: "0.0.0.0:53", Kind: label.UDP})
	if entry.SockType != "dgram" {
		t.Errorf("socketEntry(UDP).SockType = %q, want dgram", entry.SockType)
	}
}

func TestSocketEntryIPC(t *testing.T) {
	entry := socketEntry(label.SocketDescriptor{Name: "ctl", Address: "/tmp/demo.sock", Kind: label.IPC})
	if entry.SockPathName != "/tmp/demo.sock" {
		t.Errorf("socketEntry(IPC).SockPathName = %q, want /tmp/demo.sock", entry.SockPathName)
	}
}

func TestBuildPlistNoSockets(t *testing.T) {
	m := newTestManager(t, label.User, nil)
	p := m.buildPlist(true)
	if p.Label != m.label {
		t.Errorf("Label = %q, want %q", p.Label, m.label)
	}
	if !p.RunAtLoad {
		t.Error("expected RunAtLoad = true")
	}
	if p.Sockets != nil {
		t.Errorf("expected no Sockets entry, got %v", p.Sockets)
	}
}

func TestBuildPlistWithSockets(t *testing.T) {
	sockets := []label.SocketDescriptor{{Name: "http", Address: ":8080", Kind: label.TCP}}
	m := newTestManager(t, label.User, sockets)
	p := m.buildPlist(false)
	if len(p.Sockets) != 1 {
		t.Fatalf("expected 1 socket entry, got %d", len(p.Sockets))
	}
	if _, ok := p.Sockets["http"]; !ok {
		t.Error("expected socket entry keyed by descriptor name")
	}
}

func TestWriteAndReadPlistRoundTrip(t *testing.T) {
	m := newTestManager(t, label.User, nil)

	if _, err := m.writePlist(true); err != nil {
		t.Fatalf("writePlist() error = %v", err)
	}
	runAtLoad, err := m.readPlistRunAtLoad()
	if err != nil {
		t.Fatalf("readPlistRunAtLoad() error = %v", err)
	}
	if !runAtLoad {
		t.Error("expected RunAtLoad = true after round trip")
	}

	if _, err := m.writePlist(false); err != nil {
		t.Fatalf("writePlist() error = %v", err)
	}
	runAtLoad, err = m.readPlistRunAtLoad()
	if err != nil {
		t.Fatalf("readPlistRunAtLoad() error = %v", err)
	}
	if runAtLoad {
		t.Error("expected RunAtLoad = false after rewrite")
	}
}

func TestReadPlistRunAtLoadMissingFile(t *testing.T) {
	m := newTestManager(t, label.User, nil)
	runAtLoad, err := m.readPlistRunAtLoad()
	if err != nil {
		t.Fatalf("readPlistRunAtLoad() error = %v, want nil for missing file", err)
	}
	if runAtLoad {
		t.Error("expected RunAtLoad = false when no plist exists yet")
	}
}

func TestIsNotFoundMessage(t *testing.T) {
	if !isNotFoundMessage(errFromString("Could not find service \"demo\" in domain for system")) {
		t.Error("expected case-insensitive match on 'could not find service'")
	}
	if isNotFoundMessage(errFromString("permission denied")) {
		t.Error("expected no match for unrelated error")
	}
	if isNotFoundMessage(nil) {
		t.Error("expected no match for nil error")
	}
}

func TestIsAlreadyBootstrapped(t *testing.T) {
	if !isAlreadyBootstrapped(errFromString("service already loaded")) {
		t.Error("expected match on 'service already loaded'")
	}
	if !isAlreadyBootstrapped(errFromString("already bootstrapped")) {
		t.Error("expected match on 'already bootstrapped'")
	}
	if isAlreadyBootstrapped(errFromString("unrelated")) {
		t.Error("expected no match for unrelated error")
	}
}

func TestContainsFold(t *testing.T) {
	if !containsFold("Already Running", "already running") {
		t.Error("expected case-insensitive substring match")
	}
	if containsFold("stopped", "running") {
		t.Error("expected no match")
	}
}

type errString string

func errFromString(s string) error { return errString(s) }

func (e errString) Error() string { return string(e) }
