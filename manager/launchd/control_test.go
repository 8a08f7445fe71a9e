package launchd

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/svchost/svchost/label"
)

// stubLaunchctl puts a fake launchctl on PATH that always reports "not
// found", so Status() resolves to a clean NotInstalled instead of an exec
// error, letting setRunAtLoad reach the spec mutation under test without a
// real launchd on the machine running the test.
func stubLaunchctl(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("launchctl stub requires a POSIX shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\necho 'Could not find service \"demo\" in domain for system'\nexit 1\n"
	path := filepath.Join(dir, "launchctl")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write launchctl stub: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestEnvVarsEqualLaunchd(t *testing.T) {
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

func TestIsAlreadyRunning(t *testing.T) {
	if !isAlreadyRunning(errFromString("service is already loaded")) {
		t.Error("expected match on 'service is already loaded'")
	}
	if !isAlreadyRunning(errFromString("already running")) {
		t.Error("expected match on 'already running'")
	}
	if isAlreadyRunning(nil) {
		t.Error("expected nil error not to match")
	}
}

func TestIsNotRunning(t *testing.T) {
	if !isNotRunning(errFromString("no such process")) {
		t.Error("expected match on 'no such process'")
	}
	if !isNotRunning(errFromString("service is not currently running")) {
		t.Error("expected match on 'not currently running'")
	}
	if isNotRunning(nil) {
		t.Error("expected nil error not to match")
	}
}

// setRunAtLoad must durably persist the toggle onto m.spec.Autostart
// before reinstalling, since Install re-derives the plist's RunAtLoad
// value from that field rather than from the caller's argument. System
// level avoids the `id -u` shell-out in serviceTarget; launchctl is the
// stubLaunchctl fake, which always reports "could not find service", so
// Install fails with an I/O error, but the field mutation must have
// already happened.
func TestEnableDisableAutostartPersistsSpec(t *testing.T) {
	stubLaunchctl(t)
	m := newTestManager(t, label.System, nil)
	m.spec.Autostart = false

	_ = m.EnableAutostart(context.Background())
	if !m.spec.Autostart {
		t.Error("expected EnableAutostart to set spec.Autostart = true regardless of launchctl I/O result")
	}

	_ = m.DisableAutostart(context.Background())
	if m.spec.Autostart {
		t.Error("expected DisableAutostart to set spec.Autostart = false regardless of launchctl I/O result")
	}
}
