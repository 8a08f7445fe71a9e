package systemd

import (
	"bytes"
	"testing"

	"github.com/svchost/svchost/label"
)

const wantService = `[Unit]
Description=/opt/demo/demo run
After=network.target

[Service]
Type=notify
NotifyAccess=main
ExecStart=/opt/demo/demo run
Environment=FOO=bar

[Install]
WantedBy=default.target
`

func TestRenderServiceUnit(t *testing.T) {
	data := serviceUnitData{
		ExecStart: "/opt/demo/demo run",
		EnvVars:   []label.EnvVar{{Name: "FOO", Value: "bar"}},
		After:     []string{"network.target"},
		WantedBy:  []string{"default.target"},
	}

	var buf bytes.Buffer
	if err := serviceTmpl.Execute(&buf, data); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != wantService {
		t.Errorf("unit rendered wrongly:\ngot:\n%s\nwant:\n%s", buf.String(), wantService)
	}
}

const wantSocket = `[Socket]
ListenStream=0.0.0.0:9000

[Install]
WantedBy=sockets.target
`

func TestRenderSocketUnit(t *testing.T) {
	data := socketUnitData{
		ListenDirective: listenDirective(label.TCP),
		Address:         "0.0.0.0:9000",
	}

	var buf bytes.Buffer
	if err := socketTmpl.Execute(&buf, data); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != wantSocket {
		t.Errorf("socket unit rendered wrongly:\ngot:\n%s\nwant:\n%s", buf.String(), wantSocket)
	}
}

func TestWantedByTargets(t *testing.T) {
	if got := wantedByTargets(label.System)[0]; got != "multi-user.target" {
		t.Errorf("system level WantedBy = %q, want multi-user.target", got)
	}
	if got := wantedByTargets(label.User)[0]; got != "default.target" {
		t.Errorf("user level WantedBy = %q, want default.target", got)
	}
}
