//go:build windows

package winsvc

import (
	"testing"

	"golang.org/x/sys/windows/svc"

	"github.com/svchost/svchost/label"
)

func TestDeriveState(t *testing.T) {
	cases := map[svc.State]label.State{
		svc.Stopped:      label.Stopped,
		svc.StartPending: label.Stopped,
		svc.Running:      label.Started,
		svc.PausePending: label.Started,
	}
	for in, want := range cases {
		if got := deriveState(in); got != want {
			t.Errorf("deriveState(%v) = %v, want %v", in, got, want)
		}
	}
}
