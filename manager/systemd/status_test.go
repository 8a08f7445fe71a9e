package systemd

import (
	"context"
	"testing"

	"github.com/svchost/svchost/label"
)

func TestDeriveStateNoSockets(t *testing.T) {
	m := newTestManager(nil, label.EnableAll)
	ctx := context.Background()

	cases := []struct {
		load, active, sub string
		want              label.State
	}{
		{"not-found", "", "", label.NotInstalled},
		{"loaded", "active", "running", label.Started},
		{"loaded", "inactive", "dead", label.Stopped},
		{"loaded", "failed", "failed", label.Stopped},
	}

	for _, c := range cases {
		got := m.deriveState(ctx, c.load, c.active, c.sub)
		if got != c.want {
			t.Errorf("deriveState(%q,%q,%q) = %v, want %v", c.load, c.active, c.sub, got, c.want)
		}
	}
}

func TestAsUint32AndAsInt32(t *testing.T) {
	if v, ok := asUint32(uint32(42)); !ok || v != 42 {
		t.Errorf("asUint32(uint32(42)) = %v,%v", v, ok)
	}
	if _, ok := asUint32("nope"); ok {
		t.Error("asUint32(string) should not be ok")
	}
	if v, ok := asInt32(int32(-1)); !ok || v != -1 {
		t.Errorf("asInt32(int32(-1)) = %v,%v", v, ok)
	}
}
