package server

import (
	"testing"

	hclog "github.com/hashicorp/go-hclog"
)

func TestBuildOptionsDefaultsLogger(t *testing.T) {
	o := buildOptions(nil)
	if o.logger == nil {
		t.Fatal("expected a default logger, got nil")
	}
}

func TestWithLogger(t *testing.T) {
	logger := hclog.NewNullLogger()
	o := buildOptions([]Option{WithLogger(logger)})
	if o.logger != logger {
		t.Error("expected WithLogger to override the default logger")
	}
}

func TestNullNotifier(t *testing.T) {
	var n Notifier = nullNotifier{}
	if err := n.Ready(); err != nil {
		t.Errorf("Ready() = %v, want nil", err)
	}
	if err := n.Stopping(); err != nil {
		t.Errorf("Stopping() = %v, want nil", err)
	}
}
