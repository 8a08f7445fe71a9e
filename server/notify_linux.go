//go:build linux

package server

import "github.com/coreos/go-systemd/v22/daemon"

// sdNotifier emits sd_notify(READY=1)/sd_notify(STOPPING=1), the Linux
// Service entry's readiness mechanism (spec §4.7).
type sdNotifier struct{}

func (sdNotifier) Ready() error {
	_, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	return err
}

func (sdNotifier) Stopping() error {
	_, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	return err
}

func newNotifier() Notifier { return sdNotifier{} }

var _ Notifier = sdNotifier{}
