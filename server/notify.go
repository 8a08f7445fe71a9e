package server

// Notifier emits readiness/stopping notifications to the hosting OS
// service supervisor (spec §4.7). Ready is called from the Handler's
// onReady callback; Stopping is called once RunService returns, before
// the background-service drain.
type Notifier interface {
	Ready() error
	Stopping() error
}

// nullNotifier is used for Direct entry and on platforms with no
// supervisor notification mechanism (macOS, and Windows outside the SCM
// dispatch path, which reports status transitions itself).
type nullNotifier struct{}

func (nullNotifier) Ready() error    { return nil }
func (nullNotifier) Stopping() error { return nil }

var _ Notifier = nullNotifier{}
