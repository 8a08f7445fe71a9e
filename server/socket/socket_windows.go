//go:build windows

package socket

import "github.com/svchost/svchost/label"

// getActivationSockets always reports no activation on Windows (spec
// §4.8): the SCM has no equivalent of the sd_listen_fds protocol.
func getActivationSockets(_ []label.SocketDescriptor) (Sockets, error) {
	return Sockets{IsActivated: false, Named: map[string][]Result{}}, nil
}
