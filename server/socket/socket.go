// Package socket implements socket activation (spec §4.8): at startup it
// inspects the environment for inherited listening sockets and hands them
// to user code by the logical name the builder declared for each
// descriptor.
package socket

import (
	"net"

	"github.com/svchost/svchost/label"
)

// Result is one resolved activation socket: exactly one of Listener
// (Tcp/Ipc) or PacketConn (Udp) is set, matching the descriptor's kind.
type Result struct {
	Listener   net.Listener
	PacketConn net.PacketConn
}

// Sockets is the return value of GetActivationSockets: IsActivated is
// true only when the environment matched the platform's activation
// protocol; Named holds the Results (one per inherited fd) for each
// descriptor name that was actually present in the environment. Names absent from the environment are
// absent from the map — the caller decides whether to bind them itself.
type Sockets struct {
	IsActivated bool
	Named       map[string][]Result
}

// GetActivationSockets resolves the descriptors the builder declared
// against whatever the host OS's activation protocol supplied. The
// unix implementation lives in socket_unix.go; socket_windows.go always
// reports IsActivated=false (spec §4.8: "Windows: no socket activation").
func GetActivationSockets(descriptors []label.SocketDescriptor) (Sockets, error) {
	return getActivationSockets(descriptors)
}
