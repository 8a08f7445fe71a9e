//go:build !windows

package socket

import (
	"net"
	"os"
	"strconv"

	"github.com/coreos/go-systemd/v22/activation"

	"github.com/svchost/svchost/label"
)

// getActivationSockets honours the sd_listen_fds protocol (LISTEN_PID,
// LISTEN_FDS, LISTEN_FDNAMES). It reads the inherited descriptors with a
// single activation.Files call rather than activation.ListenersWithNames
// plus activation.PacketConnsWithNames: both of those helpers call
// Files(true) internally, and the first call's unsetEnv=true wipes
// LISTEN_PID/LISTEN_FDS/LISTEN_FDNAMES, so the second call would always
// see an empty environment and silently resolve to no descriptors at all.
// Reading the fds once and classifying each by the descriptor's declared
// kind (spec §4.8) avoids that.
func getActivationSockets(descriptors []label.SocketDescriptor) (Sockets, error) {
	if !listenPidMatches() {
		return Sockets{IsActivated: false, Named: map[string][]Result{}}, nil
	}

	files := activation.Files(true)

	byName := make(map[string][]*os.File, len(files))
	for _, f := range files {
		byName[f.Name()] = append(byName[f.Name()], f)
	}

	named := make(map[string][]Result, len(descriptors))
	for _, d := range descriptors {
		fs, ok := byName[d.Name]
		if !ok {
			continue
		}
		for _, f := range fs {
			if d.Kind == label.UDP {
				pc, err := net.FilePacketConn(f)
				if err != nil {
					return Sockets{}, err
				}
				named[d.Name] = append(named[d.Name], Result{PacketConn: pc})
			} else {
				l, err := net.FileListener(f)
				if err != nil {
					return Sockets{}, err
				}
				named[d.Name] = append(named[d.Name], Result{Listener: l})
			}
			f.Close()
		}
	}

	return Sockets{IsActivated: true, Named: named}, nil
}

func listenPidMatches() bool {
	pid := os.Getenv("LISTEN_PID")
	if pid == "" {
		return false
	}
	n, err := strconv.Atoi(pid)
	return err == nil && n == os.Getpid()
}
