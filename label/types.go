package label

// Level governs unit-file placement, service type, and account selection.
type Level int

const (
	// System services run with elevated/system-wide privilege and are
	// installed into system-wide locations (/etc/systemd/system,
	// /Library/LaunchDaemons, LocalSystem SCM account).
	System Level = iota
	// User services run under the invoking user's session
	// (systemd --user, LaunchAgents, USER_OWN_PROCESS).
	User
)

func (l Level) String() string {
	if l == User {
		return "user"
	}
	return "system"
}

// ServiceType selects the backend family: a native OS service, or a
// container managed through a Docker daemon.
type ServiceType int

const (
	// Native selects systemd/launchd/Windows SCM depending on host OS.
	Native ServiceType = iota
	// Container selects the Docker backend regardless of host OS.
	Container
)

// EnvVar is a single environment variable carried in user config and
// injected into the service environment by every backend.
type EnvVar struct {
	Name  string
	Value string
}

// SocketKind selects the systemd socket directive / launchd Sockets
// dictionary shape / inherited descriptor protocol used for one
// activation descriptor.
type SocketKind int

const (
	// TCP is a stream socket bound to a host:port address.
	TCP SocketKind = iota
	// UDP is a datagram socket bound to a host:port address.
	UDP
	// IPC is a Unix domain stream socket bound to a filesystem path.
	IPC
)

func (k SocketKind) String() string {
	switch k {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	case IPC:
		return "ipc"
	default:
		return "unknown"
	}
}

// SocketDescriptor names one inherited/activated listening socket.
type SocketDescriptor struct {
	Name    string
	Address string // "host:port" for TCP/UDP, filesystem path for IPC
	Kind    SocketKind
}

// State is the service's observable lifecycle state.
type State int

const (
	// NotInstalled means the backend has no record of the service.
	NotInstalled State = iota
	// Stopped means the service is installed but not running, and (if
	// socket activation is configured) the socket unit is not listening
	// either.
	Stopped
	// Started means the service process is running.
	Started
	// Listening applies only when socket activation is configured: the
	// socket unit/listener is active but the service process has not
	// been launched yet.
	Listening
)

func (s State) String() string {
	switch s {
	case NotInstalled:
		return "not-installed"
	case Stopped:
		return "stopped"
	case Started:
		return "started"
	case Listening:
		return "listening"
	default:
		return "unknown"
	}
}

// SocketActivationBehavior selects how systemd's socket and service units
// are enabled together (§4.3/§9.3). EnableAll enables both; SocketOnly
// enables only the socket unit, leaving the service unit to be started by
// socket activation.
type SocketActivationBehavior int

const (
	EnableAll SocketActivationBehavior = iota
	SocketOnly
)
