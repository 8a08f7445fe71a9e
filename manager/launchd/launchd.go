// Package launchd implements the Manager contract (spec §4.4) against
// macOS launchd, by writing a plist and shelling out to launchctl/id the
// way the teacher shells out to process-boundary tools and the way spec
// §9 requires (stdin=null, both streams captured, non-zero exit mapped
// to an error except the documented "not found" message).
package launchd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
	"howett.net/plist"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Manager is the launchd backend.
type Manager struct {
	spec   manager.Spec
	name   string
	label  string // qualified name, used as both plist Label and launchctl service name
	logger hclog.Logger
}

// New constructs a launchd-backed Manager. Unlike systemd/Docker, there
// is no connection to establish up front; launchctl/id are invoked
// per-operation.
func New(_ context.Context, spec manager.Spec, logger hclog.Logger) (manager.Manager, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Manager{
		spec:   spec,
		name:   spec.Label.Application,
		label:  spec.Label.QualifiedName(),
		logger: logger.Named("launchd"),
	}, nil
}

func (m *Manager) hasSockets() bool { return len(m.spec.Sockets) > 0 }

// domain returns "system" for System-level services or "gui/<uid>" for
// User-level services (spec §4.4). The uid is resolved by shelling out
// to `id -u` rather than os/user, matching the original implementation's
// process-boundary approach (it needs the *console* user's uid, which in
// a launchd-managed session is not always what os/user.Current reports).
func (m *Manager) domain(ctx context.Context) (string, error) {
	if m.spec.Level == label.System {
		return "system", nil
	}
	out, err := runID(ctx, "-u")
	if err != nil {
		return "", err
	}
	return "gui/" + strings.TrimSpace(out), nil
}

func (m *Manager) serviceTarget(ctx context.Context) (string, error) {
	domain, err := m.domain(ctx)
	if err != nil {
		return "", err
	}
	return domain + "/" + m.label, nil
}

func (m *Manager) plistPath() (string, error) {
	if m.spec.Level == label.System {
		return filepath.Join("/Library/LaunchDaemons", m.label+".plist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library/LaunchAgents", m.label+".plist"), nil
}

// launchdPlist mirrors the subset of Apple's launchd plist schema the
// Manager contract needs (spec §4.4).
type launchdPlist struct {
	Label                string                  `plist:"Label"`
	ProgramArguments     []string                `plist:"ProgramArguments"`
	RunAtLoad            bool                    `plist:"RunAtLoad"`
	EnvironmentVariables map[string]string       `plist:"EnvironmentVariables,omitempty"`
	Sockets              map[string]launchdSocket `plist:"Sockets,omitempty"`
}

// launchdSocket is one entry of the Sockets dictionary: IPC maps to a
// Unix domain socket by path, TCP/UDP to host/port, UDP additionally sets
// SockType=dgram.
type launchdSocket struct {
	SockPathName    string `plist:"SockPathName,omitempty"`
	SockNodeName    string `plist:"SockNodeName,omitempty"`
	SockServiceName string `plist:"SockServiceName,omitempty"`
	SockType        string `plist:"SockType,omitempty"`
}

func (m *Manager) buildPlist(runAtLoad bool) launchdPlist {
	envVars := make(map[string]string, len(m.spec.EnvVars))
	for _, e := range m.spec.EnvVars {
		envVars[e.Name] = e.Value
	}

	p := launchdPlist{
		Label:                m.label,
		ProgramArguments:     append([]string{string(m.spec.Program)}, m.spec.Arguments...),
		RunAtLoad:            runAtLoad,
		EnvironmentVariables: envVars,
	}

	if m.hasSockets() {
		p.Sockets = make(map[string]launchdSocket, len(m.spec.Sockets))
		for _, s := range m.spec.Sockets {
			p.Sockets[s.Name] = socketEntry(s)
		}
	}
	return p
}

func socketEntry(s label.SocketDescriptor) launchdSocket {
	if s.Kind == label.IPC {
		return launchdSocket{SockPathName: s.Address}
	}
	host, port := splitHostPort(s.Address)
	entry := launchdSocket{SockNodeName: host, SockServiceName: port}
	if s.Kind == label.UDP {
		entry.SockType = "dgram"
	}
	return entry
}

func splitHostPort(addr string) (host, port string) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i], addr[i+1:]
		}
	}
	return addr, ""
}

func (m *Manager) writePlist(runAtLoad bool) (string, error) {
	path, err := m.plistPath()
	if err != nil {
		return "", errs.New(errs.IoFailure, "launchd", "plist-path", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errs.New(errs.IoFailure, "launchd", path, err)
	}

	body, err := plist.MarshalIndent(m.buildPlist(runAtLoad), plist.XMLFormat, "\t")
	if err != nil {
		return "", errs.New(errs.InvalidData, "launchd", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", errs.New(errs.IoFailure, "launchd", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", errs.New(errs.IoFailure, "launchd", path, err)
	}
	return path, nil
}

func (m *Manager) readPlistRunAtLoad() (bool, error) {
	path, err := m.plistPath()
	if err != nil {
		return false, errs.New(errs.IoFailure, "launchd", "plist-path", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errs.New(errs.IoFailure, "launchd", path, err)
	}
	var p launchdPlist
	if _, err := plist.Unmarshal(body, &p); err != nil {
		return false, errs.New(errs.InvalidData, "launchd", path, err)
	}
	return p.RunAtLoad, nil
}

// Install writes the plist then bootstraps it into the target domain.
func (m *Manager) Install(ctx context.Context) error {
	path, err := m.writePlist(m.spec.Autostart)
	if err != nil {
		return err
	}
	domain, err := m.domain(ctx)
	if err != nil {
		return errs.New(errs.IoFailure, "launchd", "domain", err)
	}
	_, err = runLaunchctl(ctx, "bootstrap", domain, path)
	if err != nil && !isAlreadyBootstrapped(err) {
		return errs.New(errs.IoFailure, "launchd", fmt.Sprintf("bootstrap %s %s", domain, path), err)
	}
	return nil
}

// Uninstall boots the service out of its domain then removes the plist.
// "Not found" is treated as success.
func (m *Manager) Uninstall(ctx context.Context) error {
	target, err := m.serviceTarget(ctx)
	if err != nil {
		return errs.New(errs.IoFailure, "launchd", "service-target", err)
	}
	path, err := m.plistPath()
	if err != nil {
		return errs.New(errs.IoFailure, "launchd", "plist-path", err)
	}

	_, err = runLaunchctl(ctx, "bootout", target, path)
	if err != nil && !isNotFoundMessage(err) {
		return errs.New(errs.IoFailure, "launchd", fmt.Sprintf("bootout %s", target), err)
	}

	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		return errs.New(errs.IoFailure, "launchd", path, rmErr)
	}
	return nil
}

func (m *Manager) Name() string                   { return m.name }
func (m *Manager) Label() label.Label             { return m.spec.Label }
func (m *Manager) Description() string            { return m.spec.Description }
func (m *Manager) Arguments() []string            { return m.spec.Arguments }
func (m *Manager) Config() manager.ConfigAccessor { return m.spec.Config }

var _ manager.Manager = (*Manager)(nil)
