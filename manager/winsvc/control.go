//go:build windows

package winsvc

import (
	"context"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager/errs"
)

const environmentRegistryValue = "Environment"

func servicesRegistryPath(name string) string {
	return `SYSTEM\CurrentControlSet\Services\` + name
}

func (m *Manager) serviceType() uint32 {
	if m.spec.Level == label.User {
		return windows.SERVICE_USER_OWN_PROCESS
	}
	return windows.SERVICE_WIN32_OWN_PROCESS
}

func startType(autostart bool) uint32 {
	if autostart {
		return windows.SERVICE_AUTO_START
	}
	return windows.SERVICE_DEMAND_START
}

func (m *Manager) buildConfig() mgr.Config {
	return mgr.Config{
		ServiceType:     m.serviceType(),
		StartType:       startType(m.spec.Autostart),
		ErrorControl:    windows.SERVICE_ERROR_NORMAL,
		BinaryPathName:  commandLine(string(m.spec.Program), m.spec.Arguments),
		DisplayName:     m.spec.DisplayName,
		Description:     m.spec.Description,
		ServiceStartName: "", // LocalSystem for System-level services
	}
}

// commandLine quote-wraps program and args into the form SCM's
// BinaryPathName field expects.
func commandLine(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(program))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Install opens the existing service (updating its config) or creates a
// new one, then sets the description, applies additional-access grants,
// and writes the environment multi-string (spec §4.5).
func (m *Manager) Install(ctx context.Context) error {
	conn, err := m.connect()
	if err != nil {
		return err
	}
	defer conn.Disconnect()

	cfg := m.buildConfig()

	svcHandle, err := conn.OpenService(m.name)
	if err == nil {
		defer svcHandle.Close()
		if err := svcHandle.UpdateConfig(cfg); err != nil {
			return errs.New(errs.IoFailure, "windows", "update-config "+m.name, err)
		}
	} else {
		svcHandle, err = conn.CreateService(m.name, string(m.spec.Program), cfg, m.spec.Arguments...)
		if err != nil {
			return errs.New(errs.IoFailure, "windows", "create-service "+m.name, err)
		}
		defer svcHandle.Close()
	}

	if err := svcHandle.UpdateConfig(cfg); err != nil {
		return errs.New(errs.IoFailure, "windows", "set-description "+m.name, err)
	}

	if err := m.applyAdditionalAccess(svcHandle); err != nil {
		return err
	}

	if err := m.writeEnvironment(); err != nil {
		return err
	}

	return nil
}

func (m *Manager) writeEnvironment() error {
	if len(m.spec.EnvVars) == 0 {
		return nil
	}
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, servicesRegistryPath(m.name), registry.SET_VALUE)
	if err != nil {
		return errs.New(errs.PermissionDenied, "windows", servicesRegistryPath(m.name), err)
	}
	defer key.Close()

	entries := make([]string, 0, len(m.spec.EnvVars))
	for _, e := range m.spec.EnvVars {
		entries = append(entries, e.Name+"="+e.Value)
	}
	if err := key.SetStringsValue(environmentRegistryValue, entries); err != nil {
		return errs.New(errs.IoFailure, "windows", servicesRegistryPath(m.name)+"\\Environment", err)
	}
	return nil
}

func (m *Manager) readEnvironment() ([]string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, servicesRegistryPath(m.name), registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil, nil
		}
		return nil, errs.New(errs.PermissionDenied, "windows", servicesRegistryPath(m.name), err)
	}
	defer key.Close()

	entries, _, err := key.GetStringsValue(environmentRegistryValue)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil, nil
		}
		return nil, errs.New(errs.IoFailure, "windows", servicesRegistryPath(m.name)+"\\Environment", err)
	}
	return entries, nil
}

// Uninstall stops the service if running then deletes it. For
// User-level services both the running instance and the base template
// are removed.
func (m *Manager) Uninstall(ctx context.Context) error {
	if err := m.Stop(ctx); err != nil && !errs.IsNotFound(err) {
		return err
	}

	conn, err := m.connect()
	if err != nil {
		return err
	}
	defer conn.Disconnect()

	if m.spec.Level == label.User {
		if instanceName, err := m.resolveInstanceName(conn); err == nil {
			if svcHandle, err := conn.OpenService(instanceName); err == nil {
				delErr := svcHandle.Delete()
				svcHandle.Close()
				if delErr != nil {
					return errs.New(errs.IoFailure, "windows", "delete "+instanceName, delErr)
				}
			}
		}
	}

	svcHandle, err := conn.OpenService(m.name)
	if err != nil {
		return nil // not found is success
	}
	defer svcHandle.Close()
	if err := svcHandle.Delete(); err != nil {
		return errs.New(errs.IoFailure, "windows", "delete "+m.name, err)
	}
	return nil
}

func (m *Manager) openCurrent(conn *mgr.Mgr) (*mgr.Service, error) {
	name, err := m.resolveInstanceName(conn)
	if err != nil {
		return nil, err
	}
	svcHandle, err := conn.OpenService(name)
	if err != nil {
		return nil, errs.New(errs.NotFound, "windows", name, err)
	}
	return svcHandle, nil
}

// Start opens the current instance (resolving its LUID suffix for
// User-level services) and issues Start if not already running.
func (m *Manager) Start(ctx context.Context) error {
	conn, err := m.connect()
	if err != nil {
		return err
	}
	defer conn.Disconnect()

	svcHandle, err := m.openCurrent(conn)
	if err != nil {
		return err
	}
	defer svcHandle.Close()

	status, err := svcHandle.Query()
	if err == nil && status.State == svc.Running {
		return nil
	}

	if err := svcHandle.Start(); err != nil {
		return errs.New(errs.IoFailure, "windows", "start "+m.name, err)
	}
	return nil
}

// Stop sends the Stop control. Not-running is idempotent success.
func (m *Manager) Stop(ctx context.Context) error {
	conn, err := m.connect()
	if err != nil {
		return err
	}
	defer conn.Disconnect()

	svcHandle, err := m.openCurrent(conn)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil
		}
		return err
	}
	defer svcHandle.Close()

	status, err := svcHandle.Query()
	if err == nil && status.State == svc.Stopped {
		return nil
	}

	if _, err := svcHandle.Control(svc.Stop); err != nil {
		return errs.New(errs.IoFailure, "windows", "stop "+m.name, err)
	}
	return nil
}

// Restart stops then starts.
func (m *Manager) Restart(ctx context.Context) error {
	if err := m.Stop(ctx); err != nil {
		return err
	}
	return m.Start(ctx)
}

// EnableAutostart and DisableAutostart rewrite start_type, preserving
// every other config field (spec §4.5).
func (m *Manager) EnableAutostart(ctx context.Context) error {
	return m.setStartType(ctx, true)
}

func (m *Manager) DisableAutostart(ctx context.Context) error {
	return m.setStartType(ctx, false)
}

func (m *Manager) setStartType(ctx context.Context, autostart bool) error {
	conn, err := m.connect()
	if err != nil {
		return err
	}
	defer conn.Disconnect()

	svcHandle, err := conn.OpenService(m.name)
	if err != nil {
		return errs.New(errs.NotFound, "windows", m.name, err)
	}
	defer svcHandle.Close()

	cfg, err := svcHandle.Config()
	if err != nil {
		return errs.New(errs.IoFailure, "windows", "query-config "+m.name, err)
	}

	cfg.StartType = startType(autostart)
	if err := svcHandle.UpdateConfig(cfg); err != nil {
		return errs.New(errs.IoFailure, "windows", "update-config "+m.name, err)
	}
	m.spec.Autostart = autostart
	return nil
}

// parseCommandLine unescapes double-escaped quotes then splits the
// command line into program and arguments using the Windows argv rules
// (spec §4.5).
func parseCommandLine(raw string) (string, []string) {
	unescaped := strings.ReplaceAll(raw, `\"`, `"`)
	ptr, err := windows.UTF16PtrFromString(unescaped)
	if err != nil {
		return unescaped, nil
	}
	var argc int32
	argv, err := windows.CommandLineToArgv(ptr, &argc)
	if err != nil || argc == 0 {
		return unescaped, nil
	}
	parts := make([]string, argc)
	for i, p := range argv[:argc] {
		parts[i] = windows.UTF16PtrToString(p)
	}
	return parts[0], parts[1:]
}

// ReloadConfig rewrites the service's SCM config and environment registry
// value from the current spec in place (through Install's open-existing-
// then-update path; the service is not deleted and recreated), preserving
// running state.
func (m *Manager) ReloadConfig(ctx context.Context) error {
	info, err := m.Status(ctx)
	if err != nil {
		return err
	}
	wasRunning := info.State == label.Started

	if err := m.Install(ctx); err != nil {
		return err
	}
	if wasRunning {
		return m.Start(ctx)
	}
	return nil
}

// OnConfigChanged diffs environment variables and reloads if changed.
func (m *Manager) OnConfigChanged(ctx context.Context) error {
	if m.spec.Config == nil {
		return nil
	}
	before := m.spec.Config.Snapshot()
	after, err := m.spec.Config.Reload()
	if err != nil {
		return errs.New(errs.IoFailure, "windows", "config-reload", err)
	}
	if envVarsEqual(before.EnvVars, after.EnvVars) {
		return nil
	}
	m.spec.EnvVars = after.EnvVars
	return m.ReloadConfig(ctx)
}

func envVarsEqual(a, b []label.EnvVar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

