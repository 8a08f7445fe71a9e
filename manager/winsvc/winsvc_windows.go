//go:build windows

package winsvc

import (
	"context"
	"fmt"
	"regexp"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/svchost/svchost/label"
	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// Manager is the Windows SCM backend (spec §4.5).
type Manager struct {
	spec   manager.Spec
	name   string // canonical template name, "<application>"
	logger hclog.Logger
}

// New constructs a winsvc-backed Manager. Unlike systemd there is no
// persistent connection: mgr.Connect is called once per operation and
// disconnected when that operation returns.
func New(_ context.Context, spec manager.Spec, logger hclog.Logger) (manager.Manager, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Manager{
		spec:   spec,
		name:   spec.Label.Application,
		logger: logger.Named("winsvc"),
	}, nil
}

func (m *Manager) connect() (*mgr.Mgr, error) {
	conn, err := mgr.Connect()
	if err != nil {
		return nil, errs.New(errs.BackendUnavailable, "windows", "scm-connect", err)
	}
	return conn, nil
}

// instanceSuffixRe matches the session-specific suffix Windows appends to
// a USER_OWN_PROCESS service name at registration time (spec §4.5).
func instanceSuffixRe(name string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s_[a-z0-9]+$", regexp.QuoteMeta(name)))
}

// resolveInstanceName finds the currently-running instance of a
// USER_OWN_PROCESS service by enumerating all SCM service names and
// matching the LUID-suffix pattern. System-level services use the
// canonical name directly. Returns errs.NotFound when no instance exists.
func (m *Manager) resolveInstanceName(conn *mgr.Mgr) (string, error) {
	if m.spec.Level == label.System {
		return m.name, nil
	}

	names, err := conn.ListServices()
	if err != nil {
		return "", errs.New(errs.IoFailure, "windows", "list-services", err)
	}

	re := instanceSuffixRe(m.name)
	for _, n := range names {
		if re.MatchString(n) {
			return n, nil
		}
	}
	return "", errs.New(errs.NotFound, "windows", m.name, nil)
}

func (m *Manager) Name() string                   { return m.name }
func (m *Manager) Label() label.Label             { return m.spec.Label }
func (m *Manager) Description() string            { return m.spec.Description }
func (m *Manager) Arguments() []string            { return m.spec.Arguments }
func (m *Manager) Config() manager.ConfigAccessor { return m.spec.Config }

var _ manager.Manager = (*Manager)(nil)
