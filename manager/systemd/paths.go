package systemd

import (
	"os"
	"path/filepath"

	"github.com/svchost/svchost/label"
)

const systemUnitDir = "/etc/systemd/system"

// userUnitDir returns $XDG_CONFIG_HOME/systemd/user, falling back to
// ~/.config/systemd/user (spec §6).
func userUnitDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "systemd", "user"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "systemd", "user"), nil
}

func unitDir(level label.Level) (string, error) {
	if level == label.User {
		return userUnitDir()
	}
	return systemUnitDir, nil
}

func (m *Manager) serviceUnitName() string { return m.name + ".service" }
func (m *Manager) socketUnitName() string  { return m.name + ".socket" }

func (m *Manager) serviceUnitPath() (string, error) {
	dir, err := unitDir(m.level)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, m.serviceUnitName()), nil
}

func (m *Manager) socketUnitPath() (string, error) {
	dir, err := unitDir(m.level)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, m.socketUnitName()), nil
}
