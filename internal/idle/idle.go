// Package idle reports whether the user is away, as told by the desktop's
// screensaver service over the D-Bus session bus.
package idle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// Signal is queried before every tick. An error means "unknown".
type Signal interface {
	IsIdle() (bool, error)
}

// Never is a Signal for hosts without an idle service.
type Never struct{}

func (Never) IsIdle() (bool, error) { return false, nil }

// Func adapts a plain function to Signal.
type Func func() (bool, error)

func (f Func) IsIdle() (bool, error) { return f() }

// DefaultServices are the screensaver bus names tried in order.
var DefaultServices = []string{
	"org.cinnamon.ScreenSaver",
	"org.gnome.ScreenSaver",
	"org.kde.screensaver",
	"org.freedesktop.ScreenSaver",
}

var errNoService = errors.New("no screensaver service answered")

// ScreenSaver asks a screensaver service whether it is active.
type ScreenSaver struct {
	conn    *dbus.Conn
	service string
}

// Connect opens the session bus and picks the first of services that
// answers GetActive.
func Connect(services []string) (*ScreenSaver, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	for _, name := range services {
		ss := &ScreenSaver{conn: conn, service: name}
		if _, err := ss.IsIdle(); err == nil {
			return ss, nil
		}
	}
	conn.Close()
	return nil, fmt.Errorf("%w: tried %s", errNoService, strings.Join(services, ", "))
}

// Service returns the bus name in use.
func (s *ScreenSaver) Service() string {
	return s.service
}

func (s *ScreenSaver) IsIdle() (bool, error) {
	var active bool
	obj := s.conn.Object(s.service, objectPath(s.service))
	if err := obj.Call(s.service+".GetActive", 0).Store(&active); err != nil {
		return false, fmt.Errorf("%s GetActive: %w", s.service, err)
	}
	return active, nil
}

func (s *ScreenSaver) Close() error {
	return s.conn.Close()
}

// objectPath maps "org.gnome.ScreenSaver" to "/org/gnome/ScreenSaver".
func objectPath(service string) dbus.ObjectPath {
	return dbus.ObjectPath("/" + strings.ReplaceAll(service, ".", "/"))
}
