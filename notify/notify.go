// Package notify delivers desktop notifications for link state changes.
package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/lanparty-client/common"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall = busName + ".Notify"
)

// NotificationType represents the type of notification.
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationSuccess
	NotificationWarning
	NotificationError
)

// Notification is one desktop notification.
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	Icon    string
}

// urgency levels defined by the notification specification.
const (
	urgencyLow      byte = 0
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

func (n Notification) icon() string {
	if n.Icon != "" {
		return n.Icon
	}
	switch n.Type {
	case NotificationWarning:
		return "dialog-warning"
	case NotificationError:
		return "network-vpn-error"
	default:
		return "network-vpn"
	}
}

func (n Notification) urgency() byte {
	switch n.Type {
	case NotificationError:
		return urgencyCritical
	case NotificationWarning:
		return urgencyNormal
	default:
		return urgencyLow
	}
}

// caller is the subset of dbus.BusObject used here.
type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Desktop sends notifications over the session bus. Each notification
// replaces the previous one so a flapping link does not pile them up.
type Desktop struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	obj     caller
	appName string
	lastID  uint32
}

// NewDesktop connects to the session bus.
func NewDesktop() (*Desktop, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, common.WrapError(err, "failed to connect to session bus")
	}
	return &Desktop{
		conn:    conn,
		obj:     conn.Object(busName, objectPath),
		appName: common.AppName,
	}, nil
}

// Notify sends an informational notification.
func (d *Desktop) Notify(title, message string) error {
	return d.Send(Notification{Title: title, Message: message, Type: NotificationSuccess})
}

// NotifyError sends a critical notification.
func (d *Desktop) NotifyError(title, message string) error {
	return d.Send(Notification{Title: title, Message: message, Type: NotificationError})
}

// Send delivers n.
func (d *Desktop) Send(n Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(n.urgency()),
	}
	call := d.obj.Call(notifyCall, 0,
		d.appName,
		d.lastID,
		n.icon(),
		n.Title,
		n.Message,
		[]string{},
		hints,
		int32(-1),
	)
	if call.Err != nil {
		return fmt.Errorf("notification %q: %w", n.Title, call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notification %q: %w", n.Title, err)
	}
	d.lastID = id
	return nil
}

// Close releases the bus connection.
func (d *Desktop) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// Noop discards notifications.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(string, string) error { return nil }

// NotifyError does nothing.
func (Noop) NotifyError(string, string) error { return nil }

// New returns a Desktop notifier when enabled and the session bus is
// reachable, and Noop otherwise. The error explains a fallback.
func New(enabled bool) (common.Notifier, func() error, error) {
	if !enabled {
		return Noop{}, func() error { return nil }, nil
	}
	d, err := NewDesktop()
	if err != nil {
		return Noop{}, func() error { return nil }, err
	}
	return d, d.Close, nil
}
