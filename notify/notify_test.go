package notify

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/lanparty-client/common"
)

type recordedCall struct {
	method string
	args   []interface{}
}

type fakeBus struct {
	calls  []recordedCall
	nextID uint32
	err    error
}

func (b *fakeBus) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	b.calls = append(b.calls, recordedCall{method, args})
	if b.err != nil {
		return &dbus.Call{Err: b.err}
	}
	b.nextID++
	return &dbus.Call{Body: []interface{}{b.nextID}}
}

func TestDesktop_Send(t *testing.T) {
	bus := &fakeBus{}
	d := &Desktop{obj: bus, appName: common.AppName}

	require.NoError(t, d.Notify("Connected", "203.0.113.5 is reachable"))
	require.NoError(t, d.NotifyError("Connection lost", "203.0.113.5 stopped answering"))
	require.Len(t, bus.calls, 2)

	first := bus.calls[0]
	assert.Equal(t, "org.freedesktop.Notifications.Notify", first.method)
	require.Len(t, first.args, 8)
	assert.Equal(t, common.AppName, first.args[0])
	assert.Equal(t, uint32(0), first.args[1])
	assert.Equal(t, "network-vpn", first.args[2])
	assert.Equal(t, "Connected", first.args[3])
	assert.Equal(t, "203.0.113.5 is reachable", first.args[4])
	assert.Equal(t, int32(-1), first.args[7])

	hints := first.args[6].(map[string]dbus.Variant)
	assert.Equal(t, urgencyLow, hints["urgency"].Value())

	// The second notification replaces the first.
	second := bus.calls[1]
	assert.Equal(t, uint32(1), second.args[1])
	assert.Equal(t, "network-vpn-error", second.args[2])
	hints = second.args[6].(map[string]dbus.Variant)
	assert.Equal(t, urgencyCritical, hints["urgency"].Value())
}

func TestDesktop_SendError(t *testing.T) {
	bus := &fakeBus{err: errors.New("org.freedesktop.DBus.Error.ServiceUnknown")}
	d := &Desktop{obj: bus}

	err := d.Notify("Connected", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ServiceUnknown")
	assert.Zero(t, d.lastID)
}

func TestNotification_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		n       Notification
		icon    string
		urgency byte
	}{
		{"info", Notification{Type: NotificationInfo}, "network-vpn", urgencyLow},
		{"success", Notification{Type: NotificationSuccess}, "network-vpn", urgencyLow},
		{"warning", Notification{Type: NotificationWarning}, "dialog-warning", urgencyNormal},
		{"error", Notification{Type: NotificationError}, "network-vpn-error", urgencyCritical},
		{"custom icon", Notification{Type: NotificationError, Icon: "custom"}, "custom", urgencyCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.icon, tt.n.icon())
			assert.Equal(t, tt.urgency, tt.n.urgency())
		})
	}
}

func TestNew_Disabled(t *testing.T) {
	n, closeFn, err := New(false)
	require.NoError(t, err)
	assert.Equal(t, Noop{}, n)
	assert.NoError(t, n.Notify("a", "b"))
	assert.NoError(t, n.NotifyError("a", "b"))
	assert.NoError(t, closeFn())
}
