// Package ui provides the graphical user interface for AI Wrapper.
// This file contains desktop notifications sent over the session bus.
package ui

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/yllada/ai-wrapper/common"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall  = notifyDest + ".Notify"
	notifyMilli = int32(5000)
)

// NotificationType selects the default icon and urgency.
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationSuccess
	NotificationError
)

// urgency hint values of the notification protocol.
const (
	urgencyLow      byte = 0
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

// BusNotifier sends notifications through org.freedesktop.Notifications.
// It implements common.Notifier.
type BusNotifier struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

var _ common.Notifier = (*BusNotifier)(nil)

// NewBusNotifier returns a notifier that connects lazily on first use.
func NewBusNotifier() *BusNotifier {
	return &BusNotifier{}
}

func (n *BusNotifier) connection() (*dbus.Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil && n.conn.Connected() {
		return n.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	n.conn = conn
	return conn, nil
}

// Notify sends an informational notification.
func (n *BusNotifier) Notify(title, message string) error {
	return n.send(title, message, "", NotificationInfo)
}

// NotifyWithIcon sends a notification with a themed icon name.
func (n *BusNotifier) NotifyWithIcon(title, message, icon string) error {
	return n.send(title, message, icon, NotificationInfo)
}

func (n *BusNotifier) send(title, message, icon string, kind NotificationType) error {
	conn, err := n.connection()
	if err != nil {
		return err
	}

	if icon == "" {
		switch kind {
		case NotificationSuccess:
			icon = "emblem-ok-symbolic"
		case NotificationError:
			icon = "dialog-error"
		default:
			icon = common.BinaryName
		}
	}

	urgency := urgencyLow
	if kind == NotificationError {
		urgency = urgencyCritical
	} else if kind == NotificationSuccess {
		urgency = urgencyNormal
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}

	obj := conn.Object(notifyDest, notifyPath)
	call := obj.Call(notifyCall, 0,
		common.AppName, uint32(0), icon, title, message,
		[]string{}, hints, notifyMilli)
	return call.Err
}

// Close releases the bus connection.
func (n *BusNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
}

var defaultNotifier = NewBusNotifier()

// ShowNotification sends a notification and logs failures.
func ShowNotification(title, message string, kind NotificationType) {
	if err := defaultNotifier.send(title, message, "", kind); err != nil {
		common.LogWarn("Error showing notification: %v", err)
	}
}

// NotifySuccess reports a completed action.
func NotifySuccess(title, message string) {
	ShowNotification(title, message, NotificationSuccess)
}

// NotifyError reports a failed action.
func NotifyError(title, message string) {
	ShowNotification(title, message, NotificationError)
}
