package portal

import (
	"context"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	desktopBus     = "org.freedesktop.portal.Desktop"
	desktopPath    = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	screenshotCall = "org.freedesktop.portal.Screenshot.Screenshot"
	requestIface   = "org.freedesktop.portal.Request"
)

type dbusSession struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	matches [][]dbus.MatchOption
}

func dialSession() (session, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	s := &dbusSession{conn: conn, signals: make(chan *dbus.Signal, 8)}
	conn.Signal(s.signals)
	return s, nil
}

// requestPath predicts the request handle the portal will create for token.
func requestPath(sender, token string) dbus.ObjectPath {
	sender = strings.ReplaceAll(strings.TrimPrefix(sender, ":"), ".", "_")
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/" + sender + "/" + token)
}

func (s *dbusSession) match(path dbus.ObjectPath) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchMember("Response"),
	}
	if err := s.conn.AddMatchSignal(opts...); err != nil {
		return err
	}
	s.matches = append(s.matches, opts)
	return nil
}

func (s *dbusSession) Watch(token string) (<-chan *dbus.Signal, error) {
	if err := s.match(requestPath(s.conn.Names()[0], token)); err != nil {
		return nil, err
	}
	return s.signals, nil
}

func (s *dbusSession) Screenshot(ctx context.Context, token string) (dbus.ObjectPath, error) {
	options := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(token),
		"interactive":  dbus.MakeVariant(false),
	}
	var handle dbus.ObjectPath
	err := s.conn.Object(desktopBus, desktopPath).
		CallWithContext(ctx, screenshotCall, 0, "", options).
		Store(&handle)
	if err != nil {
		return "", err
	}
	// Older portals ignore handle_token and pick their own path.
	if handle != requestPath(s.conn.Names()[0], token) {
		if err := s.match(handle); err != nil {
			return "", err
		}
	}
	return handle, nil
}

func (s *dbusSession) Close() error {
	for _, m := range s.matches {
		_ = s.conn.RemoveMatchSignal(m...)
	}
	s.conn.RemoveSignal(s.signals)
	return s.conn.Close()
}
