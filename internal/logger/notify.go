package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Notifier shows a short message to the user, e.g. a desktop notification.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, message string) { f(title, message) }

// NotifyCore forwards records at info level and above to a Notifier. Debug
// records never reach the user.
type NotifyCore struct {
	zapcore.LevelEnabler
	notifier Notifier
	fields   []zapcore.Field
}

// NewNotifyCore returns a core notifying n for records at or above min
// (never below info).
func NewNotifyCore(n Notifier, min zapcore.Level) *NotifyCore {
	if min < zapcore.InfoLevel {
		min = zapcore.InfoLevel
	}
	return &NotifyCore{LevelEnabler: min, notifier: n}
}

// With implements zapcore.Core.
func (c *NotifyCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

// Check implements zapcore.Core.
func (c *NotifyCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write implements zapcore.Core.
func (c *NotifyCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(append(all, c.fields...), fields...)
	c.notifier.Notify(Title(ent.Level), message(ent.Message, all))
	return nil
}

// Sync implements zapcore.Core.
func (c *NotifyCore) Sync() error { return nil }

// Title maps a level to the notification title.
func Title(l zapcore.Level) string {
	switch {
	case l >= zapcore.ErrorLevel:
		return "Error"
	case l >= zapcore.WarnLevel:
		return "Warning"
	default:
		return "Info"
	}
}

// message appends string-valued and error fields so a notification carries
// the path or error it is about.
func message(msg string, fields []zapcore.Field) string {
	var b strings.Builder
	b.WriteString(msg)
	for _, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			b.WriteString(": ")
			b.WriteString(f.String)
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				b.WriteString(": ")
				b.WriteString(err.Error())
			}
		}
	}
	return b.String()
}
