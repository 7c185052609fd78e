package gui

import (
	"fyne.io/fyne/v2"
	"github.com/mj1618/scoopick/internal/logger"
)

// Notifier turns log records into desktop notifications.
func Notifier(a fyne.App) logger.Notifier {
	return logger.NotifierFunc(func(title, message string) {
		a.SendNotification(fyne.NewNotification(title, message))
	})
}
