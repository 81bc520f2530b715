package switcher

import (
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Notifier sends user-facing desktop notifications for surfaced errors
type Notifier interface {
	Notify(title string, message string)
}

type desktopNotifier struct {
	logger *zap.SugaredLogger
}

// NewDesktopNotifier creates a beeep-backed Notifier
func NewDesktopNotifier(logger *zap.SugaredLogger) (Notifier, error) {
	logger = logger.Named("notifier")

	return &desktopNotifier{logger: logger}, nil
}

func (n *desktopNotifier) Notify(title string, message string) {
	n.logger.Infow("Sending notification", "title", title, "message", message)

	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Warnw("Failed to send notification", "error", err)
	}
}
