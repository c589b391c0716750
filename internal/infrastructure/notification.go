package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/fetchbar/internal/domain"
	"go.uber.org/zap"
)

// NotificationService sends desktop notifications when transfers finish
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	var err error
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		err = n.run("osascript", "-e", script)
	case "notify-send":
		err = n.run("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))
	return nil
}

// NotifyTransferFinished reports the terminal state of a transfer
func (n *NotificationService) NotifyTransferFinished(transfer *domain.Transfer) {
	title := "Download finished"
	message := fmt.Sprintf("%s (%s)", transfer.URL, transfer.Strategy)
	if transfer.Status != domain.StatusCompleted {
		title = "Download " + string(transfer.Status)
		message = transfer.Message
	}
	_ = n.Send(title, message)
}
