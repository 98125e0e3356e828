package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/armonia-platform/pqr-service/internal/config"
	"github.com/armonia-platform/pqr-service/internal/domain"
)

// logNotifier logs instead of delivering. Messages without a destination
// address fail, which keeps the audit log honest about unreachable users.
type logNotifier struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewLogNotifier builds the stub transport used outside production.
func NewLogNotifier(logger *zap.Logger, cfg config.NotificationConfig) Notifier {
	return &logNotifier{logger: logger, cfg: cfg}
}

func (n *logNotifier) Send(ctx context.Context, channel domain.Channel, address, subject, body string) SendResult {
	if address == "" {
		return SendResult{Success: false, Error: "no address for channel " + string(channel)}
	}
	n.logger.Debug("notification sent",
		zap.String("channel", string(channel)),
		zap.String("from", n.fromFor(channel)),
		zap.String("to", address),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)))
	return SendResult{Success: true}
}

func (n *logNotifier) fromFor(channel domain.Channel) string {
	switch channel {
	case domain.ChannelSMS:
		return n.cfg.SMSFrom
	default:
		return n.cfg.EmailFrom
	}
}
