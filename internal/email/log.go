package email

import (
	"context"

	"github.com/nexhub-community/nexhub-api/internal/logging"
	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// LogNotifier writes messages to the log instead of sending them (local development).
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Name() string {
	return "log"
}

func (l *LogNotifier) Notify(ctx context.Context, msg submission.Message) (string, error) {
	id := newMessageID("dev@nexhub.local")
	l.logger.InfoContext(ctx, "email suppressed",
		logging.Recipient(msg.To), logging.MessageID(id), "subject", msg.Subject)
	return id, nil
}
