package executor

import (
	"context"
	"log/slog"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
)

// LogNotifier records push notification targets without contacting them.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger discards output.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogNotifier{logger: logger}
}

// Notify implements a2a.Notifier. Tokens and credentials are never logged.
func (n *LogNotifier) Notify(ctx context.Context, target a2a.PushNotificationConfig, result a2a.TaskResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "push notification",
		slog.String("url", target.URL),
		slog.Bool("has_token", target.Token != nil),
		slog.String("task_id", result.ID),
		slog.String("context_id", result.ContextID),
		slog.String("state", result.Status.State),
	)
	return nil
}
