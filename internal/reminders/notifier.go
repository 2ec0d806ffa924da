package reminders

import (
	"context"

	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

// LogNotifier delivers summaries to the structured log. The mobile client
// tails this stream for its in-app notification center; there is no push
// gateway on the backend side.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logg *logger.Logger) (*LogNotifier, error) {
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &LogNotifier{logg: logg}, nil
}

// Deliver implements Notifier.
func (n *LogNotifier) Deliver(ctx context.Context, summary Summary) error {
	ctx = n.logg.WithFields(ctx, map[string]any{
		"channel":      summary.Channel,
		"urgent_count": summary.UrgentCount,
		"reminders":    len(summary.Reminders),
		"generated_at": summary.GeneratedAt,
	})
	n.logg.Info(ctx, "reminder summary")
	for _, reminder := range summary.Reminders {
		entry := n.logg.WithFields(ctx, map[string]any{
			"kind":     reminder.Kind,
			"priority": reminder.Priority,
			"item":     reminder.ItemName,
			"reason":   reminder.Reason,
		})
		n.logg.Info(entry, "reminder")
	}
	return nil
}
