package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// LoggingHandler writes every event to a structured log at info level.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler returns a LoggingHandler writing to logger.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{logger: logger.With(slog.String("component", "progress_log"))}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *ProgressEvent) error {
	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("learner_id", event.LearnerID.String()),
		slog.String("deck_id", event.DeckID.String()),
	}

	if len(event.Payload) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		fields := make([]any, 0, len(payload))
		for k, v := range payload {
			fields = append(fields, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("payload", fields...))
	}

	h.logger.LogAttrs(ctx, slog.LevelInfo, "learner progress", attrs...)
	return nil
}
