package storage

import (
	"context"
	"fmt"
)

// Event types written to analytics.script_logs.
const (
	EventTypeEvent   = "event"
	EventTypeWarning = "warning"
	EventTypeError   = "error"
)

// LogEvent appends one row to the shared script event log. Every batch job
// records its outcome here so operators can audit runs without shell access.
func (s *Storage) LogEvent(ctx context.Context, eventType, source, description string) error {
	const operation = "storage.LogEvent"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analytics.script_logs (event_type, event_source, description)
		VALUES ($1, $2, $3)`,
		eventType, source, description)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}
