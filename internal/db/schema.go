package db

import (
	"context"
	"fmt"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
)

const eventLogSchema = `
CREATE TABLE IF NOT EXISTS clinic_event_logs (
	id             BIGSERIAL PRIMARY KEY,
	event_type     TEXT        NOT NULL,
	appointment_id UUID,
	payload        JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS clinic_event_logs_appointment_idx
	ON clinic_event_logs (appointment_id);
`

// EnsureSchema creates the audit tables when they are missing.
func EnsureSchema(ctx context.Context, db appointment.Execer) error {
	if _, err := db.Exec(ctx, eventLogSchema); err != nil {
		return fmt.Errorf("ensure event log schema: %w", err)
	}
	return nil
}
