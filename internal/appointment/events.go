package appointment

import (
	"context"
	"errors"
)

const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentCanceled    = "APPOINTMENT_CANCELED"
)

// EventSink receives the audit trail of calendar changes. Sinks never feed
// state back into the engine.
type EventSink interface {
	InsertEvent(ctx context.Context, ev EventLog) error
}

// MultiSink delivers each event to every sink and joins their errors.
type MultiSink []EventSink

func (m MultiSink) InsertEvent(ctx context.Context, ev EventLog) error {
	var errs []error
	for _, sink := range m {
		if err := sink.InsertEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopSink struct{}

func (noopSink) InsertEvent(context.Context, EventLog) error { return nil }
