package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
	"github.com/hackgods/clinic-scheduling/internal/observability/metrics"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
)

const (
	// calendarLockKey prefixes the lock guarding the whole calendar: every
	// operation is one critical section. The calendar lives in process
	// memory, so each Service appends its own instance ID.
	calendarLockKey = "clinic:calendar"

	// horizonMonths is how far ahead of today a booking may be made.
	horizonMonths = 6
)

type ScheduleRequest struct {
	Date      clinic.Date
	Slot      string
	FirstName string
	LastName  string
	DOB       clinic.Date
	Provider  string
}

// CancelRequest identifies an existing booking.
type CancelRequest struct {
	Date      clinic.Date
	Slot      string
	FirstName string
	LastName  string
	DOB       clinic.Date
}

type RescheduleRequest struct {
	CancelRequest
	NewSlot string
}

type Service struct {
	lockKey string
	store   *Store
	ledger  *Ledger
	locker  redisclient.Locker
	events  EventSink
	metrics *metrics.SchedulerMetrics
}

// NewService wires the engine. A nil locker falls back to an in-process
// mutex; nil events and metrics disable those sinks.
func NewService(locker redisclient.Locker, events EventSink, m *metrics.SchedulerMetrics) *Service {
	if locker == nil {
		locker = redisclient.NewLocalLocker()
	}
	if events == nil {
		events = noopSink{}
	}
	return &Service{
		lockKey: calendarLockKey + ":" + uuid.NewString(),
		store:   NewStore(),
		ledger:  NewLedger(),
		locker:  locker,
		events:  events,
		metrics: m,
	}
}

// Schedule books a new appointment. today is the caller's current date; the
// checks run in a fixed order and the first failure is returned.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest, today clinic.Date) (*Appointment, error) {
	start := time.Now()
	var booked Appointment

	err := s.withCalendar(ctx, func(ctx context.Context) error {
		provider, slot, err := validateSchedule(req, today)
		if err != nil {
			return err
		}

		patient := clinic.NewProfile(req.FirstName, req.LastName, req.DOB)
		if s.store.Find(req.Date, slot, patient) != nil {
			return ErrDuplicatePatientBooking
		}
		if s.store.ProviderConflict(req.Date, slot, provider, nil) != nil {
			return &ProviderConflictError{Provider: provider, Date: req.Date, Timeslot: slot}
		}

		now := time.Now()
		appt := &Appointment{
			ID:        uuid.New(),
			Date:      req.Date,
			Timeslot:  slot,
			Patient:   patient,
			Provider:  provider,
			Status:    StatusBooked,
			BookedAt:  now,
			UpdatedAt: now,
		}
		if err := s.store.Add(appt); err != nil {
			return err
		}
		s.ledger.Record(patient).AddVisit(appt)

		booked = *appt
		s.logEvent(ctx, appt, EventAppointmentBooked, nil)
		return nil
	})

	s.observe("schedule", start, err)
	if err != nil {
		return nil, err
	}
	return &booked, nil
}

// validateSchedule applies the booking rules that need no calendar state.
func validateSchedule(req ScheduleRequest, today clinic.Date) (clinic.Provider, clinic.Timeslot, error) {
	provider, ok := clinic.LookupProvider(req.Provider)
	if !ok {
		return 0, 0, ErrUnknownProvider
	}

	slot, err := clinic.ParseTimeslot(req.Slot)
	if err != nil {
		return 0, 0, err
	}

	if !req.DOB.IsValid() {
		return 0, 0, ErrInvalidBirthDate
	}
	if !req.DOB.Before(today) {
		return 0, 0, ErrBirthDateNotPast
	}

	if !req.Date.IsValid() {
		return 0, 0, ErrInvalidAppointmentDate
	}
	if !req.Date.After(today) {
		return 0, 0, ErrDateNotInFuture
	}
	if req.Date.After(today.AddMonths(horizonMonths)) {
		return 0, 0, ErrDateOutOfHorizon
	}
	if req.Date.IsWeekend() {
		return 0, 0, ErrWeekendNotAllowed
	}

	return provider, slot, nil
}

// Cancel removes a booking from the calendar and the patient's visit history.
// Date rules are not checked; the booking only has to exist.
func (s *Service) Cancel(ctx context.Context, req CancelRequest) (*Appointment, error) {
	start := time.Now()
	var canceled Appointment

	err := s.withCalendar(ctx, func(ctx context.Context) error {
		appt, err := s.find(req)
		if err != nil {
			return err
		}

		if rec, ok := s.ledger.Lookup(appt.Patient); ok {
			rec.RemoveVisit(appt)
		}
		s.store.Remove(appt)

		appt.Status = StatusCanceled
		appt.UpdatedAt = time.Now()
		canceled = *appt
		s.logEvent(ctx, appt, EventAppointmentCanceled, nil)
		return nil
	})

	s.observe("cancel", start, err)
	if err != nil {
		return nil, err
	}
	return &canceled, nil
}

// Reschedule moves a booking to another slot on the same day with the same
// provider. Only slot conflicts are re-checked.
func (s *Service) Reschedule(ctx context.Context, req RescheduleRequest) (*Appointment, error) {
	start := time.Now()
	var moved Appointment

	err := s.withCalendar(ctx, func(ctx context.Context) error {
		appt, err := s.find(req.CancelRequest)
		if err != nil {
			return err
		}

		newSlot, err := clinic.ParseTimeslot(req.NewSlot)
		if err != nil {
			return err
		}

		if s.store.ProviderConflict(appt.Date, newSlot, appt.Provider, appt) != nil {
			return &ProviderConflictError{Provider: appt.Provider, Date: appt.Date, Timeslot: newSlot}
		}
		if other := s.store.Find(appt.Date, newSlot, appt.Patient); other != nil && other != appt {
			return ErrDuplicatePatientBooking
		}

		fromSlot := appt.Timeslot
		appt.Timeslot = newSlot
		appt.UpdatedAt = time.Now()

		moved = *appt
		s.logEvent(ctx, appt, EventAppointmentRescheduled, map[string]any{
			"from_slot": int(fromSlot),
		})
		return nil
	})

	s.observe("reschedule", start, err)
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// List returns every active appointment in the requested order, or
// ErrCalendarEmpty when there are none.
func (s *Service) List(ctx context.Context, order SortOrder) ([]Appointment, error) {
	start := time.Now()
	var out []Appointment

	err := s.withCalendar(ctx, func(ctx context.Context) error {
		sorted, err := s.store.Sorted(order)
		if err != nil {
			return err
		}
		if len(sorted) == 0 {
			return ErrCalendarEmpty
		}
		out = make([]Appointment, len(sorted))
		for i, a := range sorted {
			out[i] = *a
		}
		return nil
	})

	s.observe("list", start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Bill returns a statement per patient with remaining visits, ordered by
// patient profile. It does not change the ledger.
func (s *Service) Bill(ctx context.Context) ([]Statement, error) {
	start := time.Now()
	var out []Statement

	err := s.withCalendar(ctx, func(ctx context.Context) error {
		out = s.ledger.Statements()
		return nil
	})

	s.observe("bill", start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) find(req CancelRequest) (*Appointment, error) {
	slot, err := clinic.ParseTimeslot(req.Slot)
	if err != nil {
		return nil, err
	}

	patient := clinic.NewProfile(req.FirstName, req.LastName, req.DOB)
	appt := s.store.Find(req.Date, slot, patient)
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *Service) withCalendar(ctx context.Context, fn func(ctx context.Context) error) error {
	err := s.locker.WithLock(ctx, s.lockKey, fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrCalendarBusy
	}
	return err
}

func (s *Service) observe(op string, start time.Time, err error) {
	outcome := ErrorCode(err)
	s.metrics.ObserveOperation(op, outcome, time.Since(start).Seconds())

	log.Debug().
		Str("op", op).
		Str("outcome", outcome).
		Dur("took", time.Since(start)).
		Msg("scheduler operation")
}

// logEvent runs under the calendar lock, so reading the store size here is safe.
func (s *Service) logEvent(ctx context.Context, appt *Appointment, eventType string, extra map[string]any) {
	s.metrics.SetActiveAppointments(s.store.Len())

	payload := map[string]any{
		"date":     appt.Date.String(),
		"slot":     int(appt.Timeslot),
		"patient":  appt.Patient.String(),
		"provider": appt.Provider.Name(),
		"status":   string(appt.Status),
	}
	for k, v := range extra {
		payload[k] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	apptID := appt.ID
	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.events.InsertEvent(ctx, ev); err != nil {
		log.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("appointment_id", appt.ID.String()).
			Msg("failed to record event")
	}
}
