package appointment

import (
	"errors"
	"fmt"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

var (
	ErrUnknownProvider         = errors.New("provider doesn't exist")
	ErrInvalidTimeslot         = clinic.ErrInvalidTimeslot
	ErrInvalidBirthDate        = errors.New("invalid birth date")
	ErrBirthDateNotPast        = fmt.Errorf("%w: today or a date after today", ErrInvalidBirthDate)
	ErrInvalidAppointmentDate  = errors.New("appointment date is not a valid calendar date")
	ErrDateNotInFuture         = errors.New("appointment date is today or a date before today")
	ErrDateOutOfHorizon        = errors.New("appointment date is not within six months")
	ErrWeekendNotAllowed       = errors.New("appointment date is Saturday or Sunday")
	ErrDuplicatePatientBooking = errors.New("patient has an existing appointment at the same time slot")
	ErrProviderUnavailable     = errors.New("provider is not available at the time slot")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrCalendarEmpty           = errors.New("the schedule calendar is empty")
	ErrCalendarBusy            = errors.New("calendar is being updated, please retry")
	ErrInvalidSortOrder        = errors.New("invalid sort order")
)

// ProviderConflictError names the provider whose slot is already taken.
type ProviderConflictError struct {
	Provider clinic.Provider
	Date     clinic.Date
	Timeslot clinic.Timeslot
}

func (e *ProviderConflictError) Error() string {
	return fmt.Sprintf("[%s] is not available at slot %d on %s", e.Provider, int(e.Timeslot), e.Date)
}

func (e *ProviderConflictError) Unwrap() error { return ErrProviderUnavailable }

// ErrorCode maps err to a stable snake_case code for metrics and API bodies.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownProvider):
		return "unknown_provider"
	case errors.Is(err, ErrInvalidTimeslot):
		return "invalid_timeslot"
	case errors.Is(err, ErrInvalidBirthDate):
		return "invalid_birth_date"
	case errors.Is(err, ErrInvalidAppointmentDate):
		return "invalid_appointment_date"
	case errors.Is(err, ErrDateNotInFuture):
		return "date_not_in_future"
	case errors.Is(err, ErrDateOutOfHorizon):
		return "date_out_of_horizon"
	case errors.Is(err, ErrWeekendNotAllowed):
		return "weekend_not_allowed"
	case errors.Is(err, ErrDuplicatePatientBooking):
		return "duplicate_patient_booking"
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrAppointmentNotFound):
		return "appointment_not_found"
	case errors.Is(err, ErrCalendarEmpty):
		return "calendar_empty"
	case errors.Is(err, ErrCalendarBusy):
		return "calendar_busy"
	case errors.Is(err, ErrInvalidSortOrder):
		return "invalid_sort_order"
	default:
		return "internal_error"
	}
}
