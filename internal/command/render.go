package command

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

func scheduleError(err error, req appointment.ScheduleRequest, slotToken string) string {
	patient := clinic.NewProfile(req.FirstName, req.LastName, req.DOB)

	var conflict *appointment.ProviderConflictError
	switch {
	case errors.Is(err, appointment.ErrUnknownProvider):
		return fmt.Sprintf("%s - provider doesn't exist.", req.Provider)
	case errors.Is(err, appointment.ErrInvalidTimeslot):
		return fmt.Sprintf("%s is not a valid time slot.", slotToken)
	case errors.Is(err, appointment.ErrBirthDateNotPast):
		return fmt.Sprintf("Patient dob: %s is today or a date after today.", req.DOB)
	case errors.Is(err, appointment.ErrInvalidBirthDate):
		return fmt.Sprintf("Patient dob: %s is not a valid calendar date.", req.DOB)
	case errors.Is(err, appointment.ErrInvalidAppointmentDate):
		return fmt.Sprintf("Appointment date: %s is not a valid calendar date.", req.Date)
	case errors.Is(err, appointment.ErrDateNotInFuture):
		return fmt.Sprintf("Appointment date: %s is today or a date before today.", req.Date)
	case errors.Is(err, appointment.ErrDateOutOfHorizon):
		return fmt.Sprintf("Appointment date: %s is not within six months.", req.Date)
	case errors.Is(err, appointment.ErrWeekendNotAllowed):
		return fmt.Sprintf("Appointment date: %s is Saturday or Sunday.", req.Date)
	case errors.Is(err, appointment.ErrDuplicatePatientBooking):
		return fmt.Sprintf("%s has an existing appointment at the same time slot.", patient)
	case errors.As(err, &conflict):
		return fmt.Sprintf("[%s] is not available at slot %s.", conflict.Provider, slotToken)
	default:
		return engineError(err)
	}
}

func lookupError(err error, req appointment.CancelRequest, slot clinic.Timeslot) string {
	if errors.Is(err, appointment.ErrAppointmentNotFound) {
		patient := clinic.NewProfile(req.FirstName, req.LastName, req.DOB)
		return fmt.Sprintf("%s %s %s does not exist.", req.Date, slot, patient)
	}
	return engineError(err)
}

func rescheduleError(err error, req appointment.CancelRequest, slot clinic.Timeslot, newSlotToken string) string {
	patient := clinic.NewProfile(req.FirstName, req.LastName, req.DOB)

	var conflict *appointment.ProviderConflictError
	switch {
	case errors.Is(err, appointment.ErrInvalidTimeslot):
		return fmt.Sprintf("%s is not a valid time slot.", newSlotToken)
	case errors.As(err, &conflict):
		return fmt.Sprintf("[%s] is not available at slot %s.", conflict.Provider, newSlotToken)
	case errors.Is(err, appointment.ErrDuplicatePatientBooking):
		return fmt.Sprintf("%s has an existing appointment at the same time slot.", patient)
	default:
		return lookupError(err, req, slot)
	}
}

func engineError(err error) string {
	if errors.Is(err, appointment.ErrCalendarBusy) {
		return "The schedule calendar is busy, please retry."
	}
	log.Error().Err(err).Msg("command failed")
	return fmt.Sprintf("Unable to process command: %v", err)
}
