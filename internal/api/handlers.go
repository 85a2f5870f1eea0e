package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/clinic"
	"github.com/hackgods/clinic-scheduling/internal/command"
)

const maxCommandBody = 64 << 10

func scheduleAppointmentHandler(svc command.Scheduler, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScheduleAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, dob, ok := parseRequestDates(w, req.Date, req.DOB)
		if !ok {
			return
		}

		appt, err := svc.Schedule(r.Context(), appointment.ScheduleRequest{
			Date:      date,
			Slot:      req.Slot,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			DOB:       dob,
			Provider:  req.Provider,
		}, clinic.DateOf(now()))
		if err != nil {
			handleEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(*appt))
	}
}

func cancelAppointmentHandler(svc command.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CancelAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		lookup, ok := toCancelRequest(w, req)
		if !ok {
			return
		}

		appt, err := svc.Cancel(r.Context(), lookup)
		if err != nil {
			handleEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

func rescheduleAppointmentHandler(svc command.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RescheduleAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		lookup, ok := toCancelRequest(w, req.CancelAppointmentRequest)
		if !ok {
			return
		}

		appt, err := svc.Reschedule(r.Context(), appointment.RescheduleRequest{
			CancelRequest: lookup,
			NewSlot:       req.NewSlot,
		})
		if err != nil {
			handleEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

func listAppointmentsHandler(svc command.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderParam := r.URL.Query().Get("order")
		if orderParam == "" {
			orderParam = appointment.ByAppointment.String()
		}
		order, err := appointment.ParseSortOrder(orderParam)
		if err != nil {
			handleEngineError(w, err)
			return
		}

		resp := ListAppointmentsResponse{
			Order:        order.String(),
			Appointments: []AppointmentResponse{},
		}

		appts, err := svc.List(r.Context(), order)
		switch {
		case errors.Is(err, appointment.ErrCalendarEmpty):
			resp.Empty = true
		case err != nil:
			handleEngineError(w, err)
			return
		}

		for _, a := range appts {
			resp.Appointments = append(resp.Appointments, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func billingHandler(svc command.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statements, err := svc.Bill(r.Context())
		if err != nil {
			handleEngineError(w, err)
			return
		}

		resp := BillingResponse{Statements: make([]StatementResponse, 0, len(statements))}
		for _, st := range statements {
			resp.Statements = append(resp.Statements, StatementResponse{
				FirstName: st.Patient.FirstName,
				LastName:  st.Patient.LastName,
				DOB:       st.Patient.DOB.String(),
				Visits:    st.Visits,
				AmountDue: st.Charge,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// commandsHandler runs a text/plain body of command lines and returns the
// console output. The body is read in full before any line runs, so an
// oversize request changes nothing.
func commandsHandler(svc command.Scheduler, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "command_body_too_large",
					fmt.Sprintf("command body exceeds %d bytes", tooLarge.Limit))
				return
			}
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not read body")
			return
		}

		var out bytes.Buffer
		proc := command.NewProcessor(svc, &out, now)
		if _, err := proc.Exec(r.Context(), bytes.NewReader(body)); err != nil {
			// Only a cancelled request stops Exec early; the client is gone.
			log.Warn().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("command stream aborted")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out.Bytes())
	}
}

func parseRequestDates(w http.ResponseWriter, dateText, dobText string) (clinic.Date, clinic.Date, bool) {
	date, err := clinic.ParseDate(dateText)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be in M/D/Y form")
		return clinic.Date{}, clinic.Date{}, false
	}
	dob, err := clinic.ParseDate(dobText)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_dob", "dob must be in M/D/Y form")
		return clinic.Date{}, clinic.Date{}, false
	}
	return date, dob, true
}

func toCancelRequest(w http.ResponseWriter, req CancelAppointmentRequest) (appointment.CancelRequest, bool) {
	date, dob, ok := parseRequestDates(w, req.Date, req.DOB)
	if !ok {
		return appointment.CancelRequest{}, false
	}
	return appointment.CancelRequest{
		Date:      date,
		Slot:      req.Slot,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       dob,
	}, true
}

func handleEngineError(w http.ResponseWriter, err error) {
	code := appointment.ErrorCode(err)
	switch {
	case errors.Is(err, appointment.ErrUnknownProvider),
		errors.Is(err, appointment.ErrInvalidTimeslot),
		errors.Is(err, appointment.ErrInvalidBirthDate),
		errors.Is(err, appointment.ErrInvalidAppointmentDate),
		errors.Is(err, appointment.ErrInvalidSortOrder):
		writeError(w, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, appointment.ErrDateNotInFuture),
		errors.Is(err, appointment.ErrDateOutOfHorizon),
		errors.Is(err, appointment.ErrWeekendNotAllowed):
		writeError(w, http.StatusUnprocessableEntity, code, err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, code, err.Error())
	case errors.Is(err, appointment.ErrDuplicatePatientBooking),
		errors.Is(err, appointment.ErrProviderUnavailable),
		errors.Is(err, appointment.ErrCalendarBusy):
		writeError(w, http.StatusConflict, code, err.Error())
	default:
		log.Error().Err(err).Msg("unhandled scheduler error")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
