package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
)

type PatientFields struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
}

type ScheduleAppointmentRequest struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
	PatientFields
	Provider string `json:"provider"`
}

type CancelAppointmentRequest struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
	PatientFields
}

type RescheduleAppointmentRequest struct {
	CancelAppointmentRequest
	NewSlot string `json:"new_slot"`
}

type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Slot      int       `json:"slot"`
	Time      string    `json:"time"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DOB       string    `json:"dob"`
	Provider  string    `json:"provider"`
	Location  string    `json:"location"`
	County    string    `json:"county"`
	Specialty string    `json:"specialty"`
	Status    string    `json:"status"`
	BookedAt  time.Time `json:"booked_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListAppointmentsResponse struct {
	Order        string                `json:"order"`
	Empty        bool                  `json:"empty"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type StatementResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
	Visits    int    `json:"visits"`
	AmountDue int    `json:"amount_due"`
}

type BillingResponse struct {
	Statements []StatementResponse `json:"statements"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(a appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		Date:      a.Date.String(),
		Slot:      int(a.Timeslot),
		Time:      a.Timeslot.String(),
		FirstName: a.Patient.FirstName,
		LastName:  a.Patient.LastName,
		DOB:       a.Patient.DOB.String(),
		Provider:  a.Provider.Name(),
		Location:  a.Provider.Location().City(),
		County:    a.Provider.Location().County(),
		Specialty: a.Provider.Specialty().String(),
		Status:    string(a.Status),
		BookedAt:  a.BookedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
