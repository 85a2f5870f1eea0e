package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

type AppointmentStatus string

const (
	StatusBooked   AppointmentStatus = "booked"
	StatusCanceled AppointmentStatus = "canceled"
)

// Appointment is one booking on the calendar. Only Timeslot changes after
// creation (by Reschedule); the other booking fields are fixed.
type Appointment struct {
	ID        uuid.UUID
	Date      clinic.Date
	Timeslot  clinic.Timeslot
	Patient   clinic.Profile
	Provider  clinic.Provider
	Status    AppointmentStatus
	BookedAt  time.Time
	UpdatedAt time.Time
}

// Matches reports whether a holds the booking key (date, slot, patient).
// Provider is deliberately not part of the key.
func (a *Appointment) Matches(date clinic.Date, slot clinic.Timeslot, patient clinic.Profile) bool {
	return a.Date == date && a.Timeslot == slot && a.Patient == patient
}

func (a *Appointment) SameBooking(other *Appointment) bool {
	return a.Matches(other.Date, other.Timeslot, other.Patient)
}

func (a Appointment) String() string {
	return fmt.Sprintf("%s %s %s [%s]", a.Date, a.Timeslot, a.Patient, a.Provider)
}

type SortOrder int

const (
	ByAppointment SortOrder = iota + 1
	ByPatient
	ByLocation
)

var sortOrderNames = map[SortOrder]string{
	ByAppointment: "appointment",
	ByPatient:     "patient",
	ByLocation:    "location",
}

func ParseSortOrder(s string) (SortOrder, error) {
	for order, name := range sortOrderNames {
		if name == s {
			return order, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
}

func (o SortOrder) String() string {
	if name, ok := sortOrderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("SortOrder(%d)", int(o))
}

// Statement is one patient's billing line.
type Statement struct {
	Patient clinic.Profile
	Visits  int
	Charge  int
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
