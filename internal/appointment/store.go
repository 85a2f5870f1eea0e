package appointment

import (
	"cmp"
	"slices"
	"strings"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

// storeGrowth is the fixed number of slots added when the store is full.
const storeGrowth = 4

// Store holds the active appointments in insertion order. No two entries
// share a (date, timeslot, patient) key. Store is not safe for concurrent
// use; Service serializes access to it.
type Store struct {
	appointments []*Appointment
}

func NewStore() *Store {
	return &Store{appointments: make([]*Appointment, 0, storeGrowth)}
}

func (s *Store) Len() int { return len(s.appointments) }

func (s *Store) Cap() int { return cap(s.appointments) }

// Add appends a. It fails with ErrDuplicatePatientBooking when a booking
// with the same key is already present.
func (s *Store) Add(a *Appointment) error {
	if s.indexOf(a.Date, a.Timeslot, a.Patient) >= 0 {
		return ErrDuplicatePatientBooking
	}
	if len(s.appointments) == cap(s.appointments) {
		grown := make([]*Appointment, len(s.appointments), cap(s.appointments)+storeGrowth)
		copy(grown, s.appointments)
		s.appointments = grown
	}
	s.appointments = append(s.appointments, a)
	return nil
}

// Remove deletes the entry with a's booking key, keeping the relative order
// of the rest. It reports whether anything was removed.
func (s *Store) Remove(a *Appointment) bool {
	i := s.indexOf(a.Date, a.Timeslot, a.Patient)
	if i < 0 {
		return false
	}
	s.appointments = slices.Delete(s.appointments, i, i+1)
	return true
}

// Find returns the appointment holding (date, slot, patient), or nil.
func (s *Store) Find(date clinic.Date, slot clinic.Timeslot, patient clinic.Profile) *Appointment {
	if i := s.indexOf(date, slot, patient); i >= 0 {
		return s.appointments[i]
	}
	return nil
}

func (s *Store) Contains(a *Appointment) bool {
	return s.indexOf(a.Date, a.Timeslot, a.Patient) >= 0
}

// ProviderConflict returns an appointment other than exclude that books
// provider at (date, slot), or nil.
func (s *Store) ProviderConflict(date clinic.Date, slot clinic.Timeslot, provider clinic.Provider, exclude *Appointment) *Appointment {
	for _, a := range s.appointments {
		if a == exclude {
			continue
		}
		if a.Date == date && a.Timeslot == slot && a.Provider == provider {
			return a
		}
	}
	return nil
}

// All returns the appointments in insertion order.
func (s *Store) All() []*Appointment {
	return slices.Clone(s.appointments)
}

// Sorted returns a stably sorted copy. Storage order is not affected.
func (s *Store) Sorted(order SortOrder) ([]*Appointment, error) {
	var less func(a, b *Appointment) int
	switch order {
	case ByAppointment:
		less = compareByAppointment
	case ByPatient:
		less = compareByPatient
	case ByLocation:
		less = compareByLocation
	default:
		return nil, ErrInvalidSortOrder
	}

	out := slices.Clone(s.appointments)
	slices.SortStableFunc(out, less)
	return out, nil
}

func (s *Store) indexOf(date clinic.Date, slot clinic.Timeslot, patient clinic.Profile) int {
	for i, a := range s.appointments {
		if a.Matches(date, slot, patient) {
			return i
		}
	}
	return -1
}

func compareByAppointment(a, b *Appointment) int {
	return cmp.Or(
		a.Date.Compare(b.Date),
		cmp.Compare(a.Timeslot, b.Timeslot),
		strings.Compare(a.Provider.Name(), b.Provider.Name()),
	)
}

func compareByPatient(a, b *Appointment) int {
	return cmp.Or(
		a.Patient.Compare(b.Patient),
		a.Date.Compare(b.Date),
		cmp.Compare(a.Timeslot, b.Timeslot),
	)
}

// Two providers can share a county, so ties here keep insertion order.
func compareByLocation(a, b *Appointment) int {
	return cmp.Or(
		strings.Compare(a.Provider.Location().County(), b.Provider.Location().County()),
		a.Date.Compare(b.Date),
		cmp.Compare(a.Timeslot, b.Timeslot),
	)
}
