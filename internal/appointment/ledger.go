package appointment

import (
	"slices"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

// Visit binds a booked appointment into a patient's history.
type Visit struct {
	Appointment *Appointment
}

// PatientRecord is one patient's ordered visit history.
type PatientRecord struct {
	Profile clinic.Profile
	visits  []Visit
}

// AddVisit appends a visit for a unless one for the same booking exists.
func (r *PatientRecord) AddVisit(a *Appointment) bool {
	if r.indexOf(a) >= 0 {
		return false
	}
	r.visits = append(r.visits, Visit{Appointment: a})
	return true
}

func (r *PatientRecord) RemoveVisit(a *Appointment) bool {
	i := r.indexOf(a)
	if i < 0 {
		return false
	}
	r.visits = slices.Delete(r.visits, i, i+1)
	return true
}

func (r *PatientRecord) Visits() []Visit {
	return slices.Clone(r.visits)
}

// Charge sums the specialty fee of every visit, in whole dollars.
func (r *PatientRecord) Charge() int {
	total := 0
	for _, v := range r.visits {
		total += v.Appointment.Provider.Specialty().Charge()
	}
	return total
}

func (r *PatientRecord) indexOf(a *Appointment) int {
	for i, v := range r.visits {
		if v.Appointment.SameBooking(a) {
			return i
		}
	}
	return -1
}

// Ledger maps each patient profile ever seen to its visit history.
type Ledger struct {
	records map[clinic.Profile]*PatientRecord
}

func NewLedger() *Ledger {
	return &Ledger{records: make(map[clinic.Profile]*PatientRecord)}
}

// Record returns the patient's record, creating an empty one on first sight.
func (l *Ledger) Record(profile clinic.Profile) *PatientRecord {
	rec, ok := l.records[profile]
	if !ok {
		rec = &PatientRecord{Profile: profile}
		l.records[profile] = rec
	}
	return rec
}

func (l *Ledger) Lookup(profile clinic.Profile) (*PatientRecord, bool) {
	rec, ok := l.records[profile]
	return rec, ok
}

func (l *Ledger) Len() int { return len(l.records) }

// Statements returns a billing line for every patient with at least one
// visit, ordered by profile.
func (l *Ledger) Statements() []Statement {
	out := make([]Statement, 0, len(l.records))
	for _, rec := range l.records {
		if len(rec.visits) == 0 {
			continue
		}
		out = append(out, Statement{
			Patient: rec.Profile,
			Visits:  len(rec.visits),
			Charge:  rec.Charge(),
		})
	}
	slices.SortFunc(out, func(a, b Statement) int {
		return a.Patient.Compare(b.Patient)
	})
	return out
}
