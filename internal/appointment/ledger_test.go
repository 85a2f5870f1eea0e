package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

func TestPatientRecordVisits(t *testing.T) {
	l := NewLedger()
	rec := l.Record(john)
	d := clinic.NewDate(2025, 6, 16)

	first := newAppt(d, 1, john, clinic.Patel)
	second := newAppt(d, 2, john, clinic.Kaur)

	assert.True(t, rec.AddVisit(first))
	assert.False(t, rec.AddVisit(newAppt(d, 1, john, clinic.Patel)), "same booking is not added twice")
	assert.True(t, rec.AddVisit(second))
	assert.Equal(t, 250+350, rec.Charge())

	visits := rec.Visits()
	require.Len(t, visits, 2)
	assert.Same(t, first, visits[0].Appointment)
	assert.Same(t, second, visits[1].Appointment)

	assert.True(t, rec.RemoveVisit(first))
	assert.False(t, rec.RemoveVisit(first))
	assert.Equal(t, 350, rec.Charge())

	// Record returns the existing entry.
	assert.Same(t, rec, l.Record(john))
	assert.Equal(t, 1, l.Len())
}

func TestLedgerStatements(t *testing.T) {
	l := NewLedger()
	d := clinic.NewDate(2025, 6, 16)

	l.Record(john).AddVisit(newAppt(d, 1, john, clinic.Patel))
	l.Record(john).AddVisit(newAppt(d, 2, john, clinic.Lim))
	l.Record(ann).AddVisit(newAppt(d, 1, ann, clinic.Kaur))

	canceled := newAppt(d, 3, jane, clinic.Taylor)
	l.Record(jane).AddVisit(canceled)
	l.Record(jane).RemoveVisit(canceled)

	got := l.Statements()
	assert.Equal(t, []Statement{
		{Patient: ann, Visits: 1, Charge: 350},
		{Patient: john, Visits: 2, Charge: 550},
	}, got)
	assert.Equal(t, 3, l.Len(), "patients without visits keep their entry")
}
