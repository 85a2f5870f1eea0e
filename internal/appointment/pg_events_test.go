package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgEventLogInsertEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	ev := EventLog{
		EventType:     EventAppointmentBooked,
		AppointmentID: &id,
		Payload:       []byte(`{"slot":1}`),
		CreatedAt:     time.Now(),
	}

	mock.ExpectExec("INSERT INTO clinic_event_logs").
		WithArgs(EventAppointmentBooked, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewPgEventLog(mock).InsertEvent(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEventLogWrapsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO clinic_event_logs").
		WithArgs(EventAppointmentCanceled, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(dbErr)

	err = NewPgEventLog(mock).InsertEvent(context.Background(), EventLog{EventType: EventAppointmentCanceled})
	require.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "insert event log")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNullableTime(t *testing.T) {
	assert.Nil(t, nullableTime(time.Time{}))
	now := time.Now()
	require.NotNil(t, nullableTime(now))
	assert.True(t, nullableTime(now).Equal(now))
}
