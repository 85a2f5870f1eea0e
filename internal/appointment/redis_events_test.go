package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEventStreamPublishes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	stream := NewRedisEventStream(client, "clinic:events")

	id := uuid.New()
	require.NoError(t, stream.InsertEvent(ctx, EventLog{
		EventType:     EventAppointmentRescheduled,
		AppointmentID: &id,
		Payload:       []byte(`{"from_slot":1}`),
		CreatedAt:     time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, stream.InsertEvent(ctx, EventLog{EventType: EventAppointmentCanceled}))

	msgs, err := client.XRange(ctx, "clinic:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	first := msgs[0].Values
	assert.Equal(t, EventAppointmentRescheduled, first["event_type"])
	assert.Equal(t, id.String(), first["appointment_id"])
	assert.Equal(t, `{"from_slot":1}`, first["payload"])
	assert.Equal(t, "2025-01-15T09:00:00Z", first["created_at"])

	_, hasID := msgs[1].Values["appointment_id"]
	assert.False(t, hasID)
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{err: errors.New("b down")}
	sink := MultiSink{a, b}

	err := sink.InsertEvent(context.Background(), EventLog{EventType: EventAppointmentBooked})
	require.Error(t, err)
	assert.Len(t, a.types(), 1)
	assert.Len(t, b.types(), 1)

	assert.NoError(t, MultiSink{a}.InsertEvent(context.Background(), EventLog{}))
}
