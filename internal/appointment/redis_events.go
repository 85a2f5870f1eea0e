package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisEventStream publishes audit events to a Redis stream for downstream
// consumers such as reminder senders.
type RedisEventStream struct {
	client *redis.Client
	stream string
}

func NewRedisEventStream(client *redis.Client, stream string) *RedisEventStream {
	return &RedisEventStream{client: client, stream: stream}
}

func (s *RedisEventStream) InsertEvent(ctx context.Context, ev EventLog) error {
	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	values := map[string]any{
		"event_type": ev.EventType,
		"payload":    string(ev.Payload),
		"created_at": createdAt.UTC().Format(time.RFC3339Nano),
	}
	if ev.AppointmentID != nil {
		values["appointment_id"] = ev.AppointmentID.String()
	}

	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("publish event to %s: %w", s.stream, err)
	}
	return nil
}
