package appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
)

func TestCalendarLockKeyIsPerInstance(t *testing.T) {
	a := NewService(nil, nil, nil)
	b := NewService(nil, nil, nil)

	assert.True(t, strings.HasPrefix(a.lockKey, calendarLockKey+":"))
	assert.NotEqual(t, a.lockKey, b.lockKey)
}

func TestServicesSharingRedisDoNotBlockEachOther(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := redisclient.NewRedisLocker(client, 5*time.Second)
	console := NewService(locker, nil, nil)
	api := NewService(locker, nil, nil)

	// console is mid-operation and holds its calendar lock.
	require.NoError(t, mr.Set("lock:"+console.lockKey, "held"))

	_, err := console.Schedule(context.Background(), johnRequest(t, "6/16/2025", "1", "patel"), today)
	assert.ErrorIs(t, err, ErrCalendarBusy)

	appt, err := api.Schedule(context.Background(), johnRequest(t, "6/16/2025", "1", "patel"), today)
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, appt.Status)
	assert.False(t, mr.Exists("lock:"+api.lockKey))
}
