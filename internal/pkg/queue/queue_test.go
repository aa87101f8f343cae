package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueue(t *testing.T) *Queue {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewQueue(client, "test_notify_queue")
}

func TestQueue_PushPop(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	msg := &NotifyMessage{PaymentID: 42, Event: EventPaymentVerified}
	require.NoError(t, q.Push(ctx, msg))

	popped, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, popped)
	assert.Equal(t, int64(42), popped.PaymentID)
	assert.Equal(t, EventPaymentVerified, popped.Event)
}

func TestQueue_FIFOOrder(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, &NotifyMessage{PaymentID: 1, Event: EventPaymentVerified}))
	require.NoError(t, q.Push(ctx, &NotifyMessage{PaymentID: 2, Event: EventPaymentRejected}))

	first, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.PaymentID)

	second, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.PaymentID)
}

func TestQueue_Length(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)

	require.NoError(t, q.Push(ctx, &NotifyMessage{PaymentID: 1, Event: EventPaymentVerified}))

	length, err = q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)
}
