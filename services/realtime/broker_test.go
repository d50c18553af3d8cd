package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBrokerDeliversToCaseSubscribers(t *testing.T) {
	b := NewLocalBroker()
	defer b.Close()

	got := make(chan MessageEvent, 4)
	sub := b.Subscribe("case-1", func(ev MessageEvent) { got <- ev })
	other := b.Subscribe("case-2", func(ev MessageEvent) { t.Errorf("unexpected delivery for %s", ev.CaseID) })
	defer other.Unsubscribe()

	require.NoError(t, b.Publish(context.Background(), MessageEvent{ID: "m1", CaseID: "case-1"}))

	select {
	case ev := <-got:
		assert.Equal(t, "m1", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	assert.Equal(t, "case-1", sub.CaseID())
	sub.Unsubscribe()
}

func TestLocalBrokerUnsubscribeIsIdempotent(t *testing.T) {
	b := NewLocalBroker()
	defer b.Close()

	var calls int32
	sub := b.Subscribe("case-1", func(MessageEvent) { atomic.AddInt32(&calls, 1) })
	assert.Equal(t, 1, b.SubscriberCount("case-1"))

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 0, b.SubscriberCount("case-1"))

	require.NoError(t, b.Publish(context.Background(), MessageEvent{CaseID: "case-1"}))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestLocalBrokerCoalescesBurst(t *testing.T) {
	b := NewLocalBroker()
	defer b.Close()

	release := make(chan struct{})
	var calls int32
	b.Subscribe("case-1", func(MessageEvent) {
		atomic.AddInt32(&calls, 1)
		<-release
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Publish(context.Background(), MessageEvent{CaseID: "case-1"}))
	}
	close(release)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	// one in flight plus at most one queued
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestLocalBrokerClose(t *testing.T) {
	b := NewLocalBroker()
	b.Subscribe("case-1", func(MessageEvent) {})
	b.Subscribe("case-2", func(MessageEvent) {})

	require.NoError(t, b.Close())
	assert.Equal(t, 0, b.SubscriberCount("case-1"))
	assert.Equal(t, 0, b.SubscriberCount("case-2"))
}

func TestRedisBrokerFallsBackToLocalDelivery(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	b := NewRedisBroker(client)
	defer b.Close()

	assert.Error(t, b.Start(context.Background()))

	got := make(chan MessageEvent, 1)
	sub := b.Subscribe("case-9", func(ev MessageEvent) { got <- ev })
	defer sub.Unsubscribe()

	require.NoError(t, b.Publish(context.Background(), MessageEvent{ID: "m9", CaseID: "case-9"}))
	select {
	case ev := <-got:
		assert.Equal(t, "m9", ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("fallback delivery missing")
	}
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "chat:abc", channelName("abc"))
}
