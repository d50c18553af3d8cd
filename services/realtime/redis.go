package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPattern = "chat:*"

// RedisBroker carries notifications across server instances over Redis
// pub/sub and fans them out to local subscribers.
type RedisBroker struct {
	client *redis.Client
	local  *LocalBroker

	mu     sync.Mutex
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

// NewRedisClient builds a client for addr
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password})
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client, local: NewLocalBroker()}
}

// Start pings Redis and begins consuming the chat channels
func (b *RedisBroker) Start(ctx context.Context) error {
	if b.client == nil {
		return errors.New("redis client is nil")
	}
	if err := b.client.Ping(ctx).Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pubsub != nil {
		return nil
	}
	subCtx, cancel := context.WithCancel(context.Background())
	b.pubsub = b.client.PSubscribe(subCtx, channelPattern)
	b.cancel = cancel

	go b.consume(subCtx, b.pubsub)
	log.Printf("event=chat_broker action=start backend=redis pattern=%s", channelPattern)
	return nil
}

func (b *RedisBroker) consume(ctx context.Context, sub *redis.PubSub) {
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev MessageEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("event=chat_broker action=consume status=invalid channel=%s error=%v", msg.Channel, err)
				continue
			}
			if ev.CaseID == "" {
				ev.CaseID = strings.TrimPrefix(msg.Channel, "chat:")
			}
			b.local.deliver(ev)
		}
	}
}

// Publish sends through Redis, falling back to local delivery
func (b *RedisBroker) Publish(ctx context.Context, ev MessageEvent) error {
	raw, err := json.Marshal(ev)
	if err == nil {
		err = b.client.Publish(ctx, channelName(ev.CaseID), raw).Err()
	}
	if err != nil {
		fanout := b.local.deliver(ev)
		log.Printf("event=chat_broker action=publish status=failed case_id=%s fallback_fanout=%d error=%v", ev.CaseID, fanout, err)
		return nil
	}
	return nil
}

func (b *RedisBroker) Subscribe(caseID string, fn Handler) Subscription {
	return b.local.Subscribe(caseID, fn)
}

// Close stops consuming and drops every local subscription
func (b *RedisBroker) Close() error {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	var err error
	if b.pubsub != nil {
		err = b.pubsub.Close()
		b.pubsub = nil
	}
	b.mu.Unlock()

	_ = b.local.Close()
	return err
}
