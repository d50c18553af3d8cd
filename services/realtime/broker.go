// Package realtime delivers chat message insert notifications to the live
// sessions that watch a case.
package realtime

import (
	"context"
	"log"
	"sync"
	"time"
)

// MessageEvent announces a newly stored chat message
type MessageEvent struct {
	ID     string    `json:"id"`
	CaseID string    `json:"case_id"`
	Sender string    `json:"sender"`
	SentAt time.Time `json:"sent_at"`
}

// Handler is called on the subscription's own goroutine
type Handler func(MessageEvent)

// Subscription is a live interest in one case. Unsubscribe may be called any number of times.
type Subscription interface {
	CaseID() string
	Unsubscribe()
}

// Broker fans out insert notifications per case
type Broker interface {
	Publish(ctx context.Context, ev MessageEvent) error
	Subscribe(caseID string, fn Handler) Subscription
	Close() error
}

func channelName(caseID string) string {
	return "chat:" + caseID
}

// LocalBroker delivers within the process
type LocalBroker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]*localSub
	closed bool
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[uint64]*localSub)}
}

type localSub struct {
	id      uint64
	caseID  string
	fn      Handler
	pending chan MessageEvent
	done    chan struct{}
	once    sync.Once
	broker  *LocalBroker
}

func (s *localSub) CaseID() string { return s.caseID }

func (s *localSub) Unsubscribe() {
	s.once.Do(func() {
		s.broker.remove(s)
		close(s.done)
	})
}

// run drains notifications until unsubscribed
func (s *localSub) run() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.pending:
			select {
			case <-s.done:
				return
			default:
			}
			s.fn(ev)
		}
	}
}

// Subscribe registers fn for inserts on caseID
func (b *LocalBroker) Subscribe(caseID string, fn Handler) Subscription {
	s := &localSub{
		caseID:  caseID,
		fn:      fn,
		pending: make(chan MessageEvent, 1),
		done:    make(chan struct{}),
		broker:  b,
	}

	b.mu.Lock()
	b.nextID++
	s.id = b.nextID
	if b.subs[caseID] == nil {
		b.subs[caseID] = make(map[uint64]*localSub)
	}
	b.subs[caseID][s.id] = s
	b.mu.Unlock()

	go s.run()
	log.Printf("event=chat_broker action=subscribe case_id=%s sub_id=%d", caseID, s.id)
	return s
}

func (b *LocalBroker) remove(s *localSub) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[s.caseID]; ok {
		delete(set, s.id)
		if len(set) == 0 {
			delete(b.subs, s.caseID)
		}
	}
	log.Printf("event=chat_broker action=unsubscribe case_id=%s sub_id=%d", s.caseID, s.id)
}

// Publish notifies every subscriber of the event's case
func (b *LocalBroker) Publish(ctx context.Context, ev MessageEvent) error {
	b.deliver(ev)
	return nil
}

// deliver never blocks. A subscriber with a notification already queued
// will re-read the conversation anyway, so a second one is coalesced.
func (b *LocalBroker) deliver(ev MessageEvent) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}

	count := 0
	for _, s := range b.subs[ev.CaseID] {
		select {
		case s.pending <- ev:
		default:
		}
		count++
	}
	return count
}

// SubscriberCount reports live subscriptions for a case
func (b *LocalBroker) SubscriberCount(caseID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[caseID])
}

// Close stops every subscription
func (b *LocalBroker) Close() error {
	b.mu.Lock()
	b.closed = true
	var all []*localSub
	for _, set := range b.subs {
		for _, s := range set {
			all = append(all, s)
		}
	}
	b.mu.Unlock()

	for _, s := range all {
		s.Unsubscribe()
	}
	return nil
}
