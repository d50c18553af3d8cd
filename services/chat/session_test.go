package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"law_office_app_go/models"
	"law_office_app_go/services/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	mu          sync.Mutex
	missing     bool
	visible     bool
	minimized   bool
	shownFor    string
	renders     [][]models.ChatMessage
	renderCases []string
	errorsShown int
	cleared     int
	alerts      []error
}

func (p *fakePanel) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.missing
}

func (p *fakePanel) Show(caseID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = true
	p.minimized = false
	p.shownFor = caseID
}

func (p *fakePanel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
}

func (p *fakePanel) SetMinimized(minimized bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minimized = minimized
}

func (p *fakePanel) RenderMessages(caseID string, msgs []models.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renders = append(p.renders, msgs)
	p.renderCases = append(p.renderCases, caseID)
}

func (p *fakePanel) RenderError(caseID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorsShown++
}

func (p *fakePanel) ClearInput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared++
}

func (p *fakePanel) Alert(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, err)
}

func (p *fakePanel) renderCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.renders)
}

func (p *fakePanel) lastRender() []models.ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.renders) == 0 {
		return nil
	}
	return p.renders[len(p.renders)-1]
}

type fakeStore struct {
	mu       sync.Mutex
	messages map[string][]models.ChatMessage
	listErr  error
	sendErr  error
	writes   int
	lists    int
	// gate, when set, blocks ListMessages until closed
	gate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string][]models.ChatMessage)}
}

func (s *fakeStore) ListMessages(ctx context.Context, caseID string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	gate := s.gate
	s.lists++
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]models.ChatMessage(nil), s.messages[caseID]...), nil
}

func (s *fakeStore) SendMessage(ctx context.Context, caseID, sender, body string) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	msg := models.ChatMessage{ID: "m" + body, CaseID: caseID, Sender: sender, Body: body, SentAt: time.Now()}
	s.messages[caseID] = append(s.messages[caseID], msg)
	return &msg, nil
}

func (s *fakeStore) add(caseID, sender, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[caseID] = append(s.messages[caseID], models.ChatMessage{CaseID: caseID, Sender: sender, Body: body})
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// captureSubscriber hands out subscriptions and keeps their handlers for direct invocation
type captureSubscriber struct {
	mu       sync.Mutex
	handlers []realtime.Handler
	subs     []*captureSub
}

type captureSub struct {
	caseID string
	mu     sync.Mutex
	done   bool
}

func (c *captureSub) CaseID() string { return c.caseID }

func (c *captureSub) Unsubscribe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
}

func (c *captureSub) active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.done
}

func (c *captureSubscriber) Subscribe(caseID string, fn realtime.Handler) realtime.Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &captureSub{caseID: caseID}
	c.handlers = append(c.handlers, fn)
	c.subs = append(c.subs, s)
	return s
}

func (c *captureSubscriber) activeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.subs {
		if s.active() {
			n++
		}
	}
	return n
}

func (c *captureSubscriber) lastHandler() realtime.Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handlers[len(c.handlers)-1]
}

func newTestSession() (*Session, *fakePanel, *fakeStore, *captureSubscriber) {
	panel := &fakePanel{}
	store := newFakeStore()
	subs := &captureSubscriber{}
	return NewSession(panel, store, subs), panel, store, subs
}

func TestOpenChat_RendersEmptyConversation(t *testing.T) {
	s, panel, _, subs := newTestSession()

	s.OpenChat(context.Background(), "case-a")

	assert.Equal(t, Open, s.Status())
	assert.Equal(t, "case-a", s.CaseID())
	require.Equal(t, 1, panel.renderCount())
	assert.NotNil(t, panel.lastRender())
	assert.Empty(t, panel.lastRender())
	assert.True(t, panel.visible)
	assert.False(t, panel.minimized)
	assert.Equal(t, "case-a", panel.shownFor)
	assert.Equal(t, 1, subs.activeCount())
}

func TestOpenChat_RendersClientMessage(t *testing.T) {
	s, panel, store, _ := newTestSession()
	store.add("case-a", models.SenderClient, "hello")

	s.OpenChat(context.Background(), "case-a")

	msgs := panel.lastRender()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsFromClient())
	assert.Equal(t, "hello", msgs[0].Body)
}

func TestOpenChat_FetchErrorStaysOpen(t *testing.T) {
	s, panel, store, subs := newTestSession()
	store.listErr = errors.New("db down")

	s.OpenChat(context.Background(), "case-a")

	assert.Equal(t, Open, s.Status())
	assert.Equal(t, 1, panel.errorsShown)
	assert.Equal(t, 0, panel.renderCount())
	assert.Equal(t, 1, subs.activeCount())
}

func TestOpenChat_IgnoredWithoutCaseOrPanel(t *testing.T) {
	s, panel, store, subs := newTestSession()

	s.OpenChat(context.Background(), "")
	assert.Equal(t, Closed, s.Status())

	panel.missing = true
	s.OpenChat(context.Background(), "case-a")
	assert.Equal(t, Closed, s.Status())
	assert.Equal(t, 0, store.lists)
	assert.Equal(t, 0, subs.activeCount())
}

func TestOpenChat_EmptyIdKeepsCurrentBinding(t *testing.T) {
	s, _, _, subs := newTestSession()
	s.OpenChat(context.Background(), "case-a")

	s.OpenChat(context.Background(), "")

	assert.Equal(t, "case-a", s.CaseID())
	assert.Equal(t, 1, subs.activeCount())
}

func TestOpenChat_ReopenKeepsSingleSubscription(t *testing.T) {
	s, panel, _, subs := newTestSession()

	s.OpenChat(context.Background(), "case-a")
	s.OpenChat(context.Background(), "case-b")

	assert.Equal(t, "case-b", s.CaseID())
	assert.Equal(t, 1, subs.activeCount())
	assert.False(t, subs.subs[0].active())
	assert.True(t, subs.subs[1].active())
	assert.Equal(t, "case-b", panel.shownFor)
}

func TestCloseChat_Idempotent(t *testing.T) {
	s, panel, _, subs := newTestSession()
	s.OpenChat(context.Background(), "case-a")

	s.CloseChat()
	s.CloseChat()

	assert.Equal(t, Closed, s.Status())
	assert.Equal(t, 0, subs.activeCount())
	assert.False(t, panel.visible)
}

func TestCloseChat_WhenNeverOpened(t *testing.T) {
	s, panel, _, _ := newTestSession()
	assert.NotPanics(t, s.CloseChat)
	assert.False(t, panel.visible)
}

func TestToggleChat(t *testing.T) {
	s, panel, _, _ := newTestSession()
	s.OpenChat(context.Background(), "case-a")

	s.ToggleChat()
	assert.True(t, panel.minimized)
	s.ToggleChat()
	assert.False(t, panel.minimized)
	assert.Equal(t, Open, s.Status())
}

func TestSendMessage_EmptyIsNoop(t *testing.T) {
	s, panel, store, _ := newTestSession()
	s.OpenChat(context.Background(), "case-a")

	err := s.SendMessage(context.Background(), "   \n\t")

	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, store.writeCount())
	assert.Equal(t, 0, panel.cleared)
}

func TestSendMessage_RequiresBoundCase(t *testing.T) {
	s, _, store, _ := newTestSession()

	err := s.SendMessage(context.Background(), "hi")

	assert.ErrorIs(t, err, ErrNoCase)
	assert.Equal(t, 0, store.writeCount())
}

func TestSendMessage_WritesAsLawyerAndClearsInput(t *testing.T) {
	s, panel, store, _ := newTestSession()
	s.OpenChat(context.Background(), "case-a")

	err := s.SendMessage(context.Background(), "  see you tomorrow  ")

	require.NoError(t, err)
	assert.Equal(t, 1, panel.cleared)
	msgs := panel.lastRender()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.SenderLawyer, msgs[0].Sender)
	assert.Equal(t, "see you tomorrow", msgs[0].Body)
	assert.Equal(t, 1, store.writeCount())
}

func TestSendMessage_FailureKeepsInput(t *testing.T) {
	s, panel, store, _ := newTestSession()
	s.OpenChat(context.Background(), "case-a")
	store.sendErr = errors.New("write failed")
	before := panel.renderCount()

	err := s.SendMessage(context.Background(), "hello")

	assert.Error(t, err)
	assert.Equal(t, 0, panel.cleared)
	assert.Len(t, panel.alerts, 1)
	assert.Equal(t, before, panel.renderCount())
	assert.Equal(t, Open, s.Status())
}

func TestPush_ForeignCaseIgnored(t *testing.T) {
	s, panel, _, subs := newTestSession()
	s.OpenChat(context.Background(), "case-a")
	before := panel.renderCount()

	subs.lastHandler()(realtime.MessageEvent{ID: "x", CaseID: "case-b"})

	assert.Equal(t, before, panel.renderCount())
}

func TestPush_BoundCaseRefetches(t *testing.T) {
	s, panel, store, subs := newTestSession()
	s.OpenChat(context.Background(), "case-a")
	store.add("case-a", models.SenderClient, "new")

	subs.lastHandler()(realtime.MessageEvent{ID: "x", CaseID: "case-a"})

	require.Len(t, panel.lastRender(), 1)
	assert.Equal(t, "new", panel.lastRender()[0].Body)
}

func TestPush_AfterCloseIgnored(t *testing.T) {
	s, panel, _, subs := newTestSession()
	s.OpenChat(context.Background(), "case-a")
	handler := subs.lastHandler()
	s.CloseChat()
	before := panel.renderCount()

	handler(realtime.MessageEvent{CaseID: "case-a"})

	assert.Equal(t, before, panel.renderCount())
}

func TestPush_StaleHandlerAfterReopen(t *testing.T) {
	s, panel, _, subs := newTestSession()
	s.OpenChat(context.Background(), "case-a")
	oldHandler := subs.lastHandler()
	s.OpenChat(context.Background(), "case-b")
	before := panel.renderCount()

	oldHandler(realtime.MessageEvent{CaseID: "case-a"})

	assert.Equal(t, before, panel.renderCount())
}

func TestOpenChat_ResponseAfterCloseDiscarded(t *testing.T) {
	s, panel, store, subs := newTestSession()
	store.gate = make(chan struct{})

	done := make(chan struct{})
	go func() {
		s.OpenChat(context.Background(), "case-a")
		close(done)
	}()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.lists == 1
	}, time.Second, 5*time.Millisecond)

	s.CloseChat()
	close(store.gate)
	<-done

	assert.Equal(t, 0, panel.renderCount())
	assert.False(t, panel.visible)
	assert.Equal(t, 0, subs.activeCount())
	assert.Equal(t, Closed, s.Status())
}

func TestSession_WithLocalBroker(t *testing.T) {
	broker := realtime.NewLocalBroker()
	defer broker.Close()
	panel := &fakePanel{}
	store := newFakeStore()
	s := NewSession(panel, store, broker)

	s.OpenChat(context.Background(), "case-a")
	s.OpenChat(context.Background(), "case-b")
	assert.Equal(t, 0, broker.SubscriberCount("case-a"))
	assert.Equal(t, 1, broker.SubscriberCount("case-b"))

	before := panel.renderCount()
	store.add("case-b", models.SenderClient, "ping")
	require.NoError(t, broker.Publish(context.Background(), realtime.MessageEvent{CaseID: "case-b"}))

	require.Eventually(t, func() bool {
		return panel.renderCount() > before
	}, time.Second, 5*time.Millisecond)

	s.CloseChat()
	assert.Equal(t, 0, broker.SubscriberCount("case-b"))
}
