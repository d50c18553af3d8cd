// Package chat runs the per-case messaging panel of one live session.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"law_office_app_go/models"
	"law_office_app_go/services/realtime"
)

// Status of the session state machine
type Status int

const (
	Closed Status = iota
	Open
)

func (s Status) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoCase       = errors.New("no case is bound to the chat")
)

// Panel is where the session draws. Implementations write to the client.
type Panel interface {
	// Available reports whether the client has a chat panel to draw into
	Available() bool
	Show(caseID string)
	Hide()
	SetMinimized(minimized bool)
	// RenderMessages replaces the panel body; an empty list means no messages yet
	RenderMessages(caseID string, msgs []models.ChatMessage)
	RenderError(caseID string, err error)
	ClearInput()
	Alert(err error)
}

// MessageStore reads and appends case messages
type MessageStore interface {
	ListMessages(ctx context.Context, caseID string) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, caseID, sender, body string) (*models.ChatMessage, error)
}

// Subscriber installs insert notifications for a case
type Subscriber interface {
	Subscribe(caseID string, fn realtime.Handler) realtime.Subscription
}

// Session is bound to at most one case and owns at most one subscription.
// Every open and close bumps gen; a fetch that finishes under an older gen is dropped.
type Session struct {
	panel Panel
	store MessageStore
	subs  Subscriber

	mu           sync.Mutex
	caseID       string
	subscription realtime.Subscription
	gen          uint64
	minimized    bool

	// renderMu orders panel writes against Hide so a stale render cannot land after close
	renderMu sync.Mutex
}

func NewSession(panel Panel, store MessageStore, subs Subscriber) *Session {
	return &Session{panel: panel, store: store, subs: subs}
}

// Status reports Open while a case is bound
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.caseID == "" {
		return Closed
	}
	return Open
}

// CaseID returns the bound case, empty when closed
func (s *Session) CaseID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caseID
}

// OpenChat binds the session to caseID, renders its conversation and
// subscribes to new messages. Re-opening replaces the previous binding.
func (s *Session) OpenChat(ctx context.Context, caseID string) {
	if caseID == "" {
		log.Printf("[CHAT] open ignored: no case id")
		return
	}
	if !s.panel.Available() {
		log.Printf("[CHAT] open ignored: chat panel unavailable (case %s)", caseID)
		return
	}

	s.mu.Lock()
	old := s.subscription
	s.subscription = nil
	s.gen++
	gen := s.gen
	s.caseID = caseID
	s.minimized = false
	s.mu.Unlock()

	if old != nil {
		old.Unsubscribe()
	}

	s.refresh(ctx, gen, caseID)

	s.mu.Lock()
	if s.gen != gen {
		// closed or re-opened while loading
		s.mu.Unlock()
		return
	}
	s.subscription = s.subs.Subscribe(caseID, s.onInsert(gen, caseID))
	s.mu.Unlock()

	s.renderMu.Lock()
	if s.live(gen, caseID) {
		s.panel.Show(caseID)
	}
	s.renderMu.Unlock()
}

// CloseChat drops the subscription and hides the panel. Closing twice is a no-op.
func (s *Session) CloseChat() {
	s.mu.Lock()
	if s.caseID == "" && s.subscription == nil {
		s.mu.Unlock()
		return
	}
	sub := s.subscription
	s.subscription = nil
	s.caseID = ""
	s.gen++
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}

	s.renderMu.Lock()
	s.panel.Hide()
	s.renderMu.Unlock()
}

// ToggleChat flips between minimized and expanded
func (s *Session) ToggleChat() {
	s.mu.Lock()
	if s.caseID == "" {
		s.mu.Unlock()
		return
	}
	s.minimized = !s.minimized
	minimized := s.minimized
	s.mu.Unlock()

	s.renderMu.Lock()
	s.panel.SetMinimized(minimized)
	s.renderMu.Unlock()
}

// SendMessage writes text as the lawyer, then reloads the conversation.
// The input is cleared only after the write succeeded.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	body := strings.TrimSpace(text)
	if body == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	caseID, gen := s.caseID, s.gen
	s.mu.Unlock()
	if caseID == "" {
		return ErrNoCase
	}

	if _, err := s.store.SendMessage(ctx, caseID, models.SenderLawyer, body); err != nil {
		log.Printf("[CHAT] send failed for case %s: %v", caseID, err)
		s.renderMu.Lock()
		s.panel.Alert(err)
		s.renderMu.Unlock()
		return err
	}

	s.renderMu.Lock()
	if s.live(gen, caseID) {
		s.panel.ClearInput()
	}
	s.renderMu.Unlock()

	s.refresh(ctx, gen, caseID)
	return nil
}

func (s *Session) onInsert(gen uint64, caseID string) realtime.Handler {
	return func(ev realtime.MessageEvent) {
		if ev.CaseID != caseID {
			return
		}
		if !s.live(gen, caseID) {
			return
		}
		s.refresh(context.Background(), gen, caseID)
	}
}

func (s *Session) live(gen uint64, caseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen && s.caseID == caseID
}

// refresh fetches the full conversation and redraws it if the binding is still current.
// Concurrent refreshes may finish out of order; the last one to render wins.
func (s *Session) refresh(ctx context.Context, gen uint64, caseID string) {
	msgs, err := s.store.ListMessages(ctx, caseID)

	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if !s.live(gen, caseID) {
		log.Printf("[CHAT] discarded stale render for case %s", caseID)
		return
	}
	if err != nil {
		log.Printf("[CHAT] failed to load messages for case %s: %v", caseID, err)
		s.panel.RenderError(caseID, err)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	s.panel.RenderMessages(caseID, msgs)
}
